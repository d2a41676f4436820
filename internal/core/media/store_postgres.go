// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/galleria/internal/platform/database/schema"
	"github.com/taibuivan/galleria/internal/platform/dberr"
)

// # Media Repository

// mediaRepository implements [MediaRepository] using pgx.
type mediaRepository struct {
	pool *pgxpool.Pool
}

// NewMediaRepository constructs a PostgreSQL backed media store.
func NewMediaRepository(pool *pgxpool.Pool) MediaRepository {
	return &mediaRepository{pool: pool}
}

func mediaColumns() string {
	return strings.Join(schema.CoreMedia.Columns(), ", ")
}

// scanMedia hydrates one artifact from a row in mediaColumns order.
func scanMedia(row pgx.Row) (*Media, error) {
	media := &Media{}
	err := row.Scan(
		&media.ID, &media.PictureID, &media.SpecID, &media.Role, &media.Format,
		&media.Width, &media.Height, &media.Src, &media.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return media, nil
}

/*
FindOriginal returns the original artifact row of a picture.
*/
func (repository *mediaRepository) FindOriginal(context context.Context, pictureID string) (*Media, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		mediaColumns(), schema.CoreMedia.Table,
		schema.CoreMedia.PictureID, schema.CoreMedia.Role,
	)

	media, err := scanMedia(repository.pool.QueryRow(context, query, pictureID, RoleOriginal))
	if err != nil {
		return nil, dberr.Wrap(err, "find_original")
	}
	return media, nil
}

/*
FindBySpec returns the variant a spec produced for a picture.

Description: Backed by a unique index on (pictureid, specid), which is
also what makes concurrent derivation of the same variant collapse into
one row.
*/
func (repository *mediaRepository) FindBySpec(context context.Context, pictureID, specID string) (*Media, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		mediaColumns(), schema.CoreMedia.Table,
		schema.CoreMedia.PictureID, schema.CoreMedia.SpecID,
	)

	media, err := scanMedia(repository.pool.QueryRow(context, query, pictureID, specID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_by_spec")
	}
	return media, nil
}

/*
ListByPicture returns all artifacts of a picture, original first.
*/
func (repository *mediaRepository) ListByPicture(context context.Context, pictureID string) ([]*Media, error) {

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY CASE WHEN %s = '%s' THEN 0 ELSE 1 END, %s ASC
	`,
		mediaColumns(), schema.CoreMedia.Table,
		schema.CoreMedia.PictureID,
		schema.CoreMedia.Role, RoleOriginal, schema.CoreMedia.Role,
	)

	rows, err := repository.pool.Query(context, query, pictureID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_by_picture")
	}
	defer rows.Close()

	var collection []*Media
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "list_by_picture")
		}
		collection = append(collection, media)
	}

	return collection, rows.Err()
}

/*
Create persists a new artifact row.
*/
func (repository *mediaRepository) Create(context context.Context, media *Media) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s
	`,
		schema.CoreMedia.Table,
		schema.CoreMedia.ID, schema.CoreMedia.PictureID, schema.CoreMedia.SpecID,
		schema.CoreMedia.Role, schema.CoreMedia.Format, schema.CoreMedia.Width,
		schema.CoreMedia.Height, schema.CoreMedia.Src,
		schema.CoreMedia.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		media.ID, media.PictureID, media.SpecID, media.Role, media.Format,
		media.Width, media.Height, media.Src,
	).Scan(&media.CreatedAt)

	return dberr.Wrap(err, "create_media")
}

/*
DeleteByPicture removes all artifact rows of a picture.
*/
func (repository *mediaRepository) DeleteByPicture(context context.Context, pictureID string) error {

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreMedia.Table, schema.CoreMedia.PictureID,
	)

	_, err := repository.pool.Exec(context, query, pictureID)
	return dberr.Wrap(err, "delete_media_by_picture")
}

// # Spec Repository

// specRepository implements [SpecRepository] using pgx.
type specRepository struct {
	pool *pgxpool.Pool
}

// NewSpecRepository constructs a PostgreSQL backed spec store.
func NewSpecRepository(pool *pgxpool.Pool) SpecRepository {
	return &specRepository{pool: pool}
}

func specColumns() string {
	return strings.Join(schema.CoreMediaSpec.Columns(), ", ")
}

func scanSpec(row pgx.Row) (*Spec, error) {
	spec := &Spec{}
	err := row.Scan(
		&spec.ID, &spec.Role, &spec.MaxWidth, &spec.MaxHeight, &spec.Format,
		&spec.Quality, &spec.Active, &spec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return spec, nil
}

/*
FindByID returns the spec with the given ID.
*/
func (repository *specRepository) FindByID(context context.Context, id string) (*Spec, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		specColumns(), schema.CoreMediaSpec.Table, schema.CoreMediaSpec.ID,
	)

	spec, err := scanSpec(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_spec_by_id")
	}
	return spec, nil
}

/*
List returns all specs, active first, ordered by role.
*/
func (repository *specRepository) List(context context.Context) ([]*Spec, error) {

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY %s DESC, %s ASC
	`,
		specColumns(), schema.CoreMediaSpec.Table,
		schema.CoreMediaSpec.Active, schema.CoreMediaSpec.Role,
	)

	return repository.list(context, query, "list_specs")
}

/*
ListActive returns the specs applied during import, ordered by role.
*/
func (repository *specRepository) ListActive(context context.Context) ([]*Spec, error) {

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = true
		ORDER BY %s ASC
	`,
		specColumns(), schema.CoreMediaSpec.Table,
		schema.CoreMediaSpec.Active, schema.CoreMediaSpec.Role,
	)

	return repository.list(context, query, "list_active_specs")
}

func (repository *specRepository) list(context context.Context, query, action string) ([]*Spec, error) {

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var specs []*Spec
	for rows.Next() {
		spec, err := scanSpec(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		specs = append(specs, spec)
	}

	return specs, rows.Err()
}

/*
Create persists a new spec row.
*/
func (repository *specRepository) Create(context context.Context, spec *Spec) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`,
		schema.CoreMediaSpec.Table,
		schema.CoreMediaSpec.ID, schema.CoreMediaSpec.Role,
		schema.CoreMediaSpec.MaxWidth, schema.CoreMediaSpec.MaxHeight,
		schema.CoreMediaSpec.Format, schema.CoreMediaSpec.Quality,
		schema.CoreMediaSpec.Active,
		schema.CoreMediaSpec.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		spec.ID, spec.Role, spec.MaxWidth, spec.MaxHeight, spec.Format,
		spec.Quality, spec.Active,
	).Scan(&spec.CreatedAt)

	return dberr.Wrap(err, "create_spec")
}

/*
Update persists all mutable fields of an existing spec row.
*/
func (repository *specRepository) Update(context context.Context, spec *Spec) error {

	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1
	`,
		schema.CoreMediaSpec.Table,
		schema.CoreMediaSpec.Role, schema.CoreMediaSpec.MaxWidth,
		schema.CoreMediaSpec.MaxHeight, schema.CoreMediaSpec.Format,
		schema.CoreMediaSpec.Quality, schema.CoreMediaSpec.Active,
		schema.CoreMediaSpec.ID,
	)

	result, err := repository.pool.Exec(context, query,
		spec.ID, spec.Role, spec.MaxWidth, spec.MaxHeight, spec.Format,
		spec.Quality, spec.Active,
	)
	if err != nil {
		return dberr.Wrap(err, "update_spec")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
