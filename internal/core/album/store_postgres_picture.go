// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package album

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/galleria/internal/platform/database/schema"
	"github.com/taibuivan/galleria/internal/platform/dberr"
)

// # Picture Repository

// pictureRepository implements [PictureRepository] using pgx.
type pictureRepository struct {
	pool *pgxpool.Pool
}

// NewPictureRepository constructs a PostgreSQL backed picture store.
func NewPictureRepository(pool *pgxpool.Pool) PictureRepository {
	return &pictureRepository{pool: pool}
}

func pictureColumns() string {
	return strings.Join(schema.CorePicture.Columns(), ", ")
}

// scanPicture hydrates one picture from a row in pictureColumns order.
func scanPicture(row pgx.Row) (*Picture, error) {
	picture := &Picture{}
	err := row.Scan(
		&picture.ID, &picture.AlbumID, &picture.Slug, &picture.Path,
		&picture.Title, &picture.SortOrder, &picture.IsPublic,
		&picture.CreatedAt, &picture.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return picture, nil
}

/*
FindByID retrieves a picture by its primary key.
*/
func (repository *pictureRepository) FindByID(context context.Context, id string) (*Picture, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		pictureColumns(), schema.CorePicture.Table, schema.CorePicture.ID,
	)

	picture, err := scanPicture(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_picture_by_id")
	}
	return picture, nil
}

/*
FindByPath retrieves a picture by its materialized path.

Description: Backed by a unique index on path; used by the resolver to test
whether a requested URL names a picture before falling back to albums.
*/
func (repository *pictureRepository) FindByPath(context context.Context, path string) (*Picture, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		pictureColumns(), schema.CorePicture.Table, schema.CorePicture.Path,
	)

	picture, err := scanPicture(repository.pool.QueryRow(context, query, path))
	if err != nil {
		return nil, dberr.Wrap(err, "find_picture_by_path")
	}
	return picture, nil
}

/*
ListByAlbum returns an album's pictures in presentation order.

Parameters:
  - context: context.Context
  - albumID: string (Owner UUID)
  - publicOnly: bool (Exclude non-public pictures when true)

Returns:
  - []*Picture: Pictures ordered by sortorder, then creation time
  - error: Database retrieval failures
*/
func (repository *pictureRepository) ListByAlbum(context context.Context, albumID string, publicOnly bool) ([]*Picture, error) {

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		pictureColumns(), schema.CorePicture.Table, schema.CorePicture.AlbumID,
	))

	if publicOnly {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = true", schema.CorePicture.IsPublic))
	}

	queryBuilder.WriteString(fmt.Sprintf(
		" ORDER BY %s ASC, %s ASC",
		schema.CorePicture.SortOrder, schema.CorePicture.CreatedAt,
	))

	rows, err := repository.pool.Query(context, queryBuilder.String(), albumID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_pictures")
	}
	defer rows.Close()

	var pictures []*Picture
	for rows.Next() {
		picture, err := scanPicture(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "list_pictures")
		}
		pictures = append(pictures, picture)
	}

	return pictures, rows.Err()
}

/*
FirstByAlbum returns the leading picture of an album in sort order.

Returns:
  - *Picture: The first picture
  - error: dberr.ErrNotFound when the album holds no pictures
*/
func (repository *pictureRepository) FirstByAlbum(context context.Context, albumID string) (*Picture, error) {

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY %s ASC, %s ASC
		LIMIT 1
	`,
		pictureColumns(), schema.CorePicture.Table, schema.CorePicture.AlbumID,
		schema.CorePicture.SortOrder, schema.CorePicture.CreatedAt,
	)

	picture, err := scanPicture(repository.pool.QueryRow(context, query, albumID))
	if err != nil {
		return nil, dberr.Wrap(err, "first_picture_by_album")
	}
	return picture, nil
}

/*
Create persists a new picture row.
*/
func (repository *pictureRepository) Create(context context.Context, picture *Picture) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s
	`,
		schema.CorePicture.Table,
		schema.CorePicture.ID, schema.CorePicture.AlbumID, schema.CorePicture.Slug,
		schema.CorePicture.Path, schema.CorePicture.Title,
		schema.CorePicture.SortOrder, schema.CorePicture.IsPublic,
		schema.CorePicture.CreatedAt, schema.CorePicture.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		picture.ID, picture.AlbumID, picture.Slug, picture.Path, picture.Title,
		picture.SortOrder, picture.IsPublic,
	).Scan(&picture.CreatedAt, &picture.UpdatedAt)

	return dberr.Wrap(err, "create_picture")
}

/*
Update persists all mutable fields of an existing picture row.
*/
func (repository *pictureRepository) Update(context context.Context, picture *Picture) error {

	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CorePicture.Table,
		schema.CorePicture.AlbumID, schema.CorePicture.Slug, schema.CorePicture.Path,
		schema.CorePicture.Title, schema.CorePicture.SortOrder,
		schema.CorePicture.IsPublic, schema.CorePicture.UpdatedAt,
		schema.CorePicture.ID,
		schema.CorePicture.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		picture.ID, picture.AlbumID, picture.Slug, picture.Path, picture.Title,
		picture.SortOrder, picture.IsPublic,
	).Scan(&picture.UpdatedAt)

	return dberr.Wrap(err, "update_picture")
}

/*
Delete removes a picture row.

Description: ON DELETE CASCADE removes its media rows; ON DELETE SET NULL
clears any album coverpictureid still referencing it.
*/
func (repository *pictureRepository) Delete(context context.Context, id string) error {

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CorePicture.Table, schema.CorePicture.ID,
	)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_picture")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
