// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package album (PostgreSQL stores) persists the content tree.

Notable schema mechanics:
  - A unique index on (parentid, slug) enforces sibling slug uniqueness;
    violations surface as apperr.Conflict via dberr.
  - Album deletion cascades through parent links, pictures, and media.
  - Picture deletion nulls out coverpictureid references (ON DELETE SET NULL)
    so the next save can pick a fresh cover.
*/
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

// # Album Repository

// albumRepository implements [AlbumRepository] using pgx.
type albumRepository struct {
	pool *pgxpool.Pool
}

// NewAlbumRepository constructs a PostgreSQL backed album store.
func NewAlbumRepository(pool *pgxpool.Pool) AlbumRepository {
	return &albumRepository{pool: pool}
}

// albumColumns is the canonical SELECT column list, matching scanAlbum.
func albumColumns() string {
	return strings.Join(schema.CoreAlbum.Columns(), ", ")
}

// scanAlbum hydrates one album from a row in albumColumns order.
func scanAlbum(row pgx.Row) (*Album, error) {
	album := &Album{}
	err := row.Scan(
		&album.ID, &album.ParentID, &album.Slug, &album.Path, &album.Title,
		&album.Description, &album.Body, &album.RedirectURL,
		&album.CoverPictureID, &album.IsPublic, &album.IsVisible, &album.Date,
		&album.Layout, &album.SeriesID, &album.PreviousInSeriesID,
		&album.NextInSeriesID, &album.CreatedAt, &album.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return album, nil
}

/*
FindByID retrieves an album by its primary key.

Returns:
  - *Album: The hydrated tree node
  - error: dberr.ErrNotFound on missing rows
*/
func (repository *albumRepository) FindByID(context context.Context, id string) (*Album, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		albumColumns(), schema.CoreAlbum.Table, schema.CoreAlbum.ID,
	)

	album, err := scanAlbum(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_album_by_id")
	}
	return album, nil
}

/*
FindFirst retrieves the first album matching the filter in creation order.

Description: The dynamic WHERE clause is assembled from the filter's set
fields. The HasCover constraint is what lets path resolution require a
picture's owning album to carry a cover before treating the hit as valid.

Returns:
  - *Album: The first match
  - error: dberr.ErrNotFound when nothing matches
*/
func (repository *albumRepository) FindFirst(context context.Context, filter Filter) (*Album, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(
		"SELECT %s FROM %s WHERE 1=1", albumColumns(), schema.CoreAlbum.Table,
	))

	// Dynamic WHERE clause construction
	if filter.ID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreAlbum.ID, argID))
		args = append(args, filter.ID)
		argID++
	}
	if filter.Path != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreAlbum.Path, argID))
		args = append(args, filter.Path)
		argID++
	}
	if filter.ParentID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreAlbum.ParentID, argID))
		args = append(args, *filter.ParentID)
		argID++
	}
	if filter.HasCover != nil {
		if *filter.HasCover {
			queryBuilder.WriteString(fmt.Sprintf(" AND %s IS NOT NULL", schema.CoreAlbum.CoverPictureID))
		} else {
			queryBuilder.WriteString(fmt.Sprintf(" AND %s IS NULL", schema.CoreAlbum.CoverPictureID))
		}
	}
	if filter.IsPublic != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreAlbum.IsPublic, argID))
		args = append(args, *filter.IsPublic)
		argID++
	}
	if filter.IsVisible != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreAlbum.IsVisible, argID))
		args = append(args, *filter.IsVisible)
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC LIMIT 1", schema.CoreAlbum.CreatedAt))

	album, err := scanAlbum(repository.pool.QueryRow(context, queryBuilder.String(), args...))
	if err != nil {
		return nil, dberr.Wrap(err, "find_first_album")
	}
	return album, nil
}

/*
ListChildren returns the direct sub-albums of a parent in creation order.
*/
func (repository *albumRepository) ListChildren(context context.Context, parentID string) ([]*Album, error) {

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		albumColumns(), schema.CoreAlbum.Table,
		schema.CoreAlbum.ParentID, schema.CoreAlbum.CreatedAt,
	)

	return repository.list(context, query, "list_children", parentID)
}

/*
ListRoots returns all parentless albums in creation order.
*/
func (repository *albumRepository) ListRoots(context context.Context) ([]*Album, error) {

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s IS NULL
		ORDER BY %s ASC
	`,
		albumColumns(), schema.CoreAlbum.Table,
		schema.CoreAlbum.ParentID, schema.CoreAlbum.CreatedAt,
	)

	return repository.list(context, query, "list_roots")
}

/*
ListBySeries returns series members in chronological order.

Description: Dateless members sort last so the resequencer appends them at
the end of the chain; creation time breaks ties between same-day albums.
*/
func (repository *albumRepository) ListBySeries(context context.Context, seriesID string) ([]*Album, error) {

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY %s ASC NULLS LAST, %s ASC
	`,
		albumColumns(), schema.CoreAlbum.Table,
		schema.CoreAlbum.SeriesID, schema.CoreAlbum.Date, schema.CoreAlbum.CreatedAt,
	)

	return repository.list(context, query, "list_by_series", seriesID)
}

// list executes a multi-row album query and hydrates the result set.
func (repository *albumRepository) list(context context.Context, query, action string, args ...any) ([]*Album, error) {

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var albums []*Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		albums = append(albums, album)
	}

	return albums, rows.Err()
}

/*
Create persists a new album row.

Returns:
  - error: apperr.Conflict when a sibling already owns the slug
*/
func (repository *albumRepository) Create(context context.Context, album *Album) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING %s, %s
	`,
		schema.CoreAlbum.Table,
		schema.CoreAlbum.ID, schema.CoreAlbum.ParentID, schema.CoreAlbum.Slug,
		schema.CoreAlbum.Path, schema.CoreAlbum.Title, schema.CoreAlbum.Description,
		schema.CoreAlbum.Body, schema.CoreAlbum.RedirectURL,
		schema.CoreAlbum.CoverPictureID, schema.CoreAlbum.IsPublic,
		schema.CoreAlbum.IsVisible, schema.CoreAlbum.Date, schema.CoreAlbum.Layout,
		schema.CoreAlbum.SeriesID,
		schema.CoreAlbum.CreatedAt, schema.CoreAlbum.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		album.ID, album.ParentID, album.Slug, album.Path, album.Title,
		album.Description, album.Body, album.RedirectURL, album.CoverPictureID,
		album.IsPublic, album.IsVisible, album.Date, album.Layout,
		album.SeriesID,
	).Scan(&album.CreatedAt, &album.UpdatedAt)

	return dberr.Wrap(err, "create_album")
}

/*
Update persists all mutable fields of an existing album row.

Description: The full field set is rewritten on every call. Saves always
run the complete recompute pipeline first, so partial updates would only
hide stale derived state.
*/
func (repository *albumRepository) Update(context context.Context, album *Album) error {

	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
			%s = $9, %s = $10, %s = $11, %s = $12, %s = $13, %s = $14,
			%s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.CoreAlbum.Table,
		schema.CoreAlbum.ParentID, schema.CoreAlbum.Slug, schema.CoreAlbum.Path,
		schema.CoreAlbum.Title, schema.CoreAlbum.Description, schema.CoreAlbum.Body,
		schema.CoreAlbum.RedirectURL, schema.CoreAlbum.CoverPictureID,
		schema.CoreAlbum.IsPublic, schema.CoreAlbum.IsVisible, schema.CoreAlbum.Date,
		schema.CoreAlbum.Layout, schema.CoreAlbum.SeriesID,
		schema.CoreAlbum.UpdatedAt,
		schema.CoreAlbum.ID,
		schema.CoreAlbum.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		album.ID, album.ParentID, album.Slug, album.Path, album.Title,
		album.Description, album.Body, album.RedirectURL, album.CoverPictureID,
		album.IsPublic, album.IsVisible, album.Date, album.Layout,
		album.SeriesID,
	).Scan(&album.UpdatedAt)

	return dberr.Wrap(err, "update_album")
}

/*
UpdateSeriesPointers rewrites only the chain pointers of one album.

Description: Kept separate from Update so resequencing a long series does
not touch content fields or bump updatedat on every member.
*/
func (repository *albumRepository) UpdateSeriesPointers(context context.Context, id string, previousID, nextID *string) error {

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.CoreAlbum.Table,
		schema.CoreAlbum.PreviousInSeries, schema.CoreAlbum.NextInSeries,
		schema.CoreAlbum.ID,
	)

	result, err := repository.pool.Exec(context, query, id, previousID, nextID)
	if err != nil {
		return dberr.Wrap(err, "update_series_pointers")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
Delete removes an album row.

Description: ON DELETE CASCADE on parentid and albumid foreign keys removes
the entire subtree, its pictures, and their media rows in one statement.
*/
func (repository *albumRepository) Delete(context context.Context, id string) error {

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CoreAlbum.Table, schema.CoreAlbum.ID,
	)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_album")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
