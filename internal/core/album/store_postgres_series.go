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

// # Series Repository

// seriesRepository implements [SeriesRepository] using pgx.
type seriesRepository struct {
	pool *pgxpool.Pool
}

// NewSeriesRepository constructs a PostgreSQL backed series store.
func NewSeriesRepository(pool *pgxpool.Pool) SeriesRepository {
	return &seriesRepository{pool: pool}
}

func seriesColumns() string {
	return strings.Join(schema.CoreSeries.Columns(), ", ")
}

func scanSeries(row pgx.Row) (*Series, error) {
	series := &Series{}
	err := row.Scan(&series.ID, &series.Slug, &series.Name, &series.CreatedAt)
	if err != nil {
		return nil, err
	}
	return series, nil
}

/*
FindByID retrieves a series by its primary key.
*/
func (repository *seriesRepository) FindByID(context context.Context, id string) (*Series, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		seriesColumns(), schema.CoreSeries.Table, schema.CoreSeries.ID,
	)

	series, err := scanSeries(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_series_by_id")
	}
	return series, nil
}

/*
FindBySlug retrieves a series by its URL slug.
*/
func (repository *seriesRepository) FindBySlug(context context.Context, slug string) (*Series, error) {

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		seriesColumns(), schema.CoreSeries.Table, schema.CoreSeries.Slug,
	)

	series, err := scanSeries(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "find_series_by_slug")
	}
	return series, nil
}

/*
List returns one page of series ordered by name, plus the total count.
*/
func (repository *seriesRepository) List(context context.Context, limit, offset int) ([]*Series, int, error) {

	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, schema.CoreSeries.Table)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_series")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC LIMIT $1 OFFSET $2`,
		seriesColumns(), schema.CoreSeries.Table, schema.CoreSeries.Name,
	)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_series")
	}
	defer rows.Close()

	var collection []*Series
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "list_series")
		}
		collection = append(collection, series)
	}

	return collection, total, rows.Err()
}

/*
Create persists a new series row.
*/
func (repository *seriesRepository) Create(context context.Context, series *Series) error {

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s
	`,
		schema.CoreSeries.Table,
		schema.CoreSeries.ID, schema.CoreSeries.Slug, schema.CoreSeries.Name,
		schema.CoreSeries.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		series.ID, series.Slug, series.Name,
	).Scan(&series.CreatedAt)

	return dberr.Wrap(err, "create_series")
}
