package repository

import (
	"context"
	"strings"

	"talent-catalog/internal/database"
)

// CandidateSearchRepository executes fetch queries produced by the search
// builder. The query text is trusted; paging values are always bound.
type CandidateSearchRepository interface {
	FetchIDs(ctx context.Context, fetchSQL string, limit, offset int) ([]int64, error)
	Count(ctx context.Context, fetchSQL string) (int64, error)
}

type PostgresCandidateSearchRepository struct {
	db database.DB
}

func NewPostgresCandidateSearchRepository(db database.DB) *PostgresCandidateSearchRepository {
	return &PostgresCandidateSearchRepository{db: db}
}

func (r *PostgresCandidateSearchRepository) FetchIDs(ctx context.Context, fetchSQL string, limit, offset int) ([]int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, strings.TrimSpace(fetchSQL)+` limit $1 offset $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int64, 0, limit)
	for rows.Next() {
		// ordered queries select the sort columns too; only the id is kept
		var id int64
		if err := scanFirst(rows, &id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCandidateSearchRepository) Count(ctx context.Context, fetchSQL string) (int64, error) {
	row := r.db.QueryRow(ctx, `select count(*) from (`+strings.TrimSpace(fetchSQL)+`) as matches`)
	var c int64
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}
