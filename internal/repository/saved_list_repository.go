package repository

import (
	"context"
	"database/sql"
	"errors"

	"talent-catalog/internal/database"

	"github.com/jackc/pgx/v5"
)

var (
	ErrSavedListNotFound = errors.New("saved list not found")
)

type SavedListRepository interface {
	FindByID(ctx context.Context, id int64) (SavedList, error)
	CandidateIDs(ctx context.Context, listID int64) ([]int64, error)
}

type SavedList struct {
	ID     int64
	Name   string
	Global bool
}

type PostgresSavedListRepository struct {
	db database.DB
}

func NewPostgresSavedListRepository(db database.DB) *PostgresSavedListRepository {
	return &PostgresSavedListRepository{db: db}
}

func (r *PostgresSavedListRepository) FindByID(ctx context.Context, id int64) (SavedList, error) {
	var l SavedList
	row := r.db.QueryRow(ctx, `SELECT id, name, global FROM saved_list WHERE id = $1`, id)
	if err := row.Scan(&l.ID, &l.Name, &l.Global); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return SavedList{}, ErrSavedListNotFound
		}
		return SavedList{}, err
	}
	return l, nil
}

// CandidateIDs returns the members of a list in ascending id order.
func (r *PostgresSavedListRepository) CandidateIDs(ctx context.Context, listID int64) ([]int64, error) {
	if _, err := r.FindByID(ctx, listID); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT candidate_id
		 FROM candidate_saved_list
		 WHERE saved_list_id = $1
		 ORDER BY candidate_id ASC`,
		listID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
