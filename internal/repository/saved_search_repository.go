package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"talent-catalog/internal/database"
	"talent-catalog/internal/search"

	"github.com/jackc/pgx/v5"
)

var (
	ErrSavedSearchNotFound = errors.New("saved search not found")
)

type SavedSearchRepository interface {
	FindByID(ctx context.Context, id int64) (SavedSearch, error)
	Create(ctx context.Context, name string, createdBy *int64, req search.CandidateRequest) (int64, error)
}

// SavedSearch keeps its filters as the JSON encoding of the request.
type SavedSearch struct {
	ID      int64
	Name    string
	Request search.CandidateRequest
}

type PostgresSavedSearchRepository struct {
	db database.DB
}

func NewPostgresSavedSearchRepository(db database.DB) *PostgresSavedSearchRepository {
	return &PostgresSavedSearchRepository{db: db}
}

func (r *PostgresSavedSearchRepository) FindByID(ctx context.Context, id int64) (SavedSearch, error) {
	var (
		s   SavedSearch
		raw []byte
	)
	row := r.db.QueryRow(ctx, `SELECT id, name, search_request FROM saved_search WHERE id = $1`, id)
	if err := row.Scan(&s.ID, &s.Name, &raw); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return SavedSearch{}, ErrSavedSearchNotFound
		}
		return SavedSearch{}, err
	}
	if err := json.Unmarshal(raw, &s.Request); err != nil {
		return SavedSearch{}, fmt.Errorf("decode saved search %d: %w", id, err)
	}
	return s, nil
}

func (r *PostgresSavedSearchRepository) Create(ctx context.Context, name string, createdBy *int64, req search.CandidateRequest) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.New("saved search name is required")
	}
	b, err := json.Marshal(req)
	if err != nil {
		return 0, err
	}

	var id int64
	row := r.db.QueryRow(ctx,
		`INSERT INTO saved_search (name, search_request, created_by)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		name, b, createdBy,
	)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
