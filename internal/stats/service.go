package stats

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"talent-catalog/internal/database"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// Service runs stat queries against the catalogue database.
type Service struct {
	db  *sqlx.DB
	log zerolog.Logger
}

func NewService(db *sqlx.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log}
}

// NewServiceFromDB shares the pool behind db through its database/sql handle.
func NewServiceFromDB(db database.DB, log zerolog.Logger) *Service {
	return NewService(sqlx.NewDb(db.SQLDB(), "pgx"), log)
}

type row struct {
	Label sql.NullString `db:"label"`
	Count int64          `db:"people_count"`
}

func (s *Service) Compute(ctx context.Context, q Query) ([]DataRow, error) {
	query, args, limit, err := Compile(q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var raw []row
	if err := s.db.SelectContext(ctx, &raw, query, args...); err != nil {
		return nil, fmt.Errorf("run %s stat: %w", q.Kind, err)
	}
	s.log.Debug().
		Str("stat", string(q.Kind)).
		Str("sql", query).
		Int("rows", len(raw)).
		Dur("took", time.Since(start)).
		Msg("stat computed")

	return limitRows(toRows(raw), limit), nil
}

func toRows(raw []row) []DataRow {
	out := make([]DataRow, 0, len(raw))
	for _, r := range raw {
		label := undefinedLabel
		if r.Label.Valid {
			label = r.Label.String
		}
		out = append(out, DataRow{Label: label, Value: r.Count})
	}
	return out
}
