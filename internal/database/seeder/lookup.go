package seeder

import (
	"context"
	"fmt"

	"talent-catalog/internal/database"
)

// LookupSeeder inserts named rows into a reference table. Rows that already
// exist are left alone.
type LookupSeeder struct {
	Table string
	Names []string
}

func (s LookupSeeder) Name() string { return s.Table }

func (s LookupSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, s.Table, "id", "name"); err != nil {
		return err
	}

	// table names come from Defaults, never from input
	stmt := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, s.Table)
	return database.WithTx(ctx, db, func(q database.Querier) error {
		for _, name := range s.Names {
			if _, err := q.Exec(ctx, stmt, name); err != nil {
				return fmt.Errorf("insert %s: %w", name, err)
			}
		}
		return nil
	})
}

type Level struct {
	Name  string
	Level int
}

// LevelSeeder inserts ranked reference rows, updating the rank of rows that
// already exist.
type LevelSeeder struct {
	Table  string
	Levels []Level
}

func (s LevelSeeder) Name() string { return s.Table }

func (s LevelSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, s.Table, "id", "name", "level"); err != nil {
		return err
	}

	stmt := fmt.Sprintf(
		`INSERT INTO %s (name, level) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET level = EXCLUDED.level`,
		s.Table,
	)
	return database.WithTx(ctx, db, func(q database.Querier) error {
		for _, l := range s.Levels {
			if _, err := q.Exec(ctx, stmt, l.Name, l.Level); err != nil {
				return fmt.Errorf("upsert %s: %w", l.Name, err)
			}
		}
		return nil
	})
}
