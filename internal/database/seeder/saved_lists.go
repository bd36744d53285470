package seeder

import (
	"context"
	"fmt"

	"talent-catalog/internal/database"
)

// TestCandidatesList is the global list whose members stats leave out.
const TestCandidatesList = "TestCandidates"

type SavedListsSeeder struct {
	Names []string
}

func (SavedListsSeeder) Name() string { return "saved_list" }

func (s SavedListsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "saved_list", "id", "name", "global"); err != nil {
		return err
	}
	for _, name := range s.Names {
		if _, err := db.Exec(
			ctx,
			`INSERT INTO saved_list (name, global) VALUES ($1, true) ON CONFLICT (name) DO NOTHING`,
			name,
		); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
	}
	return nil
}
