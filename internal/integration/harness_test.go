package integration

import (
	"context"
	"testing"
	"time"

	"talent-catalog/internal/config"
	"talent-catalog/internal/database"
	"talent-catalog/internal/database/migration"
	dbpostgres "talent-catalog/internal/database/postgres"
	"talent-catalog/internal/database/seeder"
	"talent-catalog/migrations"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// startCatalog boots Postgres, applies the embedded schema and loads the
// reference data.
func startCatalog(t *testing.T, ctx context.Context) database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	pg, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("catalog"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pg)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("resolve connection string: %v", err)
	}

	db, err := dbpostgres.ConnectDSN(ctx, dsn, config.DatabaseConfig{ConnectTimeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	runner := migration.Runner{FS: migrations.FS, Log: zerolog.Nop()}
	applied, err := runner.Run(ctx, db.SQLDB())
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if len(applied) == 0 {
		t.Fatalf("migrate: nothing applied on a fresh database")
	}

	if err := (seeder.Runner{Seeders: seeder.Defaults(), Log: zerolog.Nop()}).Run(ctx, db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func lookupID(t *testing.T, ctx context.Context, db database.DB, table, name string) int64 {
	t.Helper()
	var id int64
	// table names are test constants
	if err := db.QueryRow(ctx, `SELECT id FROM `+table+` WHERE name = $1`, name).Scan(&id); err != nil {
		t.Fatalf("lookup %s %q: %v", table, name, err)
	}
	return id
}

func insertID(t *testing.T, ctx context.Context, db database.DB, query string, args ...any) int64 {
	t.Helper()
	var id int64
	if err := db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		t.Fatalf("insert: %v\n%s", err, query)
	}
	return id
}
