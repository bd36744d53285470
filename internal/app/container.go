package app

import (
	"context"
	"errors"
	"time"

	"talent-catalog/internal/config"
	"talent-catalog/internal/database"
	dbpostgres "talent-catalog/internal/database/postgres"
	"talent-catalog/internal/infrastructure/cache"
	"talent-catalog/internal/repository"
	"talent-catalog/internal/search"
	"talent-catalog/internal/stats"
	"talent-catalog/internal/usecase"

	"github.com/rs/zerolog"
)

type Container struct {
	Config config.Config
	Log    zerolog.Logger
	DB     database.DB
	Cache  *cache.Redis

	Builder       *search.Builder
	SavedSearches repository.SavedSearchRepository
	Search        usecase.CandidateSearchUsecase
	Reports       usecase.StatsReportUsecase
}

// NewBuilder builds the predicate builder from configuration alone, for
// commands that only render SQL.
func NewBuilder(cfg config.SearchConfig) *search.Builder {
	return search.NewBuilder(search.Config{
		PendingTermsListID: cfg.PendingTermsListID,
		EnglishLanguageID:  cfg.EnglishLanguageID,
	})
}

func NewContainer(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, dbpostgres.WithQueryLog(log))
	if err != nil {
		return nil, err
	}
	c, err := newContainer(cfg, log, db, cache.NewRedis(cfg.Redis, log))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWithDB wires everything around an already connected database.
func NewContainerWithDB(cfg config.Config, log zerolog.Logger, db database.DB, rc *cache.Redis) (*Container, error) {
	return newContainer(cfg, log, db, rc)
}

func newContainer(cfg config.Config, log zerolog.Logger, db database.DB, rc *cache.Redis) (*Container, error) {
	builder := NewBuilder(cfg.Search)

	candidates := repository.NewPostgresCandidateSearchRepository(db)
	lists := repository.NewPostgresSavedListRepository(db)
	searches := repository.NewPostgresSavedSearchRepository(db)
	users := repository.NewPostgresUserRepository(db)

	var sc usecase.SearchCache
	if rc != nil {
		sc = rc
	}

	searchUC := usecase.NewCandidateSearchUsecase(builder, candidates, lists, searches, users, sc, cfg.Search,
		log.With().Str("component", "search").Logger())

	reportsUC, err := usecase.NewStatsReportUsecase(
		stats.NewServiceFromDB(db, log.With().Str("component", "stats").Logger()),
		builder, lists, searches, users, sc, cfg.Stats,
		log.With().Str("component", "reports").Logger(),
	)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:        cfg,
		Log:           log,
		DB:            db,
		Cache:         rc,
		Builder:       builder,
		SavedSearches: searches,
		Search:        searchUC,
		Reports:       reportsUC,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
