package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talent-catalog/internal/config"
	"talent-catalog/internal/repository"
	"talent-catalog/internal/search"
	"talent-catalog/internal/stats"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// StatsComputer runs a single stat query.
type StatsComputer interface {
	Compute(ctx context.Context, q stats.Query) ([]stats.DataRow, error)
}

// StatsRequest selects the candidates a report set covers. At most one of
// ListID and SearchID may be set. Nil dates fall back to the configured
// start date and today.
type StatsRequest struct {
	ListID   *int64       `json:"listId,omitempty"`
	SearchID *int64       `json:"searchId,omitempty"`
	UserID   *int64       `json:"userId,omitempty"`
	DateFrom *search.Date `json:"dateFrom,omitempty"`
	DateTo   *search.Date `json:"dateTo,omitempty"`
}

type StatsReportSet struct {
	RunID       string         `json:"runId"`
	DateFrom    search.Date    `json:"dateFrom"`
	DateTo      search.Date    `json:"dateTo"`
	Scope       string         `json:"scope"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Reports     []stats.Report `json:"reports"`
}

type StatsReportUsecase interface {
	Reports(ctx context.Context, req StatsRequest) (StatsReportSet, error)
}

type statsReportUsecase struct {
	computer    StatsComputer
	builder     *search.Builder
	lists       repository.SavedListRepository
	searches    repository.SavedSearchRepository
	resolver    searchResolver
	cache       SearchCache
	concurrency int
	defaultFrom search.Date
	now         func() time.Time
	log         zerolog.Logger
}

type StatsOption func(*statsReportUsecase)

func WithStatsClock(now func() time.Time) StatsOption {
	return func(u *statsReportUsecase) {
		if now != nil {
			u.now = now
		}
	}
}

func NewStatsReportUsecase(
	computer StatsComputer,
	builder *search.Builder,
	lists repository.SavedListRepository,
	searches repository.SavedSearchRepository,
	users repository.UserRepository,
	cache SearchCache,
	cfg config.StatsConfig,
	log zerolog.Logger,
	opts ...StatsOption,
) (StatsReportUsecase, error) {
	from := search.NewDate(2000, time.January, 1)
	if cfg.DefaultDateFrom != "" {
		d, err := search.ParseDate(cfg.DefaultDateFrom)
		if err != nil {
			return nil, fmt.Errorf("stats default date from: %w", err)
		}
		from = d
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	u := &statsReportUsecase{
		computer:    computer,
		builder:     builder,
		lists:       lists,
		searches:    searches,
		resolver:    searchResolver{lists: lists, users: users},
		cache:       cache,
		concurrency: concurrency,
		defaultFrom: from,
		now:         time.Now,
		log:         log,
	}
	for _, o := range opts {
		o(u)
	}
	return u, nil
}

const (
	statsLockTTL      = 2 * time.Minute
	statsLockWait     = 250 * time.Millisecond
	statsLockAttempts = 8
)

// Reports computes the full report catalogue for req. Reports come back in
// catalogue order whatever order their queries finish in.
func (u *statsReportUsecase) Reports(ctx context.Context, req StatsRequest) (StatsReportSet, error) {
	if req.ListID != nil && req.SearchID != nil {
		return StatsReportSet{}, fmt.Errorf("%w: listId and searchId are mutually exclusive", ErrInvalidInput)
	}

	from := u.defaultFrom
	if req.DateFrom != nil {
		from = *req.DateFrom
	}
	to := search.DateOf(u.now())
	if req.DateTo != nil {
		to = *req.DateTo
	}
	if to.In(time.UTC).Before(from.In(time.UTC)) {
		return StatsReportSet{}, fmt.Errorf("%w: dateFrom %s is after dateTo %s", ErrInvalidInput, from, to)
	}

	runID := uuid.NewString()
	log := u.log.With().Str("run_id", runID).Logger()

	cacheKey := StatsReportCacheKey(req, from, to)
	if set, ok := u.cached(ctx, cacheKey); ok {
		log.Debug().Str("key", cacheKey).Msg("stats cache hit")
		return set, nil
	}

	release := u.lock(ctx, cacheKey, runID)
	defer release()
	// another run may have filled the cache while we waited
	if set, ok := u.cached(ctx, cacheKey); ok {
		return set, nil
	}

	filter, scope, err := u.filter(ctx, req, from, to)
	if err != nil {
		return StatsReportSet{}, err
	}

	specs := catalogue(scope != scopeAll)
	reports := make([]stats.Report, len(specs))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, spec := range specs {
		g.Go(func() error {
			q := spec.query
			q.Filter = filter
			rows, err := u.computer.Compute(gctx, q)
			if err != nil {
				return fmt.Errorf("%s: %w", spec.name, err)
			}
			reports[i] = stats.Report{Name: spec.name, ChartType: spec.chartType, Rows: rows}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("stats run failed")
		return StatsReportSet{}, fmt.Errorf("%w: compute stats: %v", ErrInternal, err)
	}
	log.Info().
		Int("reports", len(reports)).
		Str("scope", scope).
		Dur("took", time.Since(start)).
		Msg("stats computed")

	set := StatsReportSet{
		RunID:       runID,
		DateFrom:    from,
		DateTo:      to,
		Scope:       scope,
		GeneratedAt: u.now().UTC(),
		Reports:     reports,
	}
	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, set, 0); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("stats cache write failed")
		}
	}
	return set, nil
}

const scopeAll = "all"

func (u *statsReportUsecase) filter(ctx context.Context, req StatsRequest, from, to search.Date) (stats.Filter, string, error) {
	f := stats.Filter{DateFrom: from, DateTo: to}

	var user *search.User
	if req.UserID != nil {
		usr, err := u.resolver.loadUser(ctx, *req.UserID)
		if err != nil {
			return stats.Filter{}, "", err
		}
		user = &usr
		f.SourceCountryIDs = usr.SourceCountryIDs
	}

	switch {
	case req.ListID != nil:
		list, err := u.lists.FindByID(ctx, *req.ListID)
		if err != nil {
			return stats.Filter{}, "", listError(err, *req.ListID)
		}
		ids, err := u.lists.CandidateIDs(ctx, list.ID)
		if err != nil {
			return stats.Filter{}, "", listError(err, *req.ListID)
		}
		f.CandidateIDs = ids
		f.ScopedToIDs = true
		return f, "list:" + list.Name, nil

	case req.SearchID != nil:
		saved, err := u.searches.FindByID(ctx, *req.SearchID)
		if err != nil {
			if errors.Is(err, repository.ErrSavedSearchNotFound) {
				return stats.Filter{}, "", fmt.Errorf("%w: saved search %d", ErrNotFound, *req.SearchID)
			}
			return stats.Filter{}, "", fmt.Errorf("%w: load saved search: %v", ErrInternal, err)
		}
		resolved, err := u.resolver.resolve(ctx, saved.Request, nil)
		if err != nil {
			return stats.Filter{}, "", err
		}
		pred, err := u.builder.ConstraintPredicate(resolved.request, user, resolved.excluded)
		if err != nil {
			return stats.Filter{}, "", mapBuildError(err)
		}
		f.ConstraintPredicate = pred
		return f, "search:" + saved.Name, nil
	}

	return f, scopeAll, nil
}

func listError(err error, id int64) error {
	if errors.Is(err, repository.ErrSavedListNotFound) {
		return fmt.Errorf("%w: saved list %d", ErrNotFound, id)
	}
	return fmt.Errorf("%w: load saved list: %v", ErrInternal, err)
}

func (u *statsReportUsecase) cached(ctx context.Context, key string) (StatsReportSet, bool) {
	if u.cache == nil {
		return StatsReportSet{}, false
	}
	var set StatsReportSet
	hit, err := u.cache.GetJSON(ctx, key, &set)
	if err != nil {
		u.log.Warn().Err(err).Str("key", key).Msg("stats cache read failed")
		return StatsReportSet{}, false
	}
	return set, hit
}

// lock takes the per-report lock so concurrent identical runs compute once.
// When the lock stays taken the run goes ahead without it.
func (u *statsReportUsecase) lock(ctx context.Context, reportKey, token string) func() {
	if u.cache == nil {
		return func() {}
	}
	lockKey := StatsReportLockKey(reportKey)
	for attempt := 0; attempt < statsLockAttempts; attempt++ {
		ok, err := u.cache.SetIfNotExists(ctx, lockKey, token, statsLockTTL)
		if err != nil {
			return func() {}
		}
		if ok {
			return func() {
				if err := u.cache.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
					u.log.Warn().Err(err).Str("key", lockKey).Msg("stats lock release failed")
				}
			}
		}
		if _, hit := u.cached(ctx, reportKey); hit {
			return func() {}
		}
		select {
		case <-ctx.Done():
			return func() {}
		case <-time.After(statsLockWait):
		}
	}
	return func() {}
}
