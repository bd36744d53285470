package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talent-catalog/internal/config"
	"talent-catalog/internal/repository"
	"talent-catalog/internal/search"

	"github.com/rs/zerolog"
)

type SearchParams struct {
	Request search.CandidateRequest
	UserID  *int64
}

type CandidatePage struct {
	CandidateIDs []int64 `json:"candidateIds"`
	Total        int64   `json:"total"`
	PageNumber   int     `json:"pageNumber"`
	PageSize     int     `json:"pageSize"`
}

type CandidateSearchUsecase interface {
	Search(ctx context.Context, params SearchParams) (CandidatePage, error)
	SearchSaved(ctx context.Context, savedSearchID int64, userID *int64, pageNumber, pageSize int) (CandidatePage, error)
	SQL(ctx context.Context, params SearchParams, ordered bool) (string, error)
}

type candidateSearchUsecase struct {
	builder    *search.Builder
	candidates repository.CandidateSearchRepository
	searches   repository.SavedSearchRepository
	resolver   searchResolver
	cache      SearchCache
	cfg        config.SearchConfig
	log        zerolog.Logger
}

func NewCandidateSearchUsecase(
	builder *search.Builder,
	candidates repository.CandidateSearchRepository,
	lists repository.SavedListRepository,
	searches repository.SavedSearchRepository,
	users repository.UserRepository,
	cache SearchCache,
	cfg config.SearchConfig,
	log zerolog.Logger,
) CandidateSearchUsecase {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}
	return &candidateSearchUsecase{
		builder:    builder,
		candidates: candidates,
		searches:   searches,
		resolver:   searchResolver{lists: lists, users: users},
		cache:      cache,
		cfg:        cfg,
		log:        log,
	}
}

func (u *candidateSearchUsecase) Search(ctx context.Context, params SearchParams) (CandidatePage, error) {
	req := params.Request
	if req.PageSize == 0 {
		req.PageSize = u.cfg.DefaultPageSize
	}
	if req.PageSize > u.cfg.MaxPageSize {
		return CandidatePage{}, fmt.Errorf("%w: pageSize must be at most %d", ErrInvalidInput, u.cfg.MaxPageSize)
	}

	resolved, err := u.resolver.resolve(ctx, req, params.UserID)
	if err != nil {
		return CandidatePage{}, err
	}

	cacheKey := CandidateSearchCacheKey(resolved.request, params.UserID)
	if u.cache != nil {
		var cached CandidatePage
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			u.log.Warn().Err(err).Str("key", cacheKey).Msg("search cache read failed")
		}
		if hit {
			u.log.Debug().Str("key", cacheKey).Msg("search cache hit")
			return cached, nil
		}
	}

	fetchSQL, err := u.builder.FetchSQL(resolved.request, resolved.user, resolved.excluded, true)
	if err != nil {
		return CandidatePage{}, mapBuildError(err)
	}
	countSQL, err := u.builder.FetchSQL(resolved.request, resolved.user, resolved.excluded, false)
	if err != nil {
		return CandidatePage{}, mapBuildError(err)
	}

	start := time.Now()
	ids, err := u.candidates.FetchIDs(ctx, fetchSQL, resolved.request.PageSize, resolved.request.PageNumber*resolved.request.PageSize)
	if err != nil {
		return CandidatePage{}, fmt.Errorf("%w: fetch candidates: %v", ErrInternal, err)
	}
	total, err := u.candidates.Count(ctx, countSQL)
	if err != nil {
		return CandidatePage{}, fmt.Errorf("%w: count candidates: %v", ErrInternal, err)
	}
	u.log.Debug().
		Int("results", len(ids)).
		Int64("total", total).
		Dur("took", time.Since(start)).
		Msg("candidate search")

	page := CandidatePage{
		CandidateIDs: ids,
		Total:        total,
		PageNumber:   resolved.request.PageNumber,
		PageSize:     resolved.request.PageSize,
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, page, 0); err != nil {
			u.log.Warn().Err(err).Str("key", cacheKey).Msg("search cache write failed")
		}
	}
	return page, nil
}

// SearchSaved runs a stored search. A non-zero page number or size
// overrides the paging stored with it.
func (u *candidateSearchUsecase) SearchSaved(ctx context.Context, savedSearchID int64, userID *int64, pageNumber, pageSize int) (CandidatePage, error) {
	saved, err := u.loadSavedSearch(ctx, savedSearchID)
	if err != nil {
		return CandidatePage{}, err
	}
	req := saved.Request
	if pageNumber > 0 {
		req.PageNumber = pageNumber
	}
	if pageSize > 0 {
		req.PageSize = pageSize
	}
	return u.Search(ctx, SearchParams{Request: req, UserID: userID})
}

// SQL returns the fetch query for params without running it.
func (u *candidateSearchUsecase) SQL(ctx context.Context, params SearchParams, ordered bool) (string, error) {
	resolved, err := u.resolver.resolve(ctx, params.Request, params.UserID)
	if err != nil {
		return "", err
	}
	s, err := u.builder.FetchSQL(resolved.request, resolved.user, resolved.excluded, ordered)
	if err != nil {
		return "", mapBuildError(err)
	}
	return s, nil
}

func (u *candidateSearchUsecase) loadSavedSearch(ctx context.Context, id int64) (repository.SavedSearch, error) {
	if id <= 0 {
		return repository.SavedSearch{}, fmt.Errorf("%w: saved search id must be positive", ErrInvalidInput)
	}
	saved, err := u.searches.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSavedSearchNotFound) {
			return repository.SavedSearch{}, fmt.Errorf("%w: saved search %d", ErrNotFound, id)
		}
		return repository.SavedSearch{}, fmt.Errorf("%w: load saved search: %v", ErrInternal, err)
	}
	return saved, nil
}

func mapBuildError(err error) error {
	if errors.Is(err, search.ErrInvalidRequest) || errors.Is(err, search.ErrUnknownSortField) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: build query: %v", ErrInternal, err)
}
