package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-catalog/internal/config"
	"talent-catalog/internal/repository"
	"talent-catalog/internal/search"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.July, 15, 9, 30, 0, 0, time.UTC)

func testBuilder() *search.Builder {
	return search.NewBuilder(search.Config{}, search.WithClock(func() time.Time { return fixedNow }))
}

type searchFixture struct {
	candidates *fakeCandidates
	lists      *fakeLists
	searches   *fakeSearches
	users      *fakeUsers
	cache      *memoryCache
	uc         CandidateSearchUsecase
}

func newSearchFixture() *searchFixture {
	f := &searchFixture{
		candidates: &fakeCandidates{ids: []int64{9, 7}, total: 2},
		lists: &fakeLists{
			lists:   map[int64]repository.SavedList{5: {ID: 5, Name: "Placed"}},
			members: map[int64][]int64{5: {31, 30}},
		},
		searches: &fakeSearches{searches: map[int64]repository.SavedSearch{
			3: {ID: 3, Name: "Nurses", Request: search.CandidateRequest{OccupationIDs: []int64{12}, PageSize: 5}},
		}},
		users: &fakeUsers{users: map[int64]search.User{
			1: {ID: 1, PartnerID: 2, SourceCountryIDs: []int64{8, 4}},
		}},
		cache: newMemoryCache(),
	}
	f.uc = NewCandidateSearchUsecase(testBuilder(), f.candidates, f.lists, f.searches, f.users, f.cache,
		config.SearchConfig{DefaultPageSize: 20, MaxPageSize: 50}, zerolog.Nop())
	return f
}

func TestSearch_DefaultsAndPaging(t *testing.T) {
	f := newSearchFixture()

	page, err := f.uc.Search(context.Background(), SearchParams{
		Request: search.CandidateRequest{PageNumber: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{9, 7}, page.CandidateIDs)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.PageNumber)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, 20, f.candidates.limit)
	assert.Equal(t, 40, f.candidates.offset)

	require.Len(t, f.candidates.fetchSQL, 1)
	assert.Contains(t, f.candidates.fetchSQL[0], "candidate.status in ('active','incomplete','pending','unreachable')")
	assert.Contains(t, f.candidates.fetchSQL[0], "order by candidate.id DESC")
	require.Len(t, f.candidates.countSQL, 1)
	assert.NotContains(t, f.candidates.countSQL[0], "order by")
}

func TestSearch_UserAndExclusionList(t *testing.T) {
	f := newSearchFixture()

	_, err := f.uc.Search(context.Background(), SearchParams{
		Request: search.CandidateRequest{ExclusionListID: ptr(int64(5))},
		UserID:  ptr(int64(1)),
	})
	require.NoError(t, err)

	sql := f.candidates.fetchSQL[0]
	assert.Contains(t, sql, "candidate.id not in (31,30)")
	assert.Contains(t, sql, "candidate.country_id in (4,8)")
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		params  SearchParams
		wantErr error
	}{
		{name: "page too large", params: SearchParams{Request: search.CandidateRequest{PageSize: 51}}, wantErr: ErrInvalidInput},
		{name: "invalid request", params: SearchParams{Request: search.CandidateRequest{Gender: "robot"}}, wantErr: ErrInvalidInput},
		{name: "unknown sort", params: SearchParams{Request: search.CandidateRequest{SortFields: []string{"shoeSize"}}}, wantErr: ErrInvalidInput},
		{name: "unknown user", params: SearchParams{UserID: ptr(int64(99))}, wantErr: ErrNotFound},
		{name: "unknown exclusion list", params: SearchParams{Request: search.CandidateRequest{ExclusionListID: ptr(int64(77))}}, wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSearchFixture()
			_, err := f.uc.Search(context.Background(), tt.params)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), err.Error())
			assert.Empty(t, f.candidates.fetchSQL)
		})
	}
}

func TestSearch_RepositoryFailureIsInternal(t *testing.T) {
	f := newSearchFixture()
	f.candidates.err = errors.New("connection reset")

	_, err := f.uc.Search(context.Background(), SearchParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInternal))
}

func TestSearch_CachesPages(t *testing.T) {
	f := newSearchFixture()
	ctx := context.Background()
	req := search.CandidateRequest{SimpleQueryString: "nurse", PartnerIDs: []int64{3, 1}}

	first, err := f.uc.Search(ctx, SearchParams{Request: req})
	require.NoError(t, err)

	// same filters in a different order and case
	req2 := search.CandidateRequest{SimpleQueryString: "  Nurse ", PartnerIDs: []int64{1, 3}}
	second, err := f.uc.Search(ctx, SearchParams{Request: req2})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, f.candidates.fetchSQL, 1)
}

func TestSearchSaved(t *testing.T) {
	f := newSearchFixture()

	page, err := f.uc.SearchSaved(context.Background(), 3, nil, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, 1, page.PageNumber)
	assert.Equal(t, 5, f.candidates.offset)
	assert.Contains(t, f.candidates.fetchSQL[0], "candidate_occupation.occupation_id in (12)")

	_, err = f.uc.SearchSaved(context.Background(), 404, nil, 0, 0)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = f.uc.SearchSaved(context.Background(), 0, nil, 0, 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestSQL(t *testing.T) {
	f := newSearchFixture()

	got, err := f.uc.SQL(context.Background(), SearchParams{Request: search.CandidateRequest{Gender: search.GenderFemale}}, false)
	require.NoError(t, err)
	assert.Equal(t, "select distinct candidate.id from candidate"+
		" where candidate.status in ('active','incomplete','pending','unreachable')"+
		" and candidate.gender = 'female'", got)
}

func TestCandidateSearchCacheKey(t *testing.T) {
	a := CandidateSearchCacheKey(search.CandidateRequest{CountryIDs: []int64{2, 1}}, nil)
	b := CandidateSearchCacheKey(search.CandidateRequest{CountryIDs: []int64{1, 2}}, nil)
	c := CandidateSearchCacheKey(search.CandidateRequest{CountryIDs: []int64{1, 2}}, ptr(int64(1)))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, candidateSearchKeyPrefix)

	sorted := CandidateSearchCacheKey(search.CandidateRequest{SortFields: []string{"id", "gender"}}, nil)
	resorted := CandidateSearchCacheKey(search.CandidateRequest{SortFields: []string{"gender", "id"}}, nil)
	assert.NotEqual(t, sorted, resorted)
}
