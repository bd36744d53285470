package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"talent-catalog/internal/repository"
	"talent-catalog/internal/search"
	"talent-catalog/internal/stats"
)

func ptr[T any](v T) *T { return &v }

type fakeCandidates struct {
	ids      []int64
	total    int64
	err      error
	fetchSQL []string
	countSQL []string
	limit    int
	offset   int
}

func (f *fakeCandidates) FetchIDs(_ context.Context, fetchSQL string, limit, offset int) ([]int64, error) {
	f.fetchSQL = append(f.fetchSQL, fetchSQL)
	f.limit, f.offset = limit, offset
	return f.ids, f.err
}

func (f *fakeCandidates) Count(_ context.Context, fetchSQL string) (int64, error) {
	f.countSQL = append(f.countSQL, fetchSQL)
	return f.total, f.err
}

type fakeLists struct {
	lists   map[int64]repository.SavedList
	members map[int64][]int64
}

func (f *fakeLists) FindByID(_ context.Context, id int64) (repository.SavedList, error) {
	l, ok := f.lists[id]
	if !ok {
		return repository.SavedList{}, repository.ErrSavedListNotFound
	}
	return l, nil
}

func (f *fakeLists) CandidateIDs(_ context.Context, listID int64) ([]int64, error) {
	ids, ok := f.members[listID]
	if !ok {
		return nil, repository.ErrSavedListNotFound
	}
	return ids, nil
}

type fakeSearches struct {
	searches map[int64]repository.SavedSearch
}

func (f *fakeSearches) FindByID(_ context.Context, id int64) (repository.SavedSearch, error) {
	s, ok := f.searches[id]
	if !ok {
		return repository.SavedSearch{}, repository.ErrSavedSearchNotFound
	}
	return s, nil
}

func (f *fakeSearches) Create(_ context.Context, name string, _ *int64, req search.CandidateRequest) (int64, error) {
	if f.searches == nil {
		f.searches = map[int64]repository.SavedSearch{}
	}
	id := int64(len(f.searches) + 1)
	f.searches[id] = repository.SavedSearch{ID: id, Name: name, Request: req}
	return id, nil
}

type fakeUsers struct {
	users map[int64]search.User
}

func (f *fakeUsers) FindSearchUser(_ context.Context, id int64) (search.User, error) {
	u, ok := f.users[id]
	if !ok {
		return search.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

// memoryCache keeps JSON values in memory and ignores ttls.
type memoryCache struct {
	mu     sync.Mutex
	values map[string][]byte
	locks  map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}, locks: map[string]string{}}
}

func (c *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = b
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	delete(c.locks, key)
	return nil
}

func (c *memoryCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.locks[key]; ok {
		return false, nil
	}
	c.locks[key] = value
	return true, nil
}

type fakeComputer struct {
	mu      sync.Mutex
	queries []stats.Query
	failOn  stats.Kind
}

func (f *fakeComputer) Compute(_ context.Context, q stats.Query) ([]stats.DataRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.failOn != "" && q.Kind == f.failOn {
		return nil, errors.New("relation does not exist")
	}
	return []stats.DataRow{{Label: string(q.Kind), Value: int64(len(q.Filter.CandidateIDs))}}, nil
}

func (f *fakeComputer) calls() []stats.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]stats.Query(nil), f.queries...)
}
