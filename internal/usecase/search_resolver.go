package usecase

import (
	"context"
	"errors"
	"fmt"

	"talent-catalog/internal/repository"
	"talent-catalog/internal/search"
)

// resolvedSearch is a request with everything the builder needs looked up.
type resolvedSearch struct {
	request  search.CandidateRequest
	user     *search.User
	excluded []int64
}

type searchResolver struct {
	lists repository.SavedListRepository
	users repository.UserRepository
}

// resolve validates req, applies the default statuses and loads the
// searching user and the exclusion list.
func (r searchResolver) resolve(ctx context.Context, req search.CandidateRequest, userID *int64) (resolvedSearch, error) {
	if err := req.Validate(); err != nil {
		return resolvedSearch{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(req.Statuses) == 0 {
		req.Statuses = search.DefaultStatuses()
	}

	out := resolvedSearch{request: req}

	if userID != nil {
		u, err := r.loadUser(ctx, *userID)
		if err != nil {
			return resolvedSearch{}, err
		}
		out.user = &u
	}

	if req.ExclusionListID != nil {
		ids, err := r.lists.CandidateIDs(ctx, *req.ExclusionListID)
		if err != nil {
			if errors.Is(err, repository.ErrSavedListNotFound) {
				return resolvedSearch{}, fmt.Errorf("%w: exclusion list %d", ErrNotFound, *req.ExclusionListID)
			}
			return resolvedSearch{}, fmt.Errorf("%w: load exclusion list: %v", ErrInternal, err)
		}
		out.excluded = ids
	}

	return out, nil
}

func (r searchResolver) loadUser(ctx context.Context, id int64) (search.User, error) {
	u, err := r.users.FindSearchUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return search.User{}, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return search.User{}, fmt.Errorf("%w: load user: %v", ErrInternal, err)
	}
	return u, nil
}
