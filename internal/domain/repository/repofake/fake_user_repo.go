// Package repofake provides in-memory repository implementations for tests.
package repofake

import (
	"context"
	"sync"

	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/domain/model"
)

type FakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by ID
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{users: make(map[string]*model.User)}
}

func (f *FakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return common.NewConflictError(common.CodeEmailExists, "A user with this email already exists")
		}
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *FakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *FakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *FakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return common.ErrNotFound
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

// Count reports how many user rows exist; used to assert uniqueness.
func (f *FakeUserRepo) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}
