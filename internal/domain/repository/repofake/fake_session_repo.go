package repofake

import (
	"context"
	"sync"
	"time"

	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/domain/model"
)

type FakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{sessions: make(map[string]*model.Session)}
}

func (f *FakeSessionRepo) Create(_ context.Context, session *model.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *session
	f.sessions[session.ID] = &clone
	return nil
}

func (f *FakeSessionRepo) FindByID(_ context.Context, id string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *session
	return &clone, nil
}

func (f *FakeSessionRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *FakeSessionRepo) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, session := range f.sessions {
		if session.UserID == userID {
			delete(f.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *FakeSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	var deleted int64
	for id, session := range f.sessions {
		if session.ExpiresAt.Before(now) {
			delete(f.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *FakeSessionRepo) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}
