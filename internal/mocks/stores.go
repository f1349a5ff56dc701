package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/ecochef/ecochef/backend/internal/service"
)

// DraftStore keeps drafts in memory.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[string]service.Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: map[string]service.Draft{}}
}

func (s *DraftStore) SaveDraft(ctx context.Context, draft *service.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.ID] = *draft
	return nil
}

func (s *DraftStore) GetDraft(ctx context.Context, id string) (*service.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, service.ErrDraftNotFound
	}
	return &d, nil
}

func (s *DraftStore) DeleteDraft(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return service.ErrDraftNotFound
	}
	delete(s.drafts, id)
	return nil
}

// TokenDenylist keeps revoked token IDs in memory. TTLs are ignored.
type TokenDenylist struct {
	mu      sync.Mutex
	revoked map[string]struct{}
}

func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{revoked: map[string]struct{}{}}
}

func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = struct{}{}
	return nil
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[jti]
	return ok, nil
}
