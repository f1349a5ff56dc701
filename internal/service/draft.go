package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const draftTTL = 24 * time.Hour

// RedisDraftStore keeps drafts as JSON under recipe:draft:<id>.
type RedisDraftStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{redis: client, ttl: draftTTL}
}

func draftKey(id string) string {
	return fmt.Sprintf("recipe:draft:%s", id)
}

// SaveDraft stores a recipe draft in Redis
func (s *RedisDraftStore) SaveDraft(ctx context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// GetDraft retrieves a recipe draft from Redis
func (s *RedisDraftStore) GetDraft(ctx context.Context, id string) (*Draft, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (s *RedisDraftStore) DeleteDraft(ctx context.Context, id string) error {
	n, err := s.redis.Del(ctx, draftKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}
