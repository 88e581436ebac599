// internal/service/order/infrastructure/redis_draft_store.go
package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"garde/internal/pkg/redis"
	"garde/internal/service/order/application"
)

const draftKeyPrefix = "checkout:draft:"

// 草稿只服务一次结账流程，放一小时足够，过期自动消失。
const draftRetention = time.Hour

// RedisDraftStore 是 application.DraftStore 的 Redis 实现，
// 草稿以 JSON 快照按会话键存储。
type RedisDraftStore struct {
	client *redis.Client
}

func NewRedisDraftStore(client *redis.Client) *RedisDraftStore {
	return &RedisDraftStore{client: client}
}

func (s *RedisDraftStore) Get(ctx context.Context, sessionID string) (*application.CheckoutDraft, error) {
	data, err := s.client.Get(ctx, draftKeyPrefix+sessionID)
	if errors.Is(err, redis.ErrNotFound) {
		return &application.CheckoutDraft{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout draft: %w", err)
	}

	var draft application.CheckoutDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		// 快照损坏就当没有草稿，用户重新填一遍
		return &application.CheckoutDraft{}, nil
	}
	return &draft, nil
}

func (s *RedisDraftStore) Save(ctx context.Context, sessionID string, draft *application.CheckoutDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal checkout draft: %w", err)
	}
	return s.client.Set(ctx, draftKeyPrefix+sessionID, data, draftRetention)
}

func (s *RedisDraftStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, draftKeyPrefix+sessionID)
}
