// internal/service/cart/infrastructure/redis_store.go
package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"garde/internal/pkg/redis"
	"garde/internal/service/cart/domain"
)

const cartKeyPrefix = "cart:session:"

// 游客车保留 30 天，和浏览器端的预期一致。
const cartRetention = 30 * 24 * time.Hour

// RedisStore 把整车作为一个 JSON 快照存在 Redis 里。
// 每次变更同步写全量快照；同一会话多端并发写时后写者覆盖，
// 这是已接受的限制，不做合并。
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+sessionID)
	if errors.Is(err, redis.ErrNotFound) {
		return domain.NewCart(sessionID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		// 快照损坏时重新开一辆空车，丢车比让会话卡死好
		return domain.NewCart(sessionID), nil
	}
	cart.SessionID = sessionID
	return &cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return s.client.Set(ctx, cartKeyPrefix+cart.SessionID, data, cartRetention)
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, cartKeyPrefix+sessionID)
}
