// internal/service/order/infrastructure/adapter/zk_lock_adapter.go
package adapter

import (
	"context"

	"garde/internal/pkg/logger"
	"garde/internal/pkg/zookeeper"

	"github.com/pkg/errors"
)

// ZkLockAdapter 是 port.Locker 的 ZooKeeper 实现，
// 底层是临时顺序节点的标准互斥锁算法。
type ZkLockAdapter struct {
	conn *zookeeper.Conn
}

func NewZkLockAdapter(conn *zookeeper.Conn) *ZkLockAdapter {
	return &ZkLockAdapter{conn: conn}
}

func (a *ZkLockAdapter) Acquire(ctx context.Context, resource string) (func(), error) {
	lock, err := zookeeper.NewDistributedLock(a.conn, resource)
	if err != nil {
		return nil, errors.Wrapf(err, "create lock for %s", resource)
	}
	if err := lock.Lock(); err != nil {
		return nil, errors.Wrapf(err, "acquire lock for %s", resource)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("resource", resource).Msg("failed to release zk lock")
		}
	}, nil
}
