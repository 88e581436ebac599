// internal/pkg/zookeeper/lock.go
package zookeeper

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
)

const (
	lockRoot = "/garde_locks" // 所有分布式锁的根节点
)

// DistributedLock 是基于临时顺序节点的分布式锁。
// 订单服务用它把「核对优惠码使用记录 → 落单 → 写使用记录」这段窗口
// 按资源串行化，两个并发结算不可能同时通过核对。
type DistributedLock struct {
	conn     *Conn
	path     string // 锁的路径，例如 /garde_locks/promo-welcome10-94771234567
	lockNode string // 成功获取锁后，自己创建的节点路径
	timeout  time.Duration
}

// bootstrapConn 是父节点引导需要的最小连接面。
type bootstrapConn interface {
	Exists(path string) (bool, *zk.Stat, error)
	Create(path string, data []byte, flags int32, acl []zk.ACL) (string, error)
}

// ensureLockParents 确保根节点与锁父节点存在。
// Exists 对不存在的节点返回 (false, nil)，不是 error，
// 必须看布尔值；并发引导时别人可能先建好，ErrNodeExists 不算失败。
func ensureLockParents(conn bootstrapConn, resourceID string) error {
	for _, p := range []string{lockRoot, lockRoot + "/" + resourceID} {
		exists, _, err := conn.Exists(p)
		if err != nil {
			return fmt.Errorf("failed to check lock node %s: %w", p, err)
		}
		if exists {
			continue
		}
		if _, err := conn.Create(p, []byte(""), 0, zk.WorldACL(zk.PermAll)); err != nil && err != zk.ErrNodeExists {
			return fmt.Errorf("failed to create lock node %s: %w", p, err)
		}
	}
	return nil
}

// NewDistributedLock 创建一个锁实例。resourceID 标识被串行化的资源。
func NewDistributedLock(conn *Conn, resourceID string) (*DistributedLock, error) {
	if err := ensureLockParents(conn, resourceID); err != nil {
		return nil, err
	}

	return &DistributedLock{
		conn:    conn,
		path:    lockRoot + "/" + resourceID,
		timeout: 30 * time.Second,
	}, nil
}

// Lock 尝试获取锁，获取不到则阻塞等待，超时返回错误。
func (l *DistributedLock) Lock() error {
	// 1. 在锁路径下创建一个临时顺序节点
	nodePath, err := l.conn.CreateProtectedEphemeralSequential(l.path+"/lock-", []byte(""), zk.WorldACL(zk.PermAll))
	if err != nil {
		return fmt.Errorf("failed to create sequential node: %w", err)
	}
	l.lockNode = nodePath

	for {
		// 2. 列出所有竞争者并排序
		children, _, err := l.conn.Children(l.path)
		if err != nil {
			return fmt.Errorf("failed to get children nodes: %w", err)
		}
		sort.Strings(children)

		// 3. 自己是最小节点则持有锁
		myNodeName := strings.TrimPrefix(l.lockNode, l.path+"/")
		if myNodeName == children[0] {
			return nil
		}

		// 4. 否则只监听前一个节点，避免惊群
		prevNodeIndex := -1
		for i, child := range children {
			if child == myNodeName {
				prevNodeIndex = i - 1
				break
			}
		}
		if prevNodeIndex < 0 {
			return errors.New("cannot find own node among lock children")
		}
		prevNodePath := l.path + "/" + children[prevNodeIndex]

		_, _, eventChan, err := l.conn.ExistsW(prevNodePath)
		if err != nil {
			// 前一个节点恰好在此刻被删除，重新竞争
			if err == zk.ErrNoNode {
				continue
			}
			return fmt.Errorf("failed to watch previous node: %w", err)
		}

		select {
		case event := <-eventChan:
			if event.Type == zk.EventNodeDeleted {
				continue
			}
		case <-time.After(l.timeout):
			return errors.New("timeout waiting for lock")
		}
	}
}

// Unlock 释放锁。重复释放是安全的。
func (l *DistributedLock) Unlock() error {
	if l.lockNode == "" {
		return nil
	}
	err := l.conn.Delete(l.lockNode, -1)
	if err != nil && err != zk.ErrNoNode {
		return fmt.Errorf("failed to delete lock node: %w", err)
	}
	l.lockNode = ""
	return nil
}
