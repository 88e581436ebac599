package zookeeper

import (
	"testing"

	"github.com/go-zookeeper/zk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBootstrapConn struct {
	nodes     map[string]bool
	existsErr error
	createErr error
	created   []string
}

func (f *fakeBootstrapConn) Exists(path string) (bool, *zk.Stat, error) {
	if f.existsErr != nil {
		return false, nil, f.existsErr
	}
	return f.nodes[path], nil, nil
}

func (f *fakeBootstrapConn) Create(path string, _ []byte, _ int32, _ []zk.ACL) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nodes[path] = true
	f.created = append(f.created, path)
	return path, nil
}

func TestEnsureLockParentsCreatesMissingNodes(t *testing.T) {
	// 全新集群上 Exists 返回 (false, nil)，两级父节点都要建出来
	conn := &fakeBootstrapConn{nodes: map[string]bool{}}

	require.NoError(t, ensureLockParents(conn, "promo-welcome10"))
	assert.Equal(t, []string{"/garde_locks", "/garde_locks/promo-welcome10"}, conn.created)
}

func TestEnsureLockParentsSkipsExistingNodes(t *testing.T) {
	conn := &fakeBootstrapConn{nodes: map[string]bool{}}
	conn.nodes["/garde_locks"] = true
	conn.nodes["/garde_locks/promo-welcome10"] = true

	require.NoError(t, ensureLockParents(conn, "promo-welcome10"))
	assert.Empty(t, conn.created)
}

func TestEnsureLockParentsToleratesConcurrentCreate(t *testing.T) {
	conn := &fakeBootstrapConn{nodes: map[string]bool{}, createErr: zk.ErrNodeExists}

	require.NoError(t, ensureLockParents(conn, "promo-welcome10"))
}

func TestEnsureLockParentsPropagatesExistsError(t *testing.T) {
	conn := &fakeBootstrapConn{existsErr: zk.ErrConnectionClosed}

	assert.Error(t, ensureLockParents(conn, "promo-welcome10"))
}
