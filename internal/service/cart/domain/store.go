// internal/service/cart/domain/store.go
package domain

import "context"

// Store 定义购物车的持久化接口。
// 两个实现：游客会话用 Redis 快照（本地乐观态，整车同步落盘），
// 登录用户用数据库（服务端为准，每次变更后重新读取）。
// 调用方按会话类型选择实现，两者对上层完全可替换。
type Store interface {
	// Get 取出会话的购物车；不存在时返回空车，不返回错误。
	Get(ctx context.Context, sessionID string) (*Cart, error)

	// Save 全量保存购物车。每次变更都同步调用。
	Save(ctx context.Context, cart *Cart) error

	// Clear 删除会话的购物车，下单成功后调用。
	Clear(ctx context.Context, sessionID string) error
}
