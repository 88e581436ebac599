// internal/service/order/domain/repository.go
package domain

import "context"

// ListFilter 是后台订单列表的过滤条件。零值表示不过滤。
type ListFilter struct {
	Status Status
	Limit  int
}

// OrderRepository 是订单聚合的出站仓储端口。
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
