// internal/service/order/port/cart.go
package port

import (
	"context"

	"github.com/shopspring/decimal"
)

type CartLine struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

type CartSnapshot struct {
	Items []CartLine
}

// CartService 是订单服务读取/清空购物车的出站端口。
// session 的归属（游客还是登录用户）由调用方在请求头里带过来，
// 这里只透传。
type CartService interface {
	GetCart(ctx context.Context, userID, sessionID string) (*CartSnapshot, error)
	Clear(ctx context.Context, userID, sessionID string) error
}
