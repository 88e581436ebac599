// internal/service/cart/port/catalog.go
package port

import (
	"context"

	"github.com/shopspring/decimal"
)

// ProductInfo 是加购时需要的商品信息子集。
type ProductInfo struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	ImageURL  string
	Stock     int
}

// CatalogProvider 是商品目录的出站端口。
// 购物车只在加购一刻读一次目录，用来做单价快照。
type CatalogProvider interface {
	GetProduct(ctx context.Context, productID string) (*ProductInfo, error)
}
