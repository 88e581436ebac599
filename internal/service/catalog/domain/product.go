// internal/service/catalog/domain/product.go
package domain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

// Product 是目录里的一个商品。
// Price 是实际售价；有促销价时 OriginalPrice 保留划线价。
// 购物车只读这里的快照，目录侧的后续改价不影响已加购的行。
type Product struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Stock         int             `json:"stock"`
	ImageURL      string          `json:"image_url"`
	Category      string          `json:"category"`
	Brand         string          `json:"brand"`
	Description   string          `json:"description"`
	Benefits      string          `json:"benefits"`
}

// Repository 定义商品目录的读取接口。
// 实现有两个：MySQL 表，以及把电子表格 Products tab 当数据库用的轻量部署。
type Repository interface {
	ListProducts(ctx context.Context, category string) ([]Product, error)
	FindByID(ctx context.Context, productID string) (*Product, error)
}
