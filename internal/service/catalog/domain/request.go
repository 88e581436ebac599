// internal/service/catalog/domain/request.go
package domain

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var ErrMissingRequestName = errors.New("product name is required")

// ProductRequest 是顾客的到货请求：目录里没有的商品，
// 留下名字和备注，运营定期翻台账决定要不要进货。
type ProductRequest struct {
	ProductName string
	Details     string
	RequestedAt time.Time
}

// NewProductRequest 校验并创建一条到货请求，备注可以为空。
func NewProductRequest(productName, details string) (*ProductRequest, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, ErrMissingRequestName
	}
	return &ProductRequest{
		ProductName: productName,
		Details:     strings.TrimSpace(details),
		RequestedAt: time.Now(),
	}, nil
}

// RequestBook 是到货请求的台账，只追加不修改。
type RequestBook interface {
	Add(ctx context.Context, req *ProductRequest) error
}
