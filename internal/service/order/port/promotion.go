// internal/service/order/port/promotion.go
package port

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrPromoRejected 表示优惠服务明确拒绝了这个码（无效、已用过、
// 条件不满足）。调用方要把它和基础设施故障区分开：
// 拒绝是业务结论，要原样转给用户；故障才是 5xx。
var ErrPromoRejected = errors.New("promo code rejected")

type VerifyPromoRequest struct {
	Phone    string
	Address  string
	District string
	Code     string
	Subtotal decimal.Decimal
}

type PromoQuote struct {
	Code     string
	Rate     decimal.Decimal
	Discount decimal.Decimal
}

// PromotionService 是订单服务依赖优惠服务的出站端口。
// VerifyPromo 的拒绝用 ErrPromoRejected 包装返回。
type PromotionService interface {
	VerifyPromo(ctx context.Context, req *VerifyPromoRequest) (*PromoQuote, error)
	DeliveryFee(ctx context.Context, district string) (decimal.Decimal, string, error)
	RecordUsage(ctx context.Context, phone, address, code string) error
}
