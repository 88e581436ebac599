// internal/service/order/application/saga/promo_recheck.go
package saga

import (
	"strings"

	"garde/internal/service/order/port"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PromoRecheckHandler 在提交时对优惠码做权威复核。
// 客户端之前的校验只是预览，真正算数的是这一次：
// 同一个码的"复核+记账"窗口用分布式锁串行化，
// 两个并发提交不可能都拿到同一个码的折扣。
type PromoRecheckHandler struct {
	NextHandler
}

func (h *PromoRecheckHandler) Handle(orderCtx *OrderContext) error {
	code := strings.ToUpper(strings.TrimSpace(orderCtx.PromoCode))
	if code == "" {
		return h.executeNext(orderCtx)
	}

	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.PromoRecheck")
	defer span.End()
	span.SetAttributes(attribute.String("promo.code", code))

	release, err := orderCtx.Locker.Acquire(ctx, "promo-"+code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to acquire promo lock")
		return errors.Wrap(err, "acquire promo lock")
	}
	// 锁要跨过持久化和记账环节，由 OrderContext 统一释放
	orderCtx.HoldLock(release)

	subtotal := decimal.Zero
	for _, line := range orderCtx.Lines {
		subtotal = subtotal.Add(line.LineTotal())
	}

	quote, err := orderCtx.Promotion.VerifyPromo(ctx, &port.VerifyPromoRequest{
		Phone:    orderCtx.Customer.Phone,
		Address:  orderCtx.Customer.Address,
		District: orderCtx.Customer.District,
		Code:     code,
		Subtotal: subtotal,
	})
	if err != nil {
		// 拒绝和故障都中断提交，没有任何副作用；
		// 调用方根据 ErrPromoRejected 区分给用户的提示
		span.RecordError(err)
		return err
	}

	orderCtx.Quote = quote
	span.AddEvent("promo code reconfirmed at submit time")
	return h.executeNext(orderCtx)
}
