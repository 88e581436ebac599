// internal/service/order/application/saga/persist.go
package saga

import (
	"context"

	"garde/internal/pkg/logger"
	"garde/internal/service/order/domain"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PersistOrderHandler 创建订单实体并落库。这一步是提交的分水岭：
// 在此之前失败，购物车和优惠台账都不会被动过；
// 在此之后的环节都是尽力而为，不会让订单回滚。
type PersistOrderHandler struct {
	NextHandler
}

func (h *PersistOrderHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.PersistOrder")
	defer span.End()

	rate := decimal.Zero
	promoCode := ""
	if orderCtx.Quote != nil {
		rate = orderCtx.Quote.Rate
		promoCode = orderCtx.Quote.Code
	}

	order, err := domain.NewOrder(orderCtx.Customer, orderCtx.Lines, promoCode, rate, orderCtx.DeliveryFee)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := orderCtx.Repo.Save(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to persist order")
		return errors.Wrap(err, "persist order")
	}

	orderCtx.Order = order
	orderCtx.AddCompensation(func(ctx context.Context) {
		if err := orderCtx.Repo.UpdateStatus(ctx, order.ID, domain.StatusCancelled); err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("compensation: failed to cancel order")
		}
	})

	span.SetAttributes(attribute.String("order.id", order.ID))
	span.AddEvent("order persisted")
	return h.executeNext(orderCtx)
}
