// internal/service/order/application/saga/record_usage.go
package saga

import "garde/internal/pkg/logger"

// RecordUsageHandler 在订单落库之后把优惠码使用记入台账，
// 然后释放复核环节拿到的互斥锁。
// 记账失败只记日志，不回滚订单：宁可让一个码偶尔多用一次，
// 也不能丢掉一张已经确认的订单。
type RecordUsageHandler struct {
	NextHandler
}

func (h *RecordUsageHandler) Handle(orderCtx *OrderContext) error {
	// 无论记账成败，离开这一环都要放锁
	defer orderCtx.ReleaseLock()

	if orderCtx.Quote == nil {
		return h.executeNext(orderCtx)
	}

	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.RecordPromoUsage")
	defer span.End()

	err := orderCtx.Promotion.RecordUsage(ctx,
		orderCtx.Customer.Phone, orderCtx.Customer.Address, orderCtx.Quote.Code)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("order_id", orderCtx.Order.ID).
			Str("code", orderCtx.Quote.Code).
			Msg("failed to record promo usage, order kept")
		span.RecordError(err)
	} else {
		span.AddEvent("promo usage recorded")
	}

	return h.executeNext(orderCtx)
}
