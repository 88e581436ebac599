// internal/service/order/application/saga/clear_cart.go
package saga

import "garde/internal/pkg/logger"

// ClearCartHandler 是链的最后一环：订单已经提交成功，
// 清空这个会话的购物车。清空失败同样不影响订单，
// 用户下次打开购物车最多看到旧内容。
type ClearCartHandler struct {
	NextHandler
}

func (h *ClearCartHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.ClearCart")
	defer span.End()

	if err := orderCtx.CartService.Clear(ctx, orderCtx.UserID, orderCtx.SessionID); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", orderCtx.Order.ID).Msg("failed to clear cart after checkout")
		span.RecordError(err)
	} else {
		span.AddEvent("session cart cleared")
	}

	return h.executeNext(orderCtx)
}
