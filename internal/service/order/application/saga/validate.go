// internal/service/order/application/saga/validate.go
package saga

import (
	"garde/internal/service/order/domain"

	"github.com/pkg/errors"
)

// ValidateHandler 是责任链第一环：拉取购物车快照并校验下单前提。
// 这里失败时什么副作用都没发生，购物车和草稿保持原样。
type ValidateHandler struct {
	NextHandler
}

func (h *ValidateHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Validate")
	defer span.End()

	if err := orderCtx.Customer.Validate(); err != nil {
		return err
	}

	cart, err := orderCtx.CartService.GetCart(ctx, orderCtx.UserID, orderCtx.SessionID)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "fetch cart snapshot")
	}
	if len(cart.Items) == 0 {
		return domain.ErrEmptyOrder
	}

	orderCtx.Cart = cart
	span.AddEvent("cart snapshot validated")
	return h.executeNext(orderCtx)
}
