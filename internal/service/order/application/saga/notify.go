// internal/service/order/application/saga/notify.go
package saga

import (
	"garde/internal/pkg/logger"
	"garde/internal/service/order/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// NotifyHandler 把订单事件发到 order-events 主题，
// 下游是 WhatsApp 通知和后台实时看板。
// 发送失败是非关键路径的失败，只记日志，流程照常结束。
type NotifyHandler struct {
	NextHandler
}

func (h *NotifyHandler) Handle(orderCtx *OrderContext) error {
	ctx, span := orderCtx.Tracer.Start(orderCtx.Ctx, "saga.Notify")
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.destination.topic", "order-events"),
	)

	event := domain.NewOrderPlacedEvent(uuid.New().String(), orderCtx.Order)
	if err := orderCtx.Notifier.PublishOrderPlaced(ctx, event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", orderCtx.Order.ID).Msg("failed to publish order event")
		span.RecordError(err)
	} else {
		span.AddEvent("order event published")
	}

	return h.executeNext(orderCtx)
}
