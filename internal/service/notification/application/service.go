// internal/service/notification/application/service.go
package application

import (
	"context"

	"garde/internal/pkg/logger"
	"garde/internal/service/notification/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Sender 是消息出口的出站端口，目前只有 CallMeBot 一种实现。
type Sender interface {
	Send(ctx context.Context, text string) error
}

// NotificationService 把订单事件变成发给店主的 WhatsApp 消息。
// 通知是尽力而为的旁路：发送失败只记日志，消息被消费掉就算处理完，
// 不做重试也不回炉，这是和店主明确对齐过的取舍。
type NotificationService struct {
	sender Sender
	tracer trace.Tracer
}

func NewNotificationService(sender Sender, tracer trace.Tracer) *NotificationService {
	return &NotificationService{sender: sender, tracer: tracer}
}

func (s *NotificationService) HandleOrderEvent(ctx context.Context, event *domain.OrderEvent) {
	ctx, span := s.tracer.Start(ctx, "notification.HandleOrderEvent")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", event.OrderID))

	text := domain.RenderWhatsAppMessage(event)
	if err := s.sender.Send(ctx, text); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", event.OrderID).Msg("failed to send WhatsApp notification")
		span.RecordError(err)
		return
	}

	logger.Ctx(ctx).Info().Str("order_id", event.OrderID).Msg("WhatsApp notification sent")
	span.AddEvent("notification sent")
}
