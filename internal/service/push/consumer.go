// internal/service/push/consumer.go
package push

import (
	"context"
	"encoding/json"
	"time"

	"garde/internal/pkg/logger"
	"garde/internal/pkg/mq"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// orderEventView 只取后台看板关心的字段。
type orderEventView struct {
	OrderID  string `json:"order_id"`
	Customer struct {
		Name     string `json:"name"`
		District string `json:"district"`
	} `json:"customer"`
	Total    string    `json:"total"`
	PlacedAt time.Time `json:"placed_at"`
}

// pushMessage 是推给后台页面的消息格式。
type pushMessage struct {
	Type     string    `json:"type"`
	OrderID  string    `json:"order_id"`
	Customer string    `json:"customer"`
	District string    `json:"district"`
	Total    string    `json:"total"`
	PlacedAt time.Time `json:"placed_at"`
}

// Consumer 消费 order-events 并把新订单摘要广播给在线的后台页面。
type Consumer struct {
	reader *kafka.Reader
	hub    *Hub
	tracer trace.Tracer
}

func NewConsumer(reader *kafka.Reader, hub *Hub, tracer trace.Tracer) *Consumer {
	return &Consumer{reader: reader, hub: hub, tracer: tracer}
}

func (c *Consumer) Run(ctx context.Context) {
	logger.Logger().Info().Str("topic", c.reader.Config().Topic).Msg("push gateway consumer started")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Logger().Error().Err(err).Msg("could not read message")
			continue
		}
		c.processMessage(msg)
	}
}

func (c *Consumer) processMessage(msg kafka.Message) {
	ctx := mq.ExtractTraceContext(context.Background(), msg.Headers)
	ctx, span := c.tracer.Start(ctx, "push.ProcessMessage", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var event orderEventView
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal order event")
		span.RecordError(err)
		return
	}
	span.SetAttributes(attribute.String("order.id", event.OrderID))

	payload, err := json.Marshal(pushMessage{
		Type:     "order_placed",
		OrderID:  event.OrderID,
		Customer: event.Customer.Name,
		District: event.Customer.District,
		Total:    event.Total,
		PlacedAt: event.PlacedAt,
	})
	if err != nil {
		span.RecordError(err)
		return
	}

	c.hub.Broadcast(payload)
	span.AddEvent("order summary broadcast to admin clients")
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
