// internal/service/notification/interfaces/kafka_consumer.go
package interfaces

import (
	"context"
	"encoding/json"

	"garde/internal/pkg/logger"
	"garde/internal/pkg/mq"
	"garde/internal/service/notification/application"
	"garde/internal/service/notification/domain"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// KafkaConsumer 是 notification 服务的驱动适配器：
// 消费 order-events 主题，把每条订单事件交给应用服务处理。
type KafkaConsumer struct {
	reader  *kafka.Reader
	service *application.NotificationService
	tracer  trace.Tracer
}

func NewKafkaConsumer(reader *kafka.Reader, service *application.NotificationService, tracer trace.Tracer) *KafkaConsumer {
	return &KafkaConsumer{reader: reader, service: service, tracer: tracer}
}

// Run 阻塞消费直到 ctx 取消。
func (c *KafkaConsumer) Run(ctx context.Context) {
	logger.Logger().Info().Str("topic", c.reader.Config().Topic).Msg("notification consumer started")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Logger().Error().Err(err).Msg("could not read message")
			continue
		}
		go c.processMessage(msg)
	}
}

func (c *KafkaConsumer) processMessage(msg kafka.Message) {
	// 消息头里带着生产端的追踪上下文，续接同一条链路
	ctx := mq.ExtractTraceContext(context.Background(), msg.Headers)

	ctx, span := c.tracer.Start(ctx, "notification.ProcessMessage",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.topic", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
		),
	)
	defer span.End()

	var event domain.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal order event")
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed order event")
		return
	}

	c.service.HandleOrderEvent(ctx, &event)
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
