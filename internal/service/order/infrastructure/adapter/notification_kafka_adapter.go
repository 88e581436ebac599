// internal/service/order/infrastructure/adapter/notification_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"

	"garde/internal/pkg/mq"
	"garde/internal/service/order/domain"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

// OrderEventsTopic 上走所有订单事件，notification-service 和
// push-gateway 各自以独立消费组消费。
const OrderEventsTopic = "order-events"

// NotificationKafkaAdapter 是 port.NotificationProducer 的 Kafka 实现。
// 按订单号做分区键，同一订单的事件保持有序。
type NotificationKafkaAdapter struct {
	writer *kafka.Writer
}

func NewNotificationKafkaAdapter(brokers []string) *NotificationKafkaAdapter {
	return &NotificationKafkaAdapter{
		writer: mq.NewKafkaWriter(brokers, OrderEventsTopic),
	}
}

func (a *NotificationKafkaAdapter) PublishOrderPlaced(ctx context.Context, event *domain.OrderPlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal order event")
	}
	return mq.ProduceMessage(ctx, a.writer, []byte(event.OrderID), payload)
}

func (a *NotificationKafkaAdapter) Close() error {
	return a.writer.Close()
}
