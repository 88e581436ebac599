// internal/service/order/port/notification.go
package port

import (
	"context"

	"garde/internal/service/order/domain"
)

// NotificationProducer 把订单事件投递给下游（Kafka）。
type NotificationProducer interface {
	PublishOrderPlaced(ctx context.Context, event *domain.OrderPlacedEvent) error
}
