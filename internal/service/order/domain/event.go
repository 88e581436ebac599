// internal/service/order/domain/event.go
package domain

import "time"

// OrderPlacedEvent 是订单提交成功后发布到 order-events 主题的领域事件，
// 下游有两个消费者：notification-service（客服 WhatsApp 通知）和
// push-gateway（后台实时看板）。金额统一用字符串表示，避免
// 消费方用 float 反序列化引入精度问题。
type OrderPlacedEvent struct {
	EventID   string           `json:"event_id"`
	OrderID   string           `json:"order_id"`
	Customer  EventCustomer    `json:"customer"`
	Items     []EventOrderLine `json:"items"`
	Subtotal  string           `json:"subtotal"`
	PromoCode string           `json:"promo_code,omitempty"`
	Discount  string           `json:"discount"`
	Fee       string           `json:"delivery_fee"`
	Total     string           `json:"total"`
	PlacedAt  time.Time        `json:"placed_at"`
}

type EventCustomer struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	District string `json:"district"`
}

type EventOrderLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// NewOrderPlacedEvent 从订单实体构造事件快照。
func NewOrderPlacedEvent(eventID string, order *Order) *OrderPlacedEvent {
	items := make([]EventOrderLine, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, EventOrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price.StringFixed(2),
			Quantity:  line.Quantity,
		})
	}
	return &OrderPlacedEvent{
		EventID: eventID,
		OrderID: order.ID,
		Customer: EventCustomer{
			Name:     order.Customer.Name,
			Phone:    order.Customer.Phone,
			Address:  order.Customer.Address,
			District: order.Customer.District,
		},
		Items:     items,
		Subtotal:  order.Subtotal.StringFixed(2),
		PromoCode: order.PromoCode,
		Discount:  order.Discount.StringFixed(2),
		Fee:       order.DeliveryFee.StringFixed(2),
		Total:     order.Total.StringFixed(2),
		PlacedAt:  order.CreatedAt,
	}
}
