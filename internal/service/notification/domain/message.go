// internal/service/notification/domain/message.go
package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderEvent 是 order-events 主题上订单事件的消费端视图。
// 金额是生产端已经格式化好的字符串，这边不做任何换算。
type OrderEvent struct {
	EventID   string           `json:"event_id"`
	OrderID   string           `json:"order_id"`
	Customer  Customer         `json:"customer"`
	Items     []OrderEventLine `json:"items"`
	Subtotal  string           `json:"subtotal"`
	PromoCode string           `json:"promo_code"`
	Discount  string           `json:"discount"`
	Fee       string           `json:"delivery_fee"`
	Total     string           `json:"total"`
	PlacedAt  time.Time        `json:"placed_at"`
}

type Customer struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	District string `json:"district"`
}

type OrderEventLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// RenderWhatsAppMessage 把订单事件渲染成发给店主的 WhatsApp 文本。
// 星号是 WhatsApp 的加粗语法。
func RenderWhatsAppMessage(event *OrderEvent) string {
	var b strings.Builder

	b.WriteString("🍼 *New Order Received!*\n\n")
	fmt.Fprintf(&b, "*Order ID:* %s\n", event.OrderID)
	fmt.Fprintf(&b, "*Date:* %s\n\n", event.PlacedAt.Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "*Customer:* %s\n", event.Customer.Name)
	fmt.Fprintf(&b, "*Phone:* %s\n", event.Customer.Phone)
	fmt.Fprintf(&b, "*Address:* %s", event.Customer.Address)
	if event.Customer.District != "" {
		fmt.Fprintf(&b, ", %s", event.Customer.District)
	}
	b.WriteString("\n\n*Items:*\n")

	for _, item := range event.Items {
		fmt.Fprintf(&b, "- %s x%d = Rs. %s\n", item.Name, item.Quantity, item.Price)
	}

	fmt.Fprintf(&b, "\n*Subtotal:* Rs. %s\n", event.Subtotal)
	if event.PromoCode != "" {
		fmt.Fprintf(&b, "*Promo (%s):* -Rs. %s\n", event.PromoCode, event.Discount)
	}
	fmt.Fprintf(&b, "*Delivery:* Rs. %s\n", event.Fee)
	fmt.Fprintf(&b, "*Total:* Rs. %s", event.Total)

	return b.String()
}
