// internal/service/order/application/dto.go
package application

import (
	"time"

	"garde/internal/service/order/domain"
)

// CheckoutRequest 是接口层传进来的下单请求。
// 商品明细不在请求里：以服务端购物车快照为准，防止前端改价。
type CheckoutRequest struct {
	UserID    string
	SessionID string

	Name     string
	Phone    string
	Address  string
	District string

	PromoCode string
}

func (r *CheckoutRequest) customer() domain.Customer {
	return domain.Customer{
		Name:     r.Name,
		Phone:    r.Phone,
		Address:  r.Address,
		District: r.District,
	}
}

// ReceiptItem 是回执里的商品行快照。
type ReceiptItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// Receipt 是下单成功的回执，所有金额都是提交时刻冻结的值。
type Receipt struct {
	OrderID       string        `json:"order_id"`
	Items         []ReceiptItem `json:"items"`
	Subtotal      string        `json:"subtotal"`
	PromoCode     string        `json:"promo_code,omitempty"`
	Discount      string        `json:"discount"`
	DeliveryFee   string        `json:"delivery_fee"`
	Total         string        `json:"total"`
	PaymentMethod string        `json:"payment_method"`
	Status        string        `json:"status"`
	PlacedAt      time.Time     `json:"placed_at"`
	Message       string        `json:"message"`
}

func newReceipt(order *domain.Order) *Receipt {
	items := make([]ReceiptItem, 0, len(order.Items))
	for _, line := range order.Items {
		items = append(items, ReceiptItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price.StringFixed(2),
			Quantity:  line.Quantity,
		})
	}
	return &Receipt{
		OrderID:       order.ID,
		Items:         items,
		Subtotal:      order.Subtotal.StringFixed(2),
		PromoCode:     order.PromoCode,
		Discount:      order.Discount.StringFixed(2),
		DeliveryFee:   order.DeliveryFee.StringFixed(2),
		Total:         order.Total.StringFixed(2),
		PaymentMethod: order.PaymentMethod,
		Status:        string(order.Status),
		PlacedAt:      order.CreatedAt,
		Message:       "Order placed successfully",
	}
}

// OrderSummary 是后台订单列表的展示行。
type OrderSummary struct {
	OrderID   string    `json:"order_id"`
	Customer  string    `json:"customer"`
	Phone     string    `json:"phone"`
	District  string    `json:"district"`
	ItemCount int       `json:"item_count"`
	Total     string    `json:"total"`
	Status    string    `json:"status"`
	PlacedAt  time.Time `json:"placed_at"`
}

func newOrderSummary(order *domain.Order) *OrderSummary {
	return &OrderSummary{
		OrderID:   order.ID,
		Customer:  order.Customer.Name,
		Phone:     order.Customer.Phone,
		District:  order.Customer.District,
		ItemCount: order.ItemCount(),
		Total:     order.Total.StringFixed(2),
		Status:    string(order.Status),
		PlacedAt:  order.CreatedAt,
	}
}
