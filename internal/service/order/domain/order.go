// internal/service/order/domain/order.go
package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrEmptyOrder     = errors.New("order must contain at least one item")
	ErrMissingContact = errors.New("customer name, phone and address are required")
)

// Status 是订单状态枚举。后台可以在任意两个状态之间切换，
// 只校验目标状态本身是否合法，不限制流转方向。
type Status string

const (
	StatusPending        Status = "Pending"
	StatusProcessing     Status = "Processing"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

// ParseStatus 校验并返回状态枚举值，大小写不敏感。
func ParseStatus(raw string) (Status, error) {
	for _, s := range []Status{StatusPending, StatusProcessing, StatusOutForDelivery, StatusDelivered, StatusCancelled} {
		if strings.EqualFold(string(s), strings.TrimSpace(raw)) {
			return s, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidStatus, "%q", raw)
}

// Customer 是下单人信息值对象。
type Customer struct {
	Name     string
	Phone    string
	Address  string
	District string
}

func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" ||
		strings.TrimSpace(c.Phone) == "" ||
		strings.TrimSpace(c.Address) == "" {
		return ErrMissingContact
	}
	return nil
}

// OrderLine 是下单时的商品快照。价格以下单时刻为准，
// 后续商品改价不影响已创建的订单。
type OrderLine struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

func (l OrderLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order 是订单聚合的根实体。金额字段在创建时一次性算好并冻结。
type Order struct {
	ID       string
	Customer Customer
	Items    []OrderLine

	Subtotal     decimal.Decimal
	PromoCode    string
	DiscountRate decimal.Decimal
	Discount     decimal.Decimal
	DeliveryFee  decimal.Decimal
	Total        decimal.Decimal

	PaymentMethod string // 目前只有货到付款
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const PaymentCashOnDelivery = "COD"

// NewOrderID 生成形如 ORD-1756600000000-k3x9q 的订单号。
// 毫秒时间戳保证大体有序，随机后缀避免同毫秒撞号。
func NewOrderID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// NewOrder 是订单的工厂函数。items 必须是已经定价过的快照，
// discountRate/fee 由调用方（saga 的定价与优惠环节）给出。
func NewOrder(customer Customer, items []OrderLine, promoCode string, discountRate, deliveryFee decimal.Decimal) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range items {
		subtotal = subtotal.Add(line.LineTotal())
	}
	discount := subtotal.Mul(discountRate)

	now := time.Now()
	return &Order{
		ID:            NewOrderID(),
		Customer:      customer,
		Items:         items,
		Subtotal:      subtotal,
		PromoCode:     promoCode,
		DiscountRate:  discountRate,
		Discount:      discount,
		DeliveryFee:   deliveryFee,
		Total:         subtotal.Sub(discount).Add(deliveryFee),
		PaymentMethod: PaymentCashOnDelivery,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// SetStatus 切换订单状态。任意方向的流转都允许，
// 这是后台运营的明确要求（例如误点发货后改回处理中）。
func (o *Order) SetStatus(s Status) error {
	if _, err := ParseStatus(string(s)); err != nil {
		return err
	}
	o.Status = s
	o.UpdatedAt = time.Now()
	return nil
}

// ItemCount 返回订单内商品件数总和。
func (o *Order) ItemCount() int {
	count := 0
	for _, line := range o.Items {
		count += line.Quantity
	}
	return count
}
