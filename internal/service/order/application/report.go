// internal/service/order/application/report.go
package application

import (
	"context"
	"sort"
	"strings"
	"time"

	"garde/internal/service/order/domain"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// CustomerSummary 是把订单按收货手机号聚合出的顾客行。
// 店铺没有注册体系，回头客靠同一个手机号识别；
// 名字和地区取最近一单填写的值。
type CustomerSummary struct {
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	District     string    `json:"district"`
	OrderCount   int       `json:"order_count"`
	TotalSpent   string    `json:"total_spent"` // 不含已取消订单
	FirstOrderAt time.Time `json:"first_order_at"`
	LastOrderAt  time.Time `json:"last_order_at"`
}

// normalizePhone 只留数字，"077-123 4567" 和 "0771234567" 聚成同一个顾客。
func normalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ListCustomers 返回后台顾客列表，消费额高的排前面。
func (s *OrderApplicationService) ListCustomers(ctx context.Context) ([]*CustomerSummary, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListCustomers")
	defer span.End()

	orders, err := s.repo.List(ctx, domain.ListFilter{})
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "list orders")
	}
	// 最近的订单排前面，聚合时第一眼看到的名字和地区就是最新的
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	index := make(map[string]*CustomerSummary)
	spent := make(map[string]decimal.Decimal)
	var keys []string
	for _, order := range orders {
		key := normalizePhone(order.Customer.Phone)
		summary, ok := index[key]
		if !ok {
			summary = &CustomerSummary{
				Name:         order.Customer.Name,
				Phone:        order.Customer.Phone,
				District:     order.Customer.District,
				FirstOrderAt: order.CreatedAt,
				LastOrderAt:  order.CreatedAt,
			}
			index[key] = summary
			spent[key] = decimal.Zero
			keys = append(keys, key)
		}
		summary.OrderCount++
		if order.CreatedAt.Before(summary.FirstOrderAt) {
			summary.FirstOrderAt = order.CreatedAt
		}
		if order.Status != domain.StatusCancelled {
			spent[key] = spent[key].Add(order.Total)
		}
	}

	sort.SliceStable(keys, func(i, j int) bool { return spent[keys[i]].GreaterThan(spent[keys[j]]) })

	result := make([]*CustomerSummary, 0, len(keys))
	for _, key := range keys {
		index[key].TotalSpent = spent[key].StringFixed(2)
		result = append(result, index[key])
	}
	return result, nil
}

// 货到付款没有独立的支付流水，收款状态跟着订单状态走：
// 签收即收到，取消即落空，其余都还在路上。
const (
	PaymentSuccess = "Success"
	PaymentFailed  = "Failed"
	PaymentPending = "Pending"
)

func paymentStatus(status domain.Status) string {
	switch status {
	case domain.StatusDelivered:
		return PaymentSuccess
	case domain.StatusCancelled:
		return PaymentFailed
	default:
		return PaymentPending
	}
}

// PaymentRecord 是后台财务页的一行。
type PaymentRecord struct {
	TransactionID string    `json:"transaction_id"`
	OrderID       string    `json:"order_id"`
	Payer         string    `json:"payer"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	Amount        string    `json:"amount"`
	Date          time.Time `json:"date"`
}

// PaymentsReport 是财务页的汇总：在途与已收金额，加上明细列表。
type PaymentsReport struct {
	PendingAmount  string           `json:"pending_amount"`
	RealizedAmount string           `json:"realized_amount"`
	Payments       []*PaymentRecord `json:"payments"`
}

// ListPayments 从订单推导收款流水，按下单时间倒序。
func (s *OrderApplicationService) ListPayments(ctx context.Context) (*PaymentsReport, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListPayments")
	defer span.End()

	orders, err := s.repo.List(ctx, domain.ListFilter{})
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "list orders")
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	pending, realized := decimal.Zero, decimal.Zero
	records := make([]*PaymentRecord, 0, len(orders))
	for _, order := range orders {
		status := paymentStatus(order.Status)
		amount := order.Total
		switch status {
		case PaymentSuccess:
			realized = realized.Add(amount)
		case PaymentPending:
			pending = pending.Add(amount)
		case PaymentFailed:
			// 取消的订单一分钱也没收到
			amount = decimal.Zero
		}
		records = append(records, &PaymentRecord{
			TransactionID: "TXT-" + strings.TrimPrefix(order.ID, "ORD-"),
			OrderID:       order.ID,
			Payer:         order.Customer.Name,
			Method:        order.PaymentMethod,
			Status:        status,
			Amount:        amount.StringFixed(2),
			Date:          order.CreatedAt,
		})
	}

	return &PaymentsReport{
		PendingAmount:  pending.StringFixed(2),
		RealizedAmount: realized.StringFixed(2),
		Payments:       records,
	}, nil
}
