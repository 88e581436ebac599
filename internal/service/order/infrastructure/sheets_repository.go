// internal/service/order/infrastructure/sheets_repository.go
package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"garde/internal/pkg/sheets"
	"garde/internal/service/order/domain"

	"github.com/shopspring/decimal"
)

const ordersTab = "Orders"

// Orders tab 的列布局。商品明细压成一个单元格，
// 店主在表格里一眼能看懂，程序也能解析回来。
const (
	colOrderID = iota
	colDate
	colName
	colPhone
	colAddress
	colDistrict
	colItems
	colSubtotal
	colPromoCode
	colDiscount
	colDeliveryFee
	colTotal
	colStatus
	orderColumns
)

var orderHeaders = []string{
	"OrderID", "Date", "Name", "Phone", "Address", "District",
	"Items", "Subtotal", "PromoCode", "Discount", "DeliveryFee", "Total", "Status",
}

const sheetTimeLayout = "2006-01-02 15:04:05"

// SheetsRepository 把电子表格的 Orders tab 当订单表。
// 小店一天几十单的量级，整表读进内存过滤完全够用。
type SheetsRepository struct {
	client *sheets.Client
}

func NewSheetsRepository(ctx context.Context, client *sheets.Client) (*SheetsRepository, error) {
	if err := client.EnsureTab(ctx, ordersTab, orderHeaders); err != nil {
		return nil, err
	}
	return &SheetsRepository{client: client}, nil
}

func (r *SheetsRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.client.AppendRow(ctx, ordersTab, []interface{}{
		order.ID,
		order.CreatedAt.Format(sheetTimeLayout),
		order.Customer.Name,
		order.Customer.Phone,
		order.Customer.Address,
		order.Customer.District,
		formatItems(order.Items),
		order.Subtotal.StringFixed(2),
		order.PromoCode,
		order.Discount.StringFixed(2),
		order.DeliveryFee.StringFixed(2),
		order.Total.StringFixed(2),
		string(order.Status),
	})
}

func (r *SheetsRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	rows, err := r.client.ReadRows(ctx, ordersTab, orderColumns)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row[colOrderID] == id {
			return parseOrderRow(row), nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *SheetsRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Order, error) {
	rows, err := r.client.ReadRows(ctx, ordersTab, orderColumns)
	if err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		if row[colOrderID] == "" {
			continue
		}
		order := parseOrderRow(row)
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		orders = append(orders, order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	if filter.Limit > 0 && len(orders) > filter.Limit {
		orders = orders[:filter.Limit]
	}
	return orders, nil
}

func (r *SheetsRepository) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	rows, err := r.client.ReadRows(ctx, ordersTab, orderColumns)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if row[colOrderID] == id {
			// 数据从第 2 行开始，第 i 条记录在第 i+2 行
			cell := fmt.Sprintf("%c%d", 'A'+colStatus, i+2)
			return r.client.UpdateCell(ctx, ordersTab, cell, string(status))
		}
	}
	return domain.ErrOrderNotFound
}

// formatItems 把订单行压成 "Baby Carrier x 2 @ 800.00; ..." 的形式。
func formatItems(lines []domain.OrderLine) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%s x %d @ %s", line.Name, line.Quantity, line.Price.StringFixed(2)))
	}
	return strings.Join(parts, "; ")
}

func parseItems(cell string) []domain.OrderLine {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ";")
	lines := make([]domain.OrderLine, 0, len(parts))
	for _, part := range parts {
		name, rest, ok := strings.Cut(part, " x ")
		if !ok {
			continue
		}
		qtyStr, priceStr, ok := strings.Cut(rest, " @ ")
		if !ok {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyStr))
		if err != nil {
			continue
		}
		price, err := decimal.NewFromString(strings.TrimSpace(priceStr))
		if err != nil {
			continue
		}
		lines = append(lines, domain.OrderLine{
			Name:     strings.TrimSpace(name),
			Price:    price,
			Quantity: qty,
		})
	}
	return lines
}

func parseOrderRow(row []string) *domain.Order {
	createdAt, _ := time.ParseInLocation(sheetTimeLayout, row[colDate], time.Local)
	return &domain.Order{
		ID: row[colOrderID],
		Customer: domain.Customer{
			Name:     row[colName],
			Phone:    row[colPhone],
			Address:  row[colAddress],
			District: row[colDistrict],
		},
		Items:         parseItems(row[colItems]),
		Subtotal:      parseAmount(row[colSubtotal]),
		PromoCode:     row[colPromoCode],
		Discount:      parseAmount(row[colDiscount]),
		DeliveryFee:   parseAmount(row[colDeliveryFee]),
		Total:         parseAmount(row[colTotal]),
		PaymentMethod: domain.PaymentCashOnDelivery,
		Status:        domain.Status(row[colStatus]),
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

// parseAmount 容忍店主手工编辑留下的脏值，解析失败按零处理。
func parseAmount(cell string) decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(cell))
	if err != nil {
		return decimal.Zero
	}
	return amount
}
