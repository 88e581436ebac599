package domain

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCustomer() Customer {
	return Customer{
		Name:     "Nadeesha",
		Phone:    "0771234567",
		Address:  "12/B Galle Road",
		District: "Colombo",
	}
}

func sampleItems() []OrderLine {
	return []OrderLine{
		{ProductID: "p1", Name: "Baby Carrier", Price: decimal.NewFromInt(800), Quantity: 1},
		{ProductID: "p2", Name: "Bib Set", Price: decimal.NewFromInt(100), Quantity: 2},
	}
}

func TestNewOrderTotals(t *testing.T) {
	order, err := NewOrder(sampleCustomer(), sampleItems(), "", decimal.Zero, decimal.NewFromInt(300))
	require.NoError(t, err)

	assert.Equal(t, "1000.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", order.Discount.StringFixed(2))
	assert.Equal(t, "1300.00", order.Total.StringFixed(2))
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, PaymentCashOnDelivery, order.PaymentMethod)
	assert.Equal(t, 3, order.ItemCount())
}

func TestNewOrderWithDiscount(t *testing.T) {
	rate := decimal.RequireFromString("0.10")
	order, err := NewOrder(sampleCustomer(), sampleItems(), "WELCOME10", rate, decimal.NewFromInt(300))
	require.NoError(t, err)

	assert.Equal(t, "100.00", order.Discount.StringFixed(2))
	// 1000 - 100 + 300
	assert.Equal(t, "1200.00", order.Total.StringFixed(2))
}

func TestNewOrderRejectsEmptyItems(t *testing.T) {
	_, err := NewOrder(sampleCustomer(), nil, "", decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestNewOrderRejectsMissingContact(t *testing.T) {
	customer := sampleCustomer()
	customer.Phone = "   "
	_, err := NewOrder(customer, sampleItems(), "", decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, ErrMissingContact)
}

func TestOrderIDFormat(t *testing.T) {
	id := NewOrderID()
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{13}-[a-z0-9]{5}$`), id)
}

func TestSetStatusAnyDirection(t *testing.T) {
	order, err := NewOrder(sampleCustomer(), sampleItems(), "", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	// 后台允许任意方向的状态切换
	require.NoError(t, order.SetStatus(StatusDelivered))
	require.NoError(t, order.SetStatus(StatusProcessing))
	assert.Equal(t, StatusProcessing, order.Status)

	err = order.SetStatus(Status("Shipped"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, StatusProcessing, order.Status)
}

func TestParseStatusCaseInsensitive(t *testing.T) {
	s, err := ParseStatus("out for delivery")
	require.NoError(t, err)
	assert.Equal(t, StatusOutForDelivery, s)
}
