package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerReq(name, phone string) *CheckoutRequest {
	return &CheckoutRequest{
		SessionID: "sess-" + phone,
		Name:      name,
		Phone:     phone,
		Address:   "12/B Galle Road",
		District:  "Colombo",
	}
}

func TestListCustomersGroupsByPhone(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	// 同一个顾客换着格式写手机号，必须聚成一行
	_, err := f.svc.PlaceOrder(ctx, customerReq("Nadeesha", "077-123 4567"))
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, customerReq("Nadeesha", "0771234567"))
	require.NoError(t, err)

	other, err := f.svc.PlaceOrder(ctx, customerReq("Kasun", "0712223334"))
	require.NoError(t, err)
	require.NoError(t, f.svc.UpdateStatus(ctx, other.OrderID, "Cancelled"))

	customers, err := f.svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)

	assert.Equal(t, "Nadeesha", customers[0].Name)
	assert.Equal(t, 2, customers[0].OrderCount)
	assert.Equal(t, "2600.00", customers[0].TotalSpent)
	assert.False(t, customers[0].LastOrderAt.Before(customers[0].FirstOrderAt))

	// 取消的订单不算消费
	assert.Equal(t, "Kasun", customers[1].Name)
	assert.Equal(t, 1, customers[1].OrderCount)
	assert.Equal(t, "0.00", customers[1].TotalSpent)
}

func TestListPaymentsFollowsOrderStatus(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	delivered, err := f.svc.PlaceOrder(ctx, checkoutReq(""))
	require.NoError(t, err)
	cancelled, err := f.svc.PlaceOrder(ctx, checkoutReq(""))
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, checkoutReq(""))
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(ctx, delivered.OrderID, "Delivered"))
	require.NoError(t, f.svc.UpdateStatus(ctx, cancelled.OrderID, "Cancelled"))

	report, err := f.svc.ListPayments(ctx)
	require.NoError(t, err)
	require.Len(t, report.Payments, 3)

	assert.Equal(t, "1300.00", report.RealizedAmount)
	assert.Equal(t, "1300.00", report.PendingAmount)

	byOrder := make(map[string]*PaymentRecord, len(report.Payments))
	for _, p := range report.Payments {
		byOrder[p.OrderID] = p
		assert.True(t, strings.HasPrefix(p.TransactionID, "TXT-"), p.TransactionID)
		assert.Equal(t, "COD", p.Method)
	}

	assert.Equal(t, PaymentSuccess, byOrder[delivered.OrderID].Status)
	assert.Equal(t, "1300.00", byOrder[delivered.OrderID].Amount)
	// 取消的订单一分钱也没收到
	assert.Equal(t, PaymentFailed, byOrder[cancelled.OrderID].Status)
	assert.Equal(t, "0.00", byOrder[cancelled.OrderID].Amount)
}
