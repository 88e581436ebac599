package application

import (
	"context"
	"testing"
	"time"

	"garde/internal/service/order/domain"
	"garde/internal/service/order/port"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

type fakeCart struct {
	items      []port.CartLine
	clearCalls int
}

func (f *fakeCart) GetCart(context.Context, string, string) (*port.CartSnapshot, error) {
	return &port.CartSnapshot{Items: f.items}, nil
}

func (f *fakeCart) Clear(context.Context, string, string) error {
	f.clearCalls++
	return nil
}

type fakePromo struct {
	rate      decimal.Decimal
	usedBy    map[string]bool // key: phone
	recordErr error
	records   int
}

func newFakePromo() *fakePromo {
	return &fakePromo{rate: decimal.RequireFromString("0.10"), usedBy: map[string]bool{}}
}

func (f *fakePromo) VerifyPromo(_ context.Context, req *port.VerifyPromoRequest) (*port.PromoQuote, error) {
	if req.Code != "WELCOME10" {
		return nil, errors.Wrap(port.ErrPromoRejected, "unknown code")
	}
	if f.usedBy[req.Phone] {
		return nil, errors.Wrap(port.ErrPromoRejected, "already used")
	}
	return &port.PromoQuote{
		Code:     req.Code,
		Rate:     f.rate,
		Discount: req.Subtotal.Mul(f.rate),
	}, nil
}

func (f *fakePromo) DeliveryFee(_ context.Context, district string) (decimal.Decimal, string, error) {
	if district == "Colombo" {
		return decimal.NewFromInt(300), "", nil
	}
	return decimal.NewFromInt(400), "", nil
}

func (f *fakePromo) RecordUsage(_ context.Context, phone, _, _ string) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.usedBy[phone] = true
	f.records++
	return nil
}

type fakeLocker struct {
	acquired int
	released int
}

func (f *fakeLocker) Acquire(context.Context, string) (func(), error) {
	f.acquired++
	return func() { f.released++ }, nil
}

type fakeNotifier struct {
	events []*domain.OrderPlacedEvent
	err    error
}

func (f *fakeNotifier) PublishOrderPlaced(_ context.Context, event *domain.OrderPlacedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type memRepo struct {
	orders  map[string]*domain.Order
	saveErr error
}

func newMemRepo() *memRepo {
	return &memRepo{orders: map[string]*domain.Order{}}
}

func (m *memRepo) Save(_ context.Context, order *domain.Order) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.orders[order.ID] = order
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (m *memRepo) List(_ context.Context, filter domain.ListFilter) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range m.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		result = append(result, order)
	}
	return result, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	order, ok := m.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

type memDrafts struct {
	drafts map[string]*CheckoutDraft
}

func newMemDrafts() *memDrafts {
	return &memDrafts{drafts: map[string]*CheckoutDraft{}}
}

func (m *memDrafts) Get(_ context.Context, sessionID string) (*CheckoutDraft, error) {
	if draft, ok := m.drafts[sessionID]; ok {
		return draft, nil
	}
	return &CheckoutDraft{}, nil
}

func (m *memDrafts) Save(_ context.Context, sessionID string, draft *CheckoutDraft) error {
	m.drafts[sessionID] = draft
	return nil
}

func (m *memDrafts) Delete(_ context.Context, sessionID string) error {
	delete(m.drafts, sessionID)
	return nil
}

type checkoutFixture struct {
	svc      *OrderApplicationService
	cart     *fakeCart
	promo    *fakePromo
	locker   *fakeLocker
	notifier *fakeNotifier
	repo     *memRepo
	drafts   *memDrafts
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		cart: &fakeCart{items: []port.CartLine{
			{ProductID: "p1", Name: "Baby Carrier", Price: decimal.NewFromInt(800), Quantity: 1},
			{ProductID: "p2", Name: "Bib Set", Price: decimal.NewFromInt(100), Quantity: 2},
		}},
		promo:    newFakePromo(),
		locker:   &fakeLocker{},
		notifier: &fakeNotifier{},
		repo:     newMemRepo(),
		drafts:   newMemDrafts(),
	}
	f.svc = NewOrderApplicationService(f.repo, f.cart, f.promo, f.locker, f.notifier, f.drafts, 10*time.Second, otel.Tracer("test"))
	return f
}

func checkoutReq(promoCode string) *CheckoutRequest {
	return &CheckoutRequest{
		SessionID: "sess-1",
		Name:      "Nadeesha",
		Phone:     "0771234567",
		Address:   "12/B Galle Road",
		District:  "Colombo",
		PromoCode: promoCode,
	}
}

func TestPlaceOrderWithoutPromo(t *testing.T) {
	f := newCheckoutFixture()

	receipt, err := f.svc.PlaceOrder(context.Background(), checkoutReq(""))
	require.NoError(t, err)

	assert.Equal(t, "1000.00", receipt.Subtotal)
	assert.Equal(t, "300.00", receipt.DeliveryFee)
	assert.Equal(t, "1300.00", receipt.Total)
	assert.Equal(t, string(domain.StatusPending), receipt.Status)

	assert.Len(t, f.repo.orders, 1)
	assert.Equal(t, 1, f.cart.clearCalls)
	assert.Len(t, f.notifier.events, 1)
	assert.Zero(t, f.locker.acquired, "no promo, no lock")
}

func TestPlaceOrderWithPromo(t *testing.T) {
	f := newCheckoutFixture()

	receipt, err := f.svc.PlaceOrder(context.Background(), checkoutReq("WELCOME10"))
	require.NoError(t, err)

	assert.Equal(t, "100.00", receipt.Discount)
	assert.Equal(t, "1200.00", receipt.Total)
	assert.Equal(t, 1, f.promo.records)
	assert.Equal(t, 1, f.locker.acquired)
	assert.Equal(t, 1, f.locker.released, "lock must be released after recording usage")
}

func TestPlaceOrderDuplicatePromoRejected(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, checkoutReq("WELCOME10"))
	require.NoError(t, err)

	// 同一手机号第二次用同一个码：服务端权威复核拒绝，无任何副作用
	_, err = f.svc.PlaceOrder(ctx, checkoutReq("WELCOME10"))
	assert.ErrorIs(t, err, port.ErrPromoRejected)

	assert.Len(t, f.repo.orders, 1, "second order must not be created")
	assert.Equal(t, 1, f.cart.clearCalls, "cart untouched on rejection")
	assert.Len(t, f.notifier.events, 1)
	assert.Equal(t, f.locker.acquired, f.locker.released, "lock released on rejection path")
}

func TestPlaceOrderLedgerFailureKeepsOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.promo.recordErr = errors.New("sheets append failed")

	receipt, err := f.svc.PlaceOrder(context.Background(), checkoutReq("WELCOME10"))
	require.NoError(t, err, "ledger write failure must not roll back the order")
	assert.Contains(t, f.repo.orders, receipt.OrderID)
	assert.Equal(t, 1, f.cart.clearCalls)
	assert.Equal(t, f.locker.acquired, f.locker.released)
}

func TestPlaceOrderNotifyFailureKeepsOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.notifier.err = errors.New("kafka unavailable")

	receipt, err := f.svc.PlaceOrder(context.Background(), checkoutReq(""))
	require.NoError(t, err)
	assert.Contains(t, f.repo.orders, receipt.OrderID)
	assert.Equal(t, 1, f.cart.clearCalls)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	f.cart.items = nil

	_, err := f.svc.PlaceOrder(context.Background(), checkoutReq(""))
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)
	assert.Empty(t, f.repo.orders)
	assert.Zero(t, f.cart.clearCalls)
}

func TestPlaceOrderPersistFailureNoSideEffects(t *testing.T) {
	f := newCheckoutFixture()
	f.repo.saveErr = errors.New("db down")

	_, err := f.svc.PlaceOrder(context.Background(), checkoutReq("WELCOME10"))
	require.Error(t, err)
	assert.Zero(t, f.cart.clearCalls)
	assert.Zero(t, f.promo.records, "usage must not be recorded when persist fails")
	assert.Empty(t, f.notifier.events)
	assert.Equal(t, f.locker.acquired, f.locker.released)
}

func TestPlaceOrderDeletesDraft(t *testing.T) {
	f := newCheckoutFixture()
	f.drafts.drafts["sess-1"] = &CheckoutDraft{Phone: "0771234567"}

	_, err := f.svc.PlaceOrder(context.Background(), checkoutReq(""))
	require.NoError(t, err)
	assert.NotContains(t, f.drafts.drafts, "sess-1")
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	f := newCheckoutFixture()

	err := f.svc.UpdateStatus(context.Background(), "ORD-missing", "Processing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	f := newCheckoutFixture()
	receipt, err := f.svc.PlaceOrder(context.Background(), checkoutReq(""))
	require.NoError(t, err)

	err = f.svc.UpdateStatus(context.Background(), receipt.OrderID, "Shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGetAnalytics(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	first, err := f.svc.PlaceOrder(ctx, checkoutReq(""))
	require.NoError(t, err)
	f.cart.items = []port.CartLine{{ProductID: "p3", Name: "Rattle", Price: decimal.NewFromInt(200), Quantity: 1}}
	second, err := f.svc.PlaceOrder(ctx, checkoutReq(""))
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateStatus(ctx, first.OrderID, "Delivered"))
	require.NoError(t, f.svc.UpdateStatus(ctx, second.OrderID, "Cancelled"))

	analytics, err := f.svc.GetAnalytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, analytics.TotalOrders)
	assert.Equal(t, 1, analytics.StatusCounts["Delivered"])
	assert.Equal(t, 1, analytics.StatusCounts["Cancelled"])
	// 已取消订单不计入营收
	assert.Equal(t, "1300.00", analytics.Revenue)
}
