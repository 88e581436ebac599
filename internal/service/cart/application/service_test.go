package application

import (
	"context"
	"testing"

	"garde/internal/service/cart/domain"
	"garde/internal/service/cart/port"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

type memStore struct {
	carts map[string]*domain.Cart
	saves int
}

func newMemStore() *memStore {
	return &memStore{carts: map[string]*domain.Cart{}}
}

func (m *memStore) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	if c, ok := m.carts[sessionID]; ok {
		clone := *c
		clone.Items = append([]domain.LineItem(nil), c.Items...)
		return &clone, nil
	}
	return domain.NewCart(sessionID), nil
}

func (m *memStore) Save(_ context.Context, cart *domain.Cart) error {
	m.saves++
	clone := *cart
	clone.Items = append([]domain.LineItem(nil), cart.Items...)
	m.carts[cart.SessionID] = &clone
	return nil
}

func (m *memStore) Clear(_ context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type fakeCatalog struct {
	products map[string]*port.ProductInfo
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*port.ProductInfo, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, errors.New("no such product")
}

func newService(guest, user *memStore) *CartService {
	catalog := &fakeCatalog{products: map[string]*port.ProductInfo{
		"P1": {ProductID: "P1", Name: "Nappy Pack", Price: decimal.NewFromInt(500), ImageURL: "img"},
	}}
	return NewCartService(guest, user, catalog, otel.Tracer("test"))
}

func TestAddItemSnapshotsCatalogPrice(t *testing.T) {
	guest := newMemStore()
	svc := newService(guest, newMemStore())

	cart, err := svc.AddItem(context.Background(), SessionRef{ID: "s1"}, "P1", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].UnitPrice.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 1, guest.saves, "every mutation persists the snapshot")
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := newService(newMemStore(), newMemStore())

	_, err := svc.AddItem(context.Background(), SessionRef{ID: "s1"}, "P9", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestStoreSelectionBySessionType(t *testing.T) {
	guest := newMemStore()
	user := newMemStore()
	svc := newService(guest, user)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, SessionRef{ID: "g1"}, "P1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, SessionRef{ID: "u1", Authenticated: true}, "P1", 1)
	require.NoError(t, err)

	assert.Contains(t, guest.carts, "g1")
	assert.NotContains(t, guest.carts, "u1")
	assert.Contains(t, user.carts, "u1")
}

func TestRemoveMissingItemDoesNotError(t *testing.T) {
	svc := newService(newMemStore(), newMemStore())

	cart, err := svc.RemoveItem(context.Background(), SessionRef{ID: "s1"}, "P9")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestClearEmptiesSession(t *testing.T) {
	guest := newMemStore()
	svc := newService(guest, newMemStore())
	ctx := context.Background()
	ref := SessionRef{ID: "s1"}

	_, err := svc.AddItem(ctx, ref, "P1", 3)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, ref))

	cart, err := svc.GetCart(ctx, ref)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}
