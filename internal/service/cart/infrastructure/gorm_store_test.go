package infrastructure

import (
	"context"
	"fmt"
	"testing"

	"garde/internal/service/cart/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestGormStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	store, err := NewGormStore(db)
	require.NoError(t, err)
	return store
}

func snapshot(productID string, price int64) domain.ProductSnapshot {
	return domain.ProductSnapshot{
		ProductID: productID,
		Name:      "Product " + productID,
		UnitPrice: decimal.NewFromInt(price),
	}
}

func TestGormStoreSaveTwiceSameProduct(t *testing.T) {
	store := newTestGormStore(t)
	ctx := context.Background()

	cart := domain.NewCart("user-1")
	cart.AddItem(snapshot("p1", 800), 1)
	require.NoError(t, store.Save(ctx, cart))

	// 第二次重写同一 (session, product) 行，唯一索引不能挡路
	cart.UpdateQuantity("p1", 3)
	require.NoError(t, store.Save(ctx, cart))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p1", got.Items[0].ProductID)
	assert.Equal(t, 3, got.Items[0].Quantity)
}

func TestGormStoreRemoveLineThenReAdd(t *testing.T) {
	store := newTestGormStore(t)
	ctx := context.Background()

	cart := domain.NewCart("user-2")
	cart.AddItem(snapshot("p1", 800), 1)
	cart.AddItem(snapshot("p2", 100), 2)
	require.NoError(t, store.Save(ctx, cart))

	cart.RemoveItem("p1")
	require.NoError(t, store.Save(ctx, cart))

	cart.AddItem(snapshot("p1", 800), 1)
	require.NoError(t, store.Save(ctx, cart))

	got, err := store.Get(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestGormStoreClearThenReAdd(t *testing.T) {
	store := newTestGormStore(t)
	ctx := context.Background()

	cart := domain.NewCart("user-3")
	cart.AddItem(snapshot("p1", 800), 1)
	require.NoError(t, store.Save(ctx, cart))
	require.NoError(t, store.Clear(ctx, "user-3"))

	got, err := store.Get(ctx, "user-3")
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())

	cart = domain.NewCart("user-3")
	cart.AddItem(snapshot("p1", 800), 2)
	require.NoError(t, store.Save(ctx, cart))

	got, err = store.Get(ctx, "user-3")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
}
