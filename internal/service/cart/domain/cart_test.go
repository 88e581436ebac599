package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(id string, price int64) ProductSnapshot {
	return ProductSnapshot{
		ProductID: id,
		Name:      "product-" + id,
		UnitPrice: decimal.NewFromInt(price),
		ImageURL:  "https://img.example/" + id + ".jpg",
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem(snapshot("P1", 500), 2)
	cart.AddItem(snapshot("P1", 500), 3)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.ItemCount())
}

func TestAddItemSnapshotsPriceAtAddTime(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem(snapshot("P1", 500), 1)

	// 目录里涨价后再加购同一商品，车内行保持首次快照价
	raised := snapshot("P1", 700)
	cart.AddItem(raised, 1)

	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].UnitPrice.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem(snapshot("P1", 500), 0)
	cart.AddItem(snapshot("P2", 100), -3)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, 1, cart.Items[1].Quantity)
}

func TestUpdateQuantityOverwrites(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem(snapshot("P1", 500), 2)

	cart.UpdateQuantity("P1", 7)
	assert.Equal(t, 7, cart.Find("P1").Quantity)
}

func TestUpdateQuantityBelowOneIsNoop(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem(snapshot("P1", 500), 2)

	cart.UpdateQuantity("P1", 0)
	cart.UpdateQuantity("P1", -1)

	// 不是删除，也不是归零
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Find("P1").Quantity)
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem(snapshot("P1", 500), 2)

	cart.UpdateQuantity("P9", 5)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Find("P1").Quantity)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem(snapshot("P1", 500), 2)

	assert.NotPanics(t, func() {
		cart.RemoveItem("P9")
		cart.RemoveItem("P1")
		cart.RemoveItem("P1")
	})
	assert.True(t, cart.IsEmpty())
}

func TestSubtotalAndItemCount(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem(snapshot("P1", 500), 2)
	cart.AddItem(snapshot("P2", 150), 3)

	assert.True(t, cart.Subtotal().Equal(decimal.NewFromInt(1450)))
	assert.Equal(t, 5, cart.ItemCount())

	cart.Clear()
	assert.True(t, cart.Subtotal().IsZero())
	assert.Equal(t, 0, cart.ItemCount())
}

func TestNoDuplicateRowsUnderMixedOperations(t *testing.T) {
	cart := NewCart("s1")
	cart.AddItem(snapshot("P1", 500), 1)
	cart.AddItem(snapshot("P2", 200), 2)
	cart.UpdateQuantity("P1", 4)
	cart.RemoveItem("P2")
	cart.AddItem(snapshot("P2", 200), 1)
	cart.AddItem(snapshot("P1", 500), 1)

	seen := map[string]bool{}
	total := 0
	for _, item := range cart.Items {
		assert.False(t, seen[item.ProductID], "duplicate row for %s", item.ProductID)
		seen[item.ProductID] = true
		assert.GreaterOrEqual(t, item.Quantity, 1)
		total += item.Quantity
	}
	assert.Equal(t, total, cart.ItemCount())
}
