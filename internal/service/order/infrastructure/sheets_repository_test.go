package infrastructure

import (
	"testing"

	"garde/internal/service/order/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsCellRoundTrip(t *testing.T) {
	lines := []domain.OrderLine{
		{Name: "Baby Carrier", Price: decimal.NewFromInt(800), Quantity: 1},
		{Name: "Bib Set", Price: decimal.RequireFromString("149.50"), Quantity: 2},
	}

	cell := formatItems(lines)
	assert.Equal(t, "Baby Carrier x 1 @ 800.00; Bib Set x 2 @ 149.50", cell)

	parsed := parseItems(cell)
	require.Len(t, parsed, 2)
	assert.Equal(t, "Baby Carrier", parsed[0].Name)
	assert.Equal(t, 2, parsed[1].Quantity)
	assert.Equal(t, "149.50", parsed[1].Price.StringFixed(2))
}

func TestParseItemsSkipsMalformedParts(t *testing.T) {
	parsed := parseItems("garbage; Bib Set x 2 @ 100.00")
	require.Len(t, parsed, 1)
	assert.Equal(t, "Bib Set", parsed[0].Name)
}

func TestParseAmountToleratesDirtyCells(t *testing.T) {
	assert.Equal(t, "100.00", parseAmount(" 100 ").StringFixed(2))
	assert.True(t, parseAmount("n/a").IsZero())
	assert.True(t, parseAmount("").IsZero())
}
