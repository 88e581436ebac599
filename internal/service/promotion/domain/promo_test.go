package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *PromoTable {
	rate, _ := decimal.NewFromString("0.10")
	return NewPromoTable([]PromoCode{
		{Code: "WELCOME10", Rate: rate},
		{Code: "BABYLOVE", Rate: rate, Rule: "subtotal >= 1500.0"},
	})
}

func TestLookupNormalizesInput(t *testing.T) {
	table := testTable()

	for _, input := range []string{"WELCOME10", "welcome10", "  Welcome10  "} {
		c, err := table.Lookup(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, "WELCOME10", c.Code)
	}
}

func TestLookupUnknownCode(t *testing.T) {
	_, err := testTable().Lookup("NOPE")
	assert.ErrorIs(t, err, ErrPromoInvalid)
}

func TestNormalizeKeyStripsNonAlphanumerics(t *testing.T) {
	cases := map[string]string{
		"077-123 4567":            "0771234567",
		"No. 12/B, Galle Road":    "no12bgalleroad",
		"  NO.12/b GALLE road   ": "no12bgalleroad",
		"+94 77 123 4567":         "94771234567",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeKey(input), "input %q", input)
	}
}

func TestNormalizeKeyMatchesEquivalentAddresses(t *testing.T) {
	// 同一个地址的不同写法必须归一到同一个台账键
	a := NormalizeKey("12/B Galle Road, Colombo 03")
	b := NormalizeKey("12 B GALLE ROAD COLOMBO 03")
	assert.Equal(t, a, b)
}

func TestFeeScheduleTiers(t *testing.T) {
	schedule := NewFeeSchedule(map[string]int64{"colombo": 300}, 400, "note")

	assert.True(t, schedule.FeeFor("Colombo").Equal(decimal.NewFromInt(300)))
	assert.True(t, schedule.FeeFor("colombo ").Equal(decimal.NewFromInt(300)))
	// 认不出的地区按默认档收，不会漏收
	assert.True(t, schedule.FeeFor("Jaffna").Equal(decimal.NewFromInt(400)))
	assert.True(t, schedule.FeeFor("somewhere else").Equal(decimal.NewFromInt(400)))
	// 没选地区是未定状态，不收
	assert.True(t, schedule.FeeFor("").IsZero())
}

func TestComputeTotal(t *testing.T) {
	subtotal := decimal.NewFromInt(1000)
	fee := decimal.NewFromInt(300)

	total := ComputeTotal(subtotal, decimal.Zero, fee)
	assert.Equal(t, "1300.00", total.StringFixed(2))

	rate, _ := decimal.NewFromString("0.10")
	total = ComputeTotal(subtotal, rate, fee)
	assert.Equal(t, "1200.00", total.StringFixed(2))
	assert.Equal(t, "100.00", DiscountAmount(subtotal, rate).StringFixed(2))
}

func TestComputeTotalKeepsPrecisionUntilPresentation(t *testing.T) {
	subtotal := decimal.RequireFromString("999.99")
	rate := decimal.RequireFromString("0.10")
	fee := decimal.NewFromInt(300)

	total := ComputeTotal(subtotal, rate, fee)
	// 内部保留 899.991 + 300，展示时才舍入
	assert.Equal(t, "1199.991", total.String())
	assert.Equal(t, "1199.99", total.StringFixed(2))
}
