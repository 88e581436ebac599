package application

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func appliedDraft() *CheckoutDraft {
	draft := &CheckoutDraft{}
	draft.SetContact("0771234567", "12/B Galle Road", "Colombo")
	draft.ApplyPromo("WELCOME10", decimal.RequireFromString("0.10"), decimal.NewFromInt(100))
	return draft
}

func TestDraftContactEditClearsPromo(t *testing.T) {
	cases := []struct {
		name                      string
		phone, address, district string
	}{
		{"phone edited", "0719999999", "12/B Galle Road", "Colombo"},
		{"address edited", "0771234567", "99 Kandy Road", "Colombo"},
		{"district edited", "0771234567", "12/B Galle Road", "Gampaha"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			draft := appliedDraft()
			invalidated := draft.SetContact(tc.phone, tc.address, tc.district)
			assert.True(t, invalidated)
			assert.False(t, draft.HasPromo())
			assert.True(t, draft.Discount.IsZero())
		})
	}
}

func TestDraftUnchangedContactKeepsPromo(t *testing.T) {
	draft := appliedDraft()
	invalidated := draft.SetContact("0771234567", "12/B Galle Road", "Colombo")
	assert.False(t, invalidated)
	assert.True(t, draft.HasPromo())
	assert.Equal(t, "WELCOME10", draft.PromoCode)
}

func TestDraftEditWithoutPromoIsQuiet(t *testing.T) {
	draft := &CheckoutDraft{}
	draft.SetContact("0771234567", "12/B Galle Road", "Colombo")
	invalidated := draft.SetContact("0719999999", "12/B Galle Road", "Colombo")
	assert.False(t, invalidated)
}
