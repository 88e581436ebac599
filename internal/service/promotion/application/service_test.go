package application

import (
	"context"
	"testing"

	"garde/internal/service/promotion/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

type fakeLedger struct {
	used       map[string]bool // key: code + "|" + normalized phone/address
	checkCalls int
	records    []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{used: map[string]bool{}}
}

func (f *fakeLedger) HasUsage(_ context.Context, phone, address, code string) (bool, error) {
	f.checkCalls++
	return f.used[code+"|"+domain.NormalizeKey(phone)] || f.used[code+"|"+domain.NormalizeKey(address)], nil
}

func (f *fakeLedger) Record(_ context.Context, phone, address, code string) error {
	f.used[code+"|"+domain.NormalizeKey(phone)] = true
	f.used[code+"|"+domain.NormalizeKey(address)] = true
	f.records = append(f.records, code)
	return nil
}

type passthroughRules struct{}

func (passthroughRules) Evaluate(rule string, fact domain.Fact) (bool, error) {
	if rule == "" {
		return true, nil
	}
	return fact.Subtotal >= 1500, nil
}

func newTestService(ledger domain.UsageLedger) *PromotionService {
	rate := decimal.RequireFromString("0.10")
	table := domain.NewPromoTable([]domain.PromoCode{
		{Code: "WELCOME10", Rate: rate},
		{Code: "BABYLOVE", Rate: rate, Rule: "subtotal >= 1500.0"},
	})
	schedule := domain.NewFeeSchedule(map[string]int64{"colombo": 300}, 400, "note")
	return NewPromotionService(table, schedule, ledger, passthroughRules{}, otel.Tracer("test"))
}

func verifyReq(code string, subtotal int64) *VerifyRequest {
	return &VerifyRequest{
		Phone:    "0771234567",
		Address:  "12/B Galle Road, Colombo",
		District: "Colombo",
		Code:     code,
		Subtotal: decimal.NewFromInt(subtotal),
	}
}

func TestVerifyPromoSuccess(t *testing.T) {
	svc := newTestService(newFakeLedger())

	result, err := svc.VerifyPromo(context.Background(), verifyReq("WELCOME10", 1000))
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", result.Code)
	assert.Equal(t, "100.00", result.Discount.StringFixed(2))
}

func TestVerifyPromoBlankPrerequisitesFailFast(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)

	for _, req := range []*VerifyRequest{
		{Phone: "", Address: "addr", Code: "WELCOME10", Subtotal: decimal.NewFromInt(1000)},
		{Phone: "077", Address: "   ", Code: "WELCOME10", Subtotal: decimal.NewFromInt(1000)},
	} {
		_, err := svc.VerifyPromo(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrMissingPrerequisite)
	}
	// 先决条件不满足时不允许打台账查询
	assert.Zero(t, ledger.checkCalls)
}

func TestVerifyPromoInvalidCode(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)

	_, err := svc.VerifyPromo(context.Background(), verifyReq("BOGUS", 1000))
	assert.ErrorIs(t, err, domain.ErrPromoInvalid)
	assert.Zero(t, ledger.checkCalls, "invalid code must not reach the ledger")
}

func TestVerifyPromoRuleNotMet(t *testing.T) {
	svc := newTestService(newFakeLedger())

	_, err := svc.VerifyPromo(context.Background(), verifyReq("BABYLOVE", 1000))
	assert.ErrorIs(t, err, domain.ErrPromoNotApplicable)

	result, err := svc.VerifyPromo(context.Background(), verifyReq("BABYLOVE", 2000))
	require.NoError(t, err)
	assert.Equal(t, "200.00", result.Discount.StringFixed(2))
}

func TestVerifyPromoReplayByPhoneOrAddress(t *testing.T) {
	ledger := newFakeLedger()
	svc := newTestService(ledger)
	ctx := context.Background()

	result, err := svc.VerifyPromo(ctx, verifyReq("WELCOME10", 1000))
	require.NoError(t, err)
	require.NoError(t, svc.RecordUsage(ctx, "0771234567", "12/B Galle Road, Colombo", result.Code))

	// 同手机号、不同地址：仍然算用过
	req := verifyReq("WELCOME10", 1000)
	req.Address = "99 Kandy Road"
	_, err = svc.VerifyPromo(ctx, req)
	assert.ErrorIs(t, err, domain.ErrPromoAlreadyUsed)

	// 同地址、不同手机号、地址写法不同：也算用过
	req = verifyReq("WELCOME10", 1000)
	req.Phone = "0719999999"
	req.Address = "12 B GALLE ROAD colombo"
	_, err = svc.VerifyPromo(ctx, req)
	assert.ErrorIs(t, err, domain.ErrPromoAlreadyUsed)
}

func TestDeliveryFee(t *testing.T) {
	svc := newTestService(newFakeLedger())

	fee, _ := svc.DeliveryFee("Colombo")
	assert.Equal(t, "300.00", fee.StringFixed(2))
	fee, _ = svc.DeliveryFee("Matara")
	assert.Equal(t, "400.00", fee.StringFixed(2))
	fee, _ = svc.DeliveryFee("")
	assert.True(t, fee.IsZero())
}
