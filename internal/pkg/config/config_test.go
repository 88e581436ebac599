package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoRates(t *testing.T) {
	promo := PromoConfig{Codes: []PromoCode{
		{Code: "WELCOME10", Rate: "0.10"},
		{Code: "BABYLOVE", Rate: "0.10", Rule: "subtotal >= 1500.0"},
	}}

	rates, err := promo.Rates()
	require.NoError(t, err)
	assert.Equal(t, "0.1", rates["WELCOME10"].String())
	assert.Equal(t, "0.1", rates["BABYLOVE"].String())
}

func TestPromoRatesInvalidRate(t *testing.T) {
	promo := PromoConfig{Codes: []PromoCode{{Code: "BROKEN", Rate: "ten percent"}}}

	_, err := promo.Rates()
	require.Error(t, err)
	// 报错要点名是哪个码配坏了，方便改配置
	assert.Contains(t, err.Error(), "BROKEN")
}
