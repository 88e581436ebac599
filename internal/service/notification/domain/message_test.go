package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleEvent() *OrderEvent {
	return &OrderEvent{
		OrderID: "ORD-1756600000000-k3x9q",
		Customer: Customer{
			Name:     "Nadeesha",
			Phone:    "0771234567",
			Address:  "12/B Galle Road",
			District: "Colombo",
		},
		Items: []OrderEventLine{
			{Name: "Baby Carrier", Price: "800.00", Quantity: 1},
			{Name: "Bib Set", Price: "100.00", Quantity: 2},
		},
		Subtotal:  "1000.00",
		PromoCode: "WELCOME10",
		Discount:  "100.00",
		Fee:       "300.00",
		Total:     "1200.00",
		PlacedAt:  time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC),
	}
}

func TestRenderWhatsAppMessage(t *testing.T) {
	msg := RenderWhatsAppMessage(sampleEvent())

	assert.Contains(t, msg, "*Order ID:* ORD-1756600000000-k3x9q")
	assert.Contains(t, msg, "*Customer:* Nadeesha")
	assert.Contains(t, msg, "12/B Galle Road, Colombo")
	assert.Contains(t, msg, "- Baby Carrier x1 = Rs. 800.00")
	assert.Contains(t, msg, "- Bib Set x2 = Rs. 100.00")
	assert.Contains(t, msg, "*Promo (WELCOME10):* -Rs. 100.00")
	assert.Contains(t, msg, "*Total:* Rs. 1200.00")
}

func TestRenderWithoutPromoOmitsDiscountLine(t *testing.T) {
	event := sampleEvent()
	event.PromoCode = ""
	msg := RenderWhatsAppMessage(event)

	assert.NotContains(t, msg, "Promo")
	assert.Contains(t, msg, "*Delivery:* Rs. 300.00")
}

func TestRenderWithoutDistrict(t *testing.T) {
	event := sampleEvent()
	event.Customer.District = ""
	msg := RenderWhatsAppMessage(event)

	assert.Contains(t, msg, "*Address:* 12/B Galle Road\n")
}
