package service

import (
	"testing"
	"time"

	"github.com/loomline/catalog_end/models"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	line := models.QuotationProduct{UnitPrice: 100, Discount: 10, Quantity: 2}
	assert.InDelta(t, 180.0, LineTotal(line), 0.001)

	free := models.QuotationProduct{UnitPrice: 100, Discount: 100, Quantity: 5}
	assert.InDelta(t, 0.0, LineTotal(free), 0.001)

	plain := models.QuotationProduct{UnitPrice: 50, Quantity: 1}
	assert.InDelta(t, 50.0, LineTotal(plain), 0.001)
}

func TestPricingTotals(t *testing.T) {
	products := []models.QuotationProduct{
		{UnitPrice: 100, Discount: 10, Quantity: 2},
		{UnitPrice: 50, Discount: 0, Quantity: 1},
	}

	subtotal := Subtotal(products)
	assert.InDelta(t, 230.0, subtotal, 0.001)
	assert.InDelta(t, 23.0, TaxAmount(subtotal, 10), 0.001)
	assert.InDelta(t, 273.0, TotalAmount(products, 10, 20), 0.001)
}

func TestTotalAmountWithoutTaxOrShipping(t *testing.T) {
	products := []models.QuotationProduct{{UnitPrice: 10, Quantity: 3}}
	assert.InDelta(t, 30.0, TotalAmount(products, 0, 0), 0.001)
}

func TestDaysUntilExpiry(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, DaysUntilExpiry(now.Add(36*time.Hour), now))
	assert.Equal(t, 1, DaysUntilExpiry(now.Add(2*time.Hour), now))
	assert.Equal(t, 0, DaysUntilExpiry(now, now))
	assert.Equal(t, -2, DaysUntilExpiry(now.Add(-48*time.Hour), now))
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	sent := &models.Quotation{Status: models.QuotationStatusSent, ValidUntil: past}
	assert.True(t, IsExpired(sent, now))

	sentFresh := &models.Quotation{Status: models.QuotationStatusSent, ValidUntil: future}
	assert.False(t, IsExpired(sentFresh, now))

	// the date alone never expires a quotation in another state
	for _, status := range []models.QuotationStatus{
		models.QuotationStatusDraft,
		models.QuotationStatusAccepted,
		models.QuotationStatusDeclined,
		models.QuotationStatusExpired,
	} {
		q := &models.Quotation{Status: status, ValidUntil: past}
		assert.False(t, IsExpired(q, now), "status %s", status)
	}
}

func TestPriceQuotation(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	q := &models.Quotation{
		Status: models.QuotationStatusSent,
		Products: []models.QuotationProduct{
			{UnitPrice: 100, Discount: 10, Quantity: 2},
			{UnitPrice: 50, Discount: 0, Quantity: 1},
		},
		TaxRate:      10,
		ShippingCost: 20,
		ValidUntil:   now.Add(72 * time.Hour),
	}

	pricing := PriceQuotation(q, now)
	assert.InDelta(t, 230.0, pricing.Subtotal, 0.001)
	assert.InDelta(t, 23.0, pricing.TaxAmount, 0.001)
	assert.InDelta(t, 273.0, pricing.TotalAmount, 0.001)
	assert.False(t, pricing.IsExpired)
	assert.Equal(t, 3, pricing.DaysUntilExpiry)
}
