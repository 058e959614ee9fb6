package service

import (
	"math"
	"time"

	"github.com/loomline/catalog_end/models"
)

// Pricing is the derived financial summary of a quotation. It is computed on
// every read and never persisted.
type Pricing struct {
	Subtotal        float64 `json:"subtotal"`
	TaxAmount       float64 `json:"taxAmount"`
	TotalAmount     float64 `json:"totalAmount"`
	IsExpired       bool    `json:"isExpired"`
	DaysUntilExpiry int     `json:"daysUntilExpiry"`
}

// LineTotal prices one quotation line after its discount.
func LineTotal(line models.QuotationProduct) float64 {
	discounted := line.UnitPrice * (1 - line.Discount/100)
	return discounted * float64(line.Quantity)
}

// Subtotal sums the discounted line totals.
func Subtotal(products []models.QuotationProduct) float64 {
	total := 0.0
	for _, line := range products {
		total += LineTotal(line)
	}
	return total
}

// TaxAmount applies the tax rate to a subtotal.
func TaxAmount(subtotal, taxRate float64) float64 {
	return subtotal * taxRate / 100
}

// TotalAmount is subtotal plus tax plus shipping.
func TotalAmount(products []models.QuotationProduct, taxRate, shippingCost float64) float64 {
	subtotal := Subtotal(products)
	return subtotal + TaxAmount(subtotal, taxRate) + shippingCost
}

// DaysUntilExpiry counts whole days until validUntil, rounding up. Negative
// once the date has passed.
func DaysUntilExpiry(validUntil, now time.Time) int {
	return int(math.Ceil(validUntil.Sub(now).Hours() / 24))
}

// IsExpired reports whether a sent quotation has passed its validity date.
// An accepted or declined quotation is never expired, whatever the date.
func IsExpired(q *models.Quotation, now time.Time) bool {
	return q.Status == models.QuotationStatusSent && now.After(q.ValidUntil)
}

// PriceQuotation computes the full derived summary for a quotation.
func PriceQuotation(q *models.Quotation, now time.Time) Pricing {
	subtotal := Subtotal(q.Products)
	tax := TaxAmount(subtotal, q.TaxRate)
	return Pricing{
		Subtotal:        subtotal,
		TaxAmount:       tax,
		TotalAmount:     subtotal + tax + q.ShippingCost,
		IsExpired:       IsExpired(q, now),
		DaysUntilExpiry: DaysUntilExpiry(q.ValidUntil, now),
	}
}
