package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuotationStatus is the quotation workflow state.
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusDeclined QuotationStatus = "declined"
	QuotationStatusExpired  QuotationStatus = "expired"
)

// PaymentTerms is the agreed payment schedule.
type PaymentTerms string

const (
	PaymentTermsAdvance    PaymentTerms = "advance"
	PaymentTerms30Days     PaymentTerms = "30_days"
	PaymentTerms60Days     PaymentTerms = "60_days"
	PaymentTerms90Days     PaymentTerms = "90_days"
	PaymentTermsOnDelivery PaymentTerms = "on_delivery"
	PaymentTermsCustom     PaymentTerms = "custom"
)

// QuotationProduct is one priced line. Name and unit are snapshots taken at
// quotation time; the unit must belong to the product category's allowed set.
type QuotationProduct struct {
	ProductID    string  `bson:"productId" json:"productId"`
	ProductName  string  `bson:"productName" json:"productName"`
	Quantity     int     `bson:"quantity" json:"quantity"`
	Unit         string  `bson:"unit" json:"unit"`
	UnitPrice    float64 `bson:"unitPrice" json:"unitPrice"`
	DeliveryTime string  `bson:"deliveryTime" json:"deliveryTime"`
	Discount     float64 `bson:"discount" json:"discount"`
	Notes        string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

// RevisionRecord captures the revision number in force before a product edit.
type RevisionRecord struct {
	RevisionNo int       `bson:"revisionNo" json:"revisionNo"`
	ModifiedAt time.Time `bson:"modifiedAt" json:"modifiedAt"`
	ModifiedBy string    `bson:"modifiedBy" json:"modifiedBy"`
	Changes    string    `bson:"changes" json:"changes"`
}

// Quotation is a priced, time-bound offer issued against an enquiry. The
// customer snapshot is copied from the enquiry at creation and does not track
// later enquiry edits.
type Quotation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	QuotationNo string             `bson:"quotationNo" json:"quotationNo"`
	EnquiryID   string             `bson:"enquiryId" json:"enquiryId"`

	CustomerName string `bson:"customerName" json:"customerName"`
	Company      string `bson:"company" json:"company"`
	Email        string `bson:"email" json:"email"`

	Products []QuotationProduct `bson:"products" json:"products"`

	ValidUntil time.Time `bson:"validUntil" json:"validUntil"`
	Terms      string    `bson:"terms" json:"terms"`
	PDFLink    string    `bson:"pdfLink,omitempty" json:"pdfLink,omitempty"`

	Status    QuotationStatus `bson:"status" json:"status"`
	CreatedBy string          `bson:"createdBy" json:"createdBy"`

	Currency           string       `bson:"currency" json:"currency"`
	TaxRate            float64      `bson:"taxRate" json:"taxRate"`
	ShippingCost       float64      `bson:"shippingCost" json:"shippingCost"`
	ShippingMethod     string       `bson:"shippingMethod,omitempty" json:"shippingMethod,omitempty"`
	PaymentTerms       PaymentTerms `bson:"paymentTerms" json:"paymentTerms"`
	CustomPaymentTerms string       `bson:"customPaymentTerms,omitempty" json:"customPaymentTerms,omitempty"`

	Revision          int              `bson:"revision" json:"revision"`
	PreviousRevisions []RevisionRecord `bson:"previousRevisions" json:"previousRevisions"`

	SentAt        *time.Time `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	SentBy        string     `bson:"sentBy,omitempty" json:"sentBy,omitempty"`
	ViewedAt      *time.Time `bson:"viewedAt,omitempty" json:"viewedAt,omitempty"`
	AcceptedAt    *time.Time `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	DeclinedAt    *time.Time `bson:"declinedAt,omitempty" json:"declinedAt,omitempty"`
	DeclineReason string     `bson:"declineReason,omitempty" json:"declineReason,omitempty"`

	FollowUpDate *time.Time `bson:"followUpDate,omitempty" json:"followUpDate,omitempty"`

	InternalNotes []InternalNote `bson:"internalNotes" json:"internalNotes"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ResponseTime counts whole days between sending and the customer's answer.
// Returns false when no answer has been recorded.
func (q *Quotation) ResponseTime() (int, bool) {
	if q.SentAt == nil || (q.AcceptedAt == nil && q.DeclinedAt == nil) {
		return 0, false
	}
	responded := q.AcceptedAt
	if responded == nil {
		responded = q.DeclinedAt
	}
	diff := responded.Sub(*q.SentAt)
	return int((diff + 24*time.Hour - 1) / (24 * time.Hour)), true
}

// IsValidQuotationStatus reports whether the value is a known status.
func IsValidQuotationStatus(s QuotationStatus) bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted,
		QuotationStatusDeclined, QuotationStatusExpired:
		return true
	}
	return false
}

// IsValidPaymentTerms reports whether the value is a known payment schedule.
func IsValidPaymentTerms(p PaymentTerms) bool {
	switch p {
	case PaymentTermsAdvance, PaymentTerms30Days, PaymentTerms60Days,
		PaymentTerms90Days, PaymentTermsOnDelivery, PaymentTermsCustom:
		return true
	}
	return false
}
