package service

import (
	"context"
	"errors"
	"time"

	"github.com/loomline/catalog_end/models"
)

// ErrNotFound is returned by stores when a document does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateKey is returned by stores on a unique-constraint violation.
// Creation may be retried.
var ErrDuplicateKey = errors.New("duplicate key")

// EnquiryPatch is a partial enquiry update. Nil fields are untouched; the
// Push fields append atomically so concurrent appends cannot lose entries.
type EnquiryPatch struct {
	Status            *models.EnquiryStatus
	AssignedTo        *string
	Priority          *models.EnquiryPriority
	FollowUpDate      *time.Time
	PushNote          *models.InternalNote
	PushCommunication *models.Communication
	PushActivity      *models.Activity
	UpdatedAt         time.Time
}

// EnquiryStore persists enquiries.
type EnquiryStore interface {
	Insert(ctx context.Context, enquiry *models.Enquiry) error
	FindByID(ctx context.Context, id string) (*models.Enquiry, error)
	FindByNoAndEmail(ctx context.Context, enquiryNo, email string) (*models.Enquiry, error)
	Update(ctx context.Context, id string, patch EnquiryPatch) error
}

// QuotationPatch is a partial quotation update. Identity fields (number,
// creator, creation time) have no patch slot and can never change.
type QuotationPatch struct {
	Products           *[]models.QuotationProduct
	ValidUntil         *time.Time
	Terms              *string
	Currency           *string
	TaxRate            *float64
	ShippingCost       *float64
	ShippingMethod     *string
	PaymentTerms       *models.PaymentTerms
	CustomPaymentTerms *string
	FollowUpDate       *time.Time
	PDFLink            *string

	Status        *models.QuotationStatus
	SentAt        *time.Time
	SentBy        *string
	AcceptedAt    *time.Time
	DeclinedAt    *time.Time
	DeclineReason *string

	Revision     *int
	PushRevision *models.RevisionRecord
	PushNote     *models.InternalNote

	UpdatedAt time.Time
}

// QuotationStore persists quotations.
type QuotationStore interface {
	Insert(ctx context.Context, quotation *models.Quotation) error
	FindByID(ctx context.Context, id string) (*models.Quotation, error)
	Update(ctx context.Context, id string, patch QuotationPatch) error
}
