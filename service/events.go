package service

import (
	"context"
	"time"

	"github.com/loomline/catalog_end/models"
)

// QuotationEventType names the quotation workflow events the enquiry side
// reacts to.
type QuotationEventType string

const (
	EventQuotationCreated       QuotationEventType = "quotation_created"
	EventQuotationSent          QuotationEventType = "quotation_sent"
	EventQuotationAccepted      QuotationEventType = "quotation_accepted"
	EventQuotationDeclined      QuotationEventType = "quotation_declined"
	EventQuotationStatusChanged QuotationEventType = "quotation_status_changed"
)

// QuotationEvent is emitted by the quotation workflow after its own write
// has succeeded. The enquiry-side effect is applied afterwards; its failure
// is logged and never rolls back the quotation.
type QuotationEvent struct {
	Type        QuotationEventType
	EnquiryID   string
	QuotationID string
	QuotationNo string
	OldStatus   models.QuotationStatus
	NewStatus   models.QuotationStatus
	PerformedBy string
	OccurredAt  time.Time
}

// EnquiryEventSink receives quotation events. The enquiry workflow implements
// it; tests substitute a recorder.
type EnquiryEventSink interface {
	ApplyQuotationEvent(ctx context.Context, event QuotationEvent) error
}
