package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnquiryStatus is the enquiry workflow state.
type EnquiryStatus string

const (
	EnquiryStatusNew      EnquiryStatus = "new"
	EnquiryStatusInReview EnquiryStatus = "in_review"
	EnquiryStatusQuoted   EnquiryStatus = "quoted"
	EnquiryStatusApproved EnquiryStatus = "approved"
	EnquiryStatusRejected EnquiryStatus = "rejected"
	EnquiryStatusClosed   EnquiryStatus = "closed"
)

// EnquiryPriority ranks enquiries for staff triage.
type EnquiryPriority string

const (
	EnquiryPriorityLow    EnquiryPriority = "low"
	EnquiryPriorityMedium EnquiryPriority = "medium"
	EnquiryPriorityHigh   EnquiryPriority = "high"
	EnquiryPriorityUrgent EnquiryPriority = "urgent"
)

// EnquirySource records which channel the enquiry arrived through.
type EnquirySource string

const (
	EnquirySourceWebsite     EnquirySource = "website"
	EnquirySourceEmail       EnquirySource = "email"
	EnquirySourcePhone       EnquirySource = "phone"
	EnquirySourceReferral    EnquirySource = "referral"
	EnquirySourceTradeShow   EnquirySource = "trade_show"
	EnquirySourceContactForm EnquirySource = "contact_form"
	EnquirySourceScript      EnquirySource = "script"
	EnquirySourceOther       EnquirySource = "other"
)

// ActivityType classifies entries in an enquiry's activity trail.
type ActivityType string

const (
	ActivityQuotationCreated  ActivityType = "quotation_created"
	ActivityQuotationSent     ActivityType = "quotation_sent"
	ActivityQuotationAccepted ActivityType = "quotation_accepted"
	ActivityQuotationRejected ActivityType = "quotation_rejected"
	ActivityStatusUpdated     ActivityType = "status_updated"
	ActivityOther             ActivityType = "other"
)

// CommunicationChannel is the medium of a logged customer contact.
type CommunicationChannel string

const (
	CommunicationEmail   CommunicationChannel = "email"
	CommunicationPhone   CommunicationChannel = "phone"
	CommunicationMeeting CommunicationChannel = "meeting"
	CommunicationOther   CommunicationChannel = "other"
)

// CommunicationDirection distinguishes inbound from outbound contacts.
type CommunicationDirection string

const (
	DirectionInbound  CommunicationDirection = "inbound"
	DirectionOutbound CommunicationDirection = "outbound"
)

// EnquiryProduct is one requested product line, snapshotting the product
// name at enquiry time.
type EnquiryProduct struct {
	ProductID   string `bson:"productId" json:"productId"`
	ProductName string `bson:"productName" json:"productName"`
	Quantity    int    `bson:"quantity" json:"quantity"`
	Unit        string `bson:"unit,omitempty" json:"unit,omitempty"`
	Notes       string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// InternalNote is one append-only staff note.
type InternalNote struct {
	Note    string    `bson:"note" json:"note"`
	AddedBy string    `bson:"addedBy" json:"addedBy"`
	AddedAt time.Time `bson:"addedAt" json:"addedAt"`
}

// Communication is one logged customer contact.
type Communication struct {
	Channel        CommunicationChannel   `bson:"type" json:"type"`
	Subject        string                 `bson:"subject" json:"subject"`
	Content        string                 `bson:"content" json:"content"`
	Direction      CommunicationDirection `bson:"direction" json:"direction"`
	HandledBy      string                 `bson:"handledBy,omitempty" json:"handledBy,omitempty"`
	CommunicatedAt time.Time              `bson:"communicatedAt" json:"communicatedAt"`
}

// ActivityMetadata links an activity entry to the quotation it concerns.
// The quotation reference is for display only, never for cascades.
type ActivityMetadata struct {
	QuotationID string `bson:"quotationId,omitempty" json:"quotationId,omitempty"`
	QuotationNo string `bson:"quotationNo,omitempty" json:"quotationNo,omitempty"`
	OldStatus   string `bson:"oldStatus,omitempty" json:"oldStatus,omitempty"`
	NewStatus   string `bson:"newStatus,omitempty" json:"newStatus,omitempty"`
}

// Activity is one audit-trail entry. Activities are written by the quotation
// workflow and status handlers only, never directly by clients.
type Activity struct {
	Type        ActivityType     `bson:"type" json:"type"`
	Description string           `bson:"description" json:"description"`
	PerformedBy string           `bson:"performedBy" json:"performedBy"`
	PerformedAt time.Time        `bson:"performedAt" json:"performedAt"`
	Metadata    ActivityMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// Enquiry is a customer's request for pricing/availability. The enquiry
// number is assigned once at first persistence and never mutated.
type Enquiry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	EnquiryNo    string             `bson:"enquiryNo" json:"enquiryNo"`
	CustomerName string             `bson:"customerName" json:"customerName"`
	Company      string             `bson:"company" json:"company"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	Message      string             `bson:"message" json:"message"`

	Products    []EnquiryProduct `bson:"products" json:"products"`
	Attachments []string         `bson:"attachments,omitempty" json:"attachments,omitempty"`

	Status       EnquiryStatus   `bson:"status" json:"status"`
	AssignedTo   string          `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Priority     EnquiryPriority `bson:"priority" json:"priority"`
	Source       EnquirySource   `bson:"source" json:"source"`
	FollowUpDate *time.Time      `bson:"followUpDate,omitempty" json:"followUpDate,omitempty"`

	InternalNotes  []InternalNote  `bson:"internalNotes" json:"internalNotes"`
	Communications []Communication `bson:"communications" json:"communications"`
	Activities     []Activity      `bson:"activities" json:"activities"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TotalQuantity sums the quantities across all product lines.
func (e *Enquiry) TotalQuantity() int {
	total := 0
	for _, p := range e.Products {
		total += p.Quantity
	}
	return total
}

// DaysSinceEnquiry counts whole days since creation, rounding up.
func (e *Enquiry) DaysSinceEnquiry(now time.Time) int {
	diff := now.Sub(e.CreatedAt)
	if diff < 0 {
		diff = -diff
	}
	return int((diff + 24*time.Hour - 1) / (24 * time.Hour))
}

// IsOverdue reports whether the follow-up date has passed while the enquiry
// is still in review.
func (e *Enquiry) IsOverdue(now time.Time) bool {
	if e.FollowUpDate == nil {
		return false
	}
	return now.After(*e.FollowUpDate) && e.Status == EnquiryStatusInReview
}

// IsValidEnquiryStatus reports whether the value is a known status.
func IsValidEnquiryStatus(s EnquiryStatus) bool {
	switch s {
	case EnquiryStatusNew, EnquiryStatusInReview, EnquiryStatusQuoted,
		EnquiryStatusApproved, EnquiryStatusRejected, EnquiryStatusClosed:
		return true
	}
	return false
}

// IsValidEnquiryPriority reports whether the value is a known priority.
func IsValidEnquiryPriority(p EnquiryPriority) bool {
	switch p {
	case EnquiryPriorityLow, EnquiryPriorityMedium, EnquiryPriorityHigh, EnquiryPriorityUrgent:
		return true
	}
	return false
}

// IsValidEnquirySource reports whether the value is a known source.
func IsValidEnquirySource(s EnquirySource) bool {
	switch s {
	case EnquirySourceWebsite, EnquirySourceEmail, EnquirySourcePhone,
		EnquirySourceReferral, EnquirySourceTradeShow, EnquirySourceContactForm,
		EnquirySourceScript, EnquirySourceOther:
		return true
	}
	return false
}

// IsValidCommunicationChannel reports whether the value is a known channel.
func IsValidCommunicationChannel(ch CommunicationChannel) bool {
	switch ch {
	case CommunicationEmail, CommunicationPhone, CommunicationMeeting, CommunicationOther:
		return true
	}
	return false
}

// IsValidCommunicationDirection reports whether the value is a known direction.
func IsValidCommunicationDirection(d CommunicationDirection) bool {
	return d == DirectionInbound || d == DirectionOutbound
}
