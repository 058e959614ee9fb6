package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/loomline/catalog_end/config"
	"github.com/loomline/catalog_end/models"
	"github.com/loomline/catalog_end/utils"
)

// EnquiryService owns the enquiry workflow: creation from the public
// channels, assignment, status changes, notes, communications, and the
// activity trail fed by quotation events.
type EnquiryService struct {
	store     EnquiryStore
	catalog   CatalogGateway
	rules     config.UnitRules
	sequencer Sequencer
	now       Clock
}

// NewEnquiryService creates an EnquiryService.
func NewEnquiryService(store EnquiryStore, catalog CatalogGateway, rules config.UnitRules, sequencer Sequencer, clock Clock) *EnquiryService {
	return &EnquiryService{
		store:     store,
		catalog:   catalog,
		rules:     rules,
		sequencer: sequencer,
		now:       clock,
	}
}

// EnquiryLineInput is one requested product line on a new enquiry.
type EnquiryLineInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Unit      string `json:"unit"`
	Notes     string `json:"notes"`
}

// CreateEnquiryInput is a public enquiry submission.
type CreateEnquiryInput struct {
	CustomerName string             `json:"customerName" binding:"required,max=100"`
	Company      string             `json:"company" binding:"required,max=150"`
	Email        string             `json:"email" binding:"required,email"`
	Phone        string             `json:"phone" binding:"required"`
	Message      string             `json:"message" binding:"required,max=2000"`
	Products     []EnquiryLineInput `json:"products"`
	Source       string             `json:"source"`
	Attachments  []string           `json:"attachments"`
}

// ContactFormInput is a general contact submission without product lines.
type ContactFormInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// UpdateEnquiryInput is a staff patch: any subset of status, assignment,
// priority, follow-up date, and a new internal note.
type UpdateEnquiryInput struct {
	Status       string  `json:"status"`
	AssignedTo   string  `json:"assignedTo"`
	Priority     string  `json:"priority"`
	FollowUpDate *string `json:"followUpDate"`
	InternalNote string  `json:"internalNote"`
}

// CommunicationInput is one logged customer contact.
type CommunicationInput struct {
	Channel   string `json:"type" binding:"required"`
	Subject   string `json:"subject" binding:"required,max=200"`
	Content   string `json:"content" binding:"required,max=2000"`
	Direction string `json:"direction" binding:"required"`
}

// Create registers a public enquiry. At least one product line is required
// on this channel; every referenced product must exist and be active.
func (s *EnquiryService) Create(ctx context.Context, input CreateEnquiryInput) (*models.Enquiry, error) {
	if len(input.Products) == 0 {
		return nil, utils.CreateValidationError("at least one product must be specified in the enquiry")
	}

	source := models.EnquirySource(input.Source)
	if source == "" {
		source = models.EnquirySourceWebsite
	}
	if !models.IsValidEnquirySource(source) {
		return nil, utils.CreateValidationError(fmt.Sprintf("invalid source %q", input.Source))
	}

	lines, err := s.resolveLines(ctx, input.Products)
	if err != nil {
		return nil, err
	}

	attachments := make([]string, 0, len(input.Attachments))
	for _, att := range input.Attachments {
		if strings.TrimSpace(att) != "" {
			attachments = append(attachments, strings.TrimSpace(att))
		}
	}

	enquiry := &models.Enquiry{
		CustomerName:   strings.TrimSpace(input.CustomerName),
		Company:        strings.TrimSpace(input.Company),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:          strings.TrimSpace(input.Phone),
		Message:        strings.TrimSpace(input.Message),
		Products:       lines,
		Attachments:    attachments,
		Source:         source,
		Status:         models.EnquiryStatusNew,
		Priority:       models.EnquiryPriorityMedium,
		InternalNotes:  []models.InternalNote{},
		Communications: []models.Communication{},
		Activities:     []models.Activity{},
	}

	return s.persistNew(ctx, enquiry)
}

// CreateFromContactForm registers a general contact submission as an enquiry
// with no product lines.
func (s *EnquiryService) CreateFromContactForm(ctx context.Context, input ContactFormInput) (*models.Enquiry, error) {
	enquiry := &models.Enquiry{
		CustomerName:   strings.TrimSpace(input.Name),
		Company:        "N/A",
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:          "N/A",
		Message:        fmt.Sprintf("Subject: %s\n\n%s", strings.TrimSpace(input.Subject), strings.TrimSpace(input.Message)),
		Products:       []models.EnquiryProduct{},
		Source:         models.EnquirySourceContactForm,
		Status:         models.EnquiryStatusNew,
		Priority:       models.EnquiryPriorityMedium,
		InternalNotes:  []models.InternalNote{},
		Communications: []models.Communication{},
		Activities:     []models.Activity{},
	}

	return s.persistNew(ctx, enquiry)
}

// persistNew assigns the reference number and inserts. A duplicate reference
// number surfaces as a retryable conflict.
func (s *EnquiryService) persistNew(ctx context.Context, enquiry *models.Enquiry) (*models.Enquiry, error) {
	enquiryNo, err := s.sequencer.Next(ctx, PrefixEnquiry)
	if err != nil {
		utils.LogError(err, map[string]interface{}{"prefix": PrefixEnquiry}, "enquiry number generation failed")
		return nil, utils.CreateInternalError()
	}
	enquiry.EnquiryNo = enquiryNo

	now := s.now()
	enquiry.CreatedAt = now
	enquiry.UpdatedAt = now

	if err := s.store.Insert(ctx, enquiry); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return nil, utils.CreateConflictError("enquiry number already exists, please retry")
		}
		utils.LogError(err, map[string]interface{}{"enquiryNo": enquiryNo}, "enquiry insert failed")
		return nil, utils.CreateInternalError()
	}

	return enquiry, nil
}

// resolveLines validates the requested lines and snapshots product names.
func (s *EnquiryService) resolveLines(ctx context.Context, inputs []EnquiryLineInput) ([]models.EnquiryProduct, error) {
	lines := make([]models.EnquiryProduct, 0, len(inputs))
	for i, line := range inputs {
		if line.ProductID == "" || line.Quantity < 1 {
			return nil, utils.CreateValidationError(fmt.Sprintf("product %d: product id and a quantity of at least 1 are required", i+1))
		}

		product, err := s.catalog.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return nil, utils.CreateNotFoundError(fmt.Sprintf("product with id %s", line.ProductID))
			}
			return nil, err
		}
		if product.Status != models.ProductStatusActive {
			return nil, utils.CreateNotFoundError(fmt.Sprintf("product with id %s", line.ProductID))
		}

		if line.Unit != "" && !s.rules.IsAllowed(product.Category, line.Unit) {
			return nil, s.invalidUnitError(product.Category)
		}

		lines = append(lines, models.EnquiryProduct{
			ProductID:   line.ProductID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
			Notes:       line.Notes,
		})
	}
	return lines, nil
}

func (s *EnquiryService) invalidUnitError(category string) error {
	allowed, _ := s.rules.AllowedUnits(category)
	list, _ := json.Marshal(allowed)
	return utils.CreateValidationError(fmt.Sprintf("invalid unit for category %s. Allowed units: %s", category, list))
}

// GetByID loads an enquiry.
func (s *EnquiryService) GetByID(ctx context.Context, id string) (*models.Enquiry, error) {
	enquiry, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, utils.CreateNotFoundError("enquiry")
		}
		return nil, err
	}
	return enquiry, nil
}

// GetByNoAndEmail is the public status lookup: both the reference number and
// the submitting email must match.
func (s *EnquiryService) GetByNoAndEmail(ctx context.Context, enquiryNo, email string) (*models.Enquiry, error) {
	enquiry, err := s.store.FindByNoAndEmail(ctx, enquiryNo, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, utils.CreateNotFoundError("enquiry")
		}
		return nil, err
	}
	return enquiry, nil
}

// Update applies a staff patch. Setting assignedTo while the enquiry is
// still new advances it to in_review; assignment never demotes a later
// status. Status values are validated against the enum only; staff may move
// an enquiry anywhere in the set.
func (s *EnquiryService) Update(ctx context.Context, id string, input UpdateEnquiryInput, actor string) (*models.Enquiry, error) {
	enquiry, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := EnquiryPatch{UpdatedAt: s.now()}

	if input.Status != "" {
		status := models.EnquiryStatus(input.Status)
		if !models.IsValidEnquiryStatus(status) {
			return nil, utils.CreateValidationError(fmt.Sprintf("invalid status %q", input.Status))
		}
		patch.Status = &status
		enquiry.Status = status
	}

	if input.AssignedTo != "" {
		assignee := input.AssignedTo
		patch.AssignedTo = &assignee
		enquiry.AssignedTo = assignee

		if enquiry.Status == models.EnquiryStatusNew {
			inReview := models.EnquiryStatusInReview
			patch.Status = &inReview
			enquiry.Status = inReview
		}
	}

	if input.Priority != "" {
		priority := models.EnquiryPriority(input.Priority)
		if !models.IsValidEnquiryPriority(priority) {
			return nil, utils.CreateValidationError(fmt.Sprintf("invalid priority %q", input.Priority))
		}
		patch.Priority = &priority
		enquiry.Priority = priority
	}

	if input.FollowUpDate != nil {
		followUp, err := parseDate(*input.FollowUpDate)
		if err != nil {
			return nil, utils.CreateValidationError("invalid followUpDate")
		}
		patch.FollowUpDate = &followUp
		enquiry.FollowUpDate = &followUp
	}

	if strings.TrimSpace(input.InternalNote) != "" {
		note := models.InternalNote{
			Note:    strings.TrimSpace(input.InternalNote),
			AddedBy: actor,
			AddedAt: s.now(),
		}
		patch.PushNote = &note
		enquiry.InternalNotes = append(enquiry.InternalNotes, note)
	}

	if err := s.store.Update(ctx, id, patch); err != nil {
		utils.LogError(err, map[string]interface{}{"enquiryId": id}, "enquiry update failed")
		return nil, utils.CreateInternalError()
	}

	enquiry.UpdatedAt = patch.UpdatedAt
	return enquiry, nil
}

// Assign sets the owner, advancing a new enquiry to in_review.
func (s *EnquiryService) Assign(ctx context.Context, id, userID, actor string) (*models.Enquiry, error) {
	return s.Update(ctx, id, UpdateEnquiryInput{AssignedTo: userID}, actor)
}

// AddInternalNote appends a staff note.
func (s *EnquiryService) AddInternalNote(ctx context.Context, id, note, author string) error {
	if strings.TrimSpace(note) == "" {
		return utils.CreateValidationError("note text is required")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	entry := models.InternalNote{
		Note:    strings.TrimSpace(note),
		AddedBy: author,
		AddedAt: s.now(),
	}
	if err := s.store.Update(ctx, id, EnquiryPatch{PushNote: &entry, UpdatedAt: s.now()}); err != nil {
		utils.LogError(err, map[string]interface{}{"enquiryId": id}, "internal note append failed")
		return utils.CreateInternalError()
	}
	return nil
}

// AddCommunication appends a customer contact record.
func (s *EnquiryService) AddCommunication(ctx context.Context, id string, input CommunicationInput, actor string) (*models.Communication, error) {
	channel := models.CommunicationChannel(input.Channel)
	if !models.IsValidCommunicationChannel(channel) {
		return nil, utils.CreateValidationError(fmt.Sprintf("invalid type %q, must be one of: email, phone, meeting, other", input.Channel))
	}
	direction := models.CommunicationDirection(input.Direction)
	if !models.IsValidCommunicationDirection(direction) {
		return nil, utils.CreateValidationError(fmt.Sprintf("invalid direction %q, must be one of: inbound, outbound", input.Direction))
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	comm := models.Communication{
		Channel:        channel,
		Subject:        strings.TrimSpace(input.Subject),
		Content:        strings.TrimSpace(input.Content),
		Direction:      direction,
		HandledBy:      actor,
		CommunicatedAt: s.now(),
	}
	if err := s.store.Update(ctx, id, EnquiryPatch{PushCommunication: &comm, UpdatedAt: s.now()}); err != nil {
		utils.LogError(err, map[string]interface{}{"enquiryId": id}, "communication append failed")
		return nil, utils.CreateInternalError()
	}
	return &comm, nil
}

// ApplyQuotationEvent records a quotation event on the parent enquiry:
// an activity entry always, a status cascade where the event demands one
// (created → quoted, accepted → closed, declined → rejected).
func (s *EnquiryService) ApplyQuotationEvent(ctx context.Context, event QuotationEvent) error {
	activity := models.Activity{
		PerformedBy: event.PerformedBy,
		PerformedAt: event.OccurredAt,
		Metadata: models.ActivityMetadata{
			QuotationID: event.QuotationID,
			QuotationNo: event.QuotationNo,
			OldStatus:   string(event.OldStatus),
			NewStatus:   string(event.NewStatus),
		},
	}

	var cascade *models.EnquiryStatus
	switch event.Type {
	case EventQuotationCreated:
		activity.Type = models.ActivityQuotationCreated
		activity.Description = fmt.Sprintf("Quotation %s created for this enquiry", event.QuotationNo)
		activity.Metadata.OldStatus = string(models.EnquiryStatusInReview)
		activity.Metadata.NewStatus = string(models.EnquiryStatusQuoted)
		quoted := models.EnquiryStatusQuoted
		cascade = &quoted
	case EventQuotationSent:
		activity.Type = models.ActivityQuotationSent
		activity.Description = fmt.Sprintf("Quotation %s sent to customer", event.QuotationNo)
		activity.Metadata.OldStatus = ""
		activity.Metadata.NewStatus = ""
	case EventQuotationAccepted:
		activity.Type = models.ActivityQuotationAccepted
		activity.Description = fmt.Sprintf("Quotation %s was accepted by customer", event.QuotationNo)
		closed := models.EnquiryStatusClosed
		cascade = &closed
	case EventQuotationDeclined:
		activity.Type = models.ActivityQuotationRejected
		activity.Description = fmt.Sprintf("Quotation %s was rejected by customer", event.QuotationNo)
		rejected := models.EnquiryStatusRejected
		cascade = &rejected
	case EventQuotationStatusChanged:
		activity.Type = models.ActivityStatusUpdated
		activity.Description = fmt.Sprintf("Quotation %s status updated from %s to %s", event.QuotationNo, event.OldStatus, event.NewStatus)
	default:
		return utils.CreateValidationError(fmt.Sprintf("unknown quotation event %q", event.Type))
	}

	patch := EnquiryPatch{
		PushActivity: &activity,
		Status:       cascade,
		UpdatedAt:    s.now(),
	}
	return s.store.Update(ctx, event.EnquiryID, patch)
}
