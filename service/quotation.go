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

// quotationCurrencies is the accepted currency set.
var quotationCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"INR": true,
	"GBP": true,
}

// QuotationService owns the quotation workflow: creation from an enquiry,
// patching with revision tracking, sending, accepting, declining, and lazy
// expiry. After each successful quotation write the matching event is handed
// to the enquiry sink; a sink failure is logged and never rolls the
// quotation back.
type QuotationService struct {
	store     QuotationStore
	enquiries EnquiryStore
	sink      EnquiryEventSink
	catalog   CatalogGateway
	rules     config.UnitRules
	sequencer Sequencer
	now       Clock
}

// NewQuotationService creates a QuotationService.
func NewQuotationService(store QuotationStore, enquiries EnquiryStore, sink EnquiryEventSink, catalog CatalogGateway, rules config.UnitRules, sequencer Sequencer, clock Clock) *QuotationService {
	return &QuotationService{
		store:     store,
		enquiries: enquiries,
		sink:      sink,
		catalog:   catalog,
		rules:     rules,
		sequencer: sequencer,
		now:       clock,
	}
}

// QuotationLineInput is one priced line on a create or patch request.
type QuotationLineInput struct {
	ProductID    string  `json:"productId" binding:"required"`
	Quantity     int     `json:"quantity" binding:"required,min=1"`
	Unit         string  `json:"unit"`
	UnitPrice    float64 `json:"unitPrice"`
	DeliveryTime string  `json:"deliveryTime"`
	Discount     float64 `json:"discount"`
	Notes        string  `json:"notes"`
}

// CreateQuotationInput creates a quotation against an enquiry.
type CreateQuotationInput struct {
	EnquiryID          string               `json:"enquiryId" binding:"required"`
	Products           []QuotationLineInput `json:"products"`
	ValidUntil         string               `json:"validUntil" binding:"required"`
	Terms              string               `json:"terms" binding:"required,max=3000"`
	Currency           string               `json:"currency"`
	TaxRate            float64              `json:"taxRate"`
	ShippingCost       float64              `json:"shippingCost"`
	ShippingMethod     string               `json:"shippingMethod"`
	PaymentTerms       string               `json:"paymentTerms"`
	CustomPaymentTerms string               `json:"customPaymentTerms"`
}

// UpdateQuotationInput is a staff patch. Identity fields are immutable and
// have no slot here.
type UpdateQuotationInput struct {
	Products           []QuotationLineInput `json:"products"`
	ValidUntil         *string              `json:"validUntil"`
	Terms              *string              `json:"terms"`
	Currency           *string              `json:"currency"`
	TaxRate            *float64             `json:"taxRate"`
	ShippingCost       *float64             `json:"shippingCost"`
	ShippingMethod     *string              `json:"shippingMethod"`
	PaymentTerms       *string              `json:"paymentTerms"`
	CustomPaymentTerms *string              `json:"customPaymentTerms"`
	FollowUpDate       *string              `json:"followUpDate"`
	Status             *string              `json:"status"`
	DeclineReason      *string              `json:"declineReason"`
	InternalNote       *string              `json:"internalNote"`
}

// Create issues a new draft quotation against an existing enquiry. Every
// line's unit is validated against the product category's allowed set and
// the product name is snapshotted. The parent enquiry moves to quoted via
// the created event.
func (s *QuotationService) Create(ctx context.Context, input CreateQuotationInput, actor string) (*models.Quotation, error) {
	enquiry, err := s.enquiries.FindByID(ctx, input.EnquiryID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, utils.CreateNotFoundError("enquiry")
		}
		return nil, err
	}

	if len(input.Products) == 0 {
		return nil, utils.CreateValidationError("at least one product line is required")
	}

	lines, err := s.resolveLines(ctx, input.Products)
	if err != nil {
		return nil, err
	}

	validUntil, err := parseDate(input.ValidUntil)
	if err != nil {
		return nil, utils.CreateValidationError("invalid validUntil date")
	}
	if strings.TrimSpace(input.Terms) == "" {
		return nil, utils.CreateValidationError("terms are required")
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	if !quotationCurrencies[currency] {
		return nil, utils.CreateValidationError(fmt.Sprintf("invalid currency %q", currency))
	}
	if input.TaxRate < 0 || input.TaxRate > 100 {
		return nil, utils.CreateValidationError("taxRate must be between 0 and 100")
	}
	if input.ShippingCost < 0 {
		return nil, utils.CreateValidationError("shippingCost must not be negative")
	}

	paymentTerms := models.PaymentTerms(input.PaymentTerms)
	if paymentTerms == "" {
		paymentTerms = models.PaymentTerms30Days
	}
	if !models.IsValidPaymentTerms(paymentTerms) {
		return nil, utils.CreateValidationError(fmt.Sprintf("invalid payment terms %q", input.PaymentTerms))
	}

	quotationNo, err := s.sequencer.Next(ctx, PrefixQuotation)
	if err != nil {
		utils.LogError(err, map[string]interface{}{"prefix": PrefixQuotation}, "quotation number generation failed")
		return nil, utils.CreateInternalError()
	}

	now := s.now()
	quotation := &models.Quotation{
		QuotationNo:        quotationNo,
		EnquiryID:          input.EnquiryID,
		CustomerName:       enquiry.CustomerName,
		Company:            enquiry.Company,
		Email:              enquiry.Email,
		Products:           lines,
		ValidUntil:         validUntil,
		Terms:              strings.TrimSpace(input.Terms),
		Status:             models.QuotationStatusDraft,
		CreatedBy:          actor,
		Currency:           currency,
		TaxRate:            input.TaxRate,
		ShippingCost:       input.ShippingCost,
		ShippingMethod:     input.ShippingMethod,
		PaymentTerms:       paymentTerms,
		CustomPaymentTerms: input.CustomPaymentTerms,
		Revision:           1,
		PreviousRevisions:  []models.RevisionRecord{},
		InternalNotes:      []models.InternalNote{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.store.Insert(ctx, quotation); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return nil, utils.CreateConflictError("quotation number already exists, please retry")
		}
		utils.LogError(err, map[string]interface{}{"quotationNo": quotationNo}, "quotation insert failed")
		return nil, utils.CreateInternalError()
	}

	s.emit(ctx, QuotationEvent{
		Type:        EventQuotationCreated,
		EnquiryID:   quotation.EnquiryID,
		QuotationID: quotation.ID.Hex(),
		QuotationNo: quotation.QuotationNo,
		NewStatus:   models.QuotationStatusDraft,
		PerformedBy: actor,
		OccurredAt:  now,
	})

	return quotation, nil
}

// Get loads a quotation, lazily coercing a sent quotation past its validity
// date to expired. The coercion is persisted best-effort.
func (s *QuotationService) Get(ctx context.Context, id string) (*models.Quotation, error) {
	quotation, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, utils.CreateNotFoundError("quotation")
		}
		return nil, err
	}

	s.applyLazyExpiry(ctx, quotation)
	return quotation, nil
}

// applyLazyExpiry coerces sent-and-past-validity to expired. The read result
// is authoritative even when persisting the coercion fails.
func (s *QuotationService) applyLazyExpiry(ctx context.Context, quotation *models.Quotation) {
	if !IsExpired(quotation, s.now()) {
		return
	}

	expired := models.QuotationStatusExpired
	quotation.Status = expired
	patch := QuotationPatch{Status: &expired, UpdatedAt: s.now()}
	if err := s.store.Update(ctx, quotation.ID.Hex(), patch); err != nil {
		utils.LogError(err, map[string]interface{}{"quotationId": quotation.ID.Hex()}, "expiry persist failed")
	}
}

// Update applies a staff patch. A products change re-validates every line,
// appends a revision record carrying the pre-update revision number, and
// increments the revision. A status change emits the matching event.
func (s *QuotationService) Update(ctx context.Context, id string, input UpdateQuotationInput, actor string) (*models.Quotation, error) {
	quotation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	patch := QuotationPatch{UpdatedAt: now}

	if input.Products != nil {
		if len(input.Products) == 0 {
			return nil, utils.CreateValidationError("at least one product line is required")
		}
		lines, err := s.resolveLines(ctx, input.Products)
		if err != nil {
			return nil, err
		}

		revision := models.RevisionRecord{
			RevisionNo: quotation.Revision,
			ModifiedAt: now,
			ModifiedBy: actor,
			Changes:    "Products modified",
		}
		next := quotation.Revision + 1

		patch.Products = &lines
		patch.PushRevision = &revision
		patch.Revision = &next

		quotation.Products = lines
		quotation.PreviousRevisions = append(quotation.PreviousRevisions, revision)
		quotation.Revision = next
	}

	if input.ValidUntil != nil {
		validUntil, err := parseDate(*input.ValidUntil)
		if err != nil {
			return nil, utils.CreateValidationError("invalid validUntil date")
		}
		patch.ValidUntil = &validUntil
		quotation.ValidUntil = validUntil
	}
	if input.Terms != nil {
		terms := strings.TrimSpace(*input.Terms)
		if terms == "" {
			return nil, utils.CreateValidationError("terms are required")
		}
		patch.Terms = &terms
		quotation.Terms = terms
	}
	if input.Currency != nil {
		if !quotationCurrencies[*input.Currency] {
			return nil, utils.CreateValidationError(fmt.Sprintf("invalid currency %q", *input.Currency))
		}
		patch.Currency = input.Currency
		quotation.Currency = *input.Currency
	}
	if input.TaxRate != nil {
		if *input.TaxRate < 0 || *input.TaxRate > 100 {
			return nil, utils.CreateValidationError("taxRate must be between 0 and 100")
		}
		patch.TaxRate = input.TaxRate
		quotation.TaxRate = *input.TaxRate
	}
	if input.ShippingCost != nil {
		if *input.ShippingCost < 0 {
			return nil, utils.CreateValidationError("shippingCost must not be negative")
		}
		patch.ShippingCost = input.ShippingCost
		quotation.ShippingCost = *input.ShippingCost
	}
	if input.ShippingMethod != nil {
		patch.ShippingMethod = input.ShippingMethod
		quotation.ShippingMethod = *input.ShippingMethod
	}
	if input.PaymentTerms != nil {
		paymentTerms := models.PaymentTerms(*input.PaymentTerms)
		if !models.IsValidPaymentTerms(paymentTerms) {
			return nil, utils.CreateValidationError(fmt.Sprintf("invalid payment terms %q", *input.PaymentTerms))
		}
		patch.PaymentTerms = &paymentTerms
		quotation.PaymentTerms = paymentTerms
	}
	if input.CustomPaymentTerms != nil {
		patch.CustomPaymentTerms = input.CustomPaymentTerms
		quotation.CustomPaymentTerms = *input.CustomPaymentTerms
	}
	if input.FollowUpDate != nil {
		followUp, err := parseDate(*input.FollowUpDate)
		if err != nil {
			return nil, utils.CreateValidationError("invalid followUpDate")
		}
		patch.FollowUpDate = &followUp
		quotation.FollowUpDate = &followUp
	}
	if input.InternalNote != nil && strings.TrimSpace(*input.InternalNote) != "" {
		note := models.InternalNote{
			Note:    strings.TrimSpace(*input.InternalNote),
			AddedBy: actor,
			AddedAt: now,
		}
		patch.PushNote = &note
		quotation.InternalNotes = append(quotation.InternalNotes, note)
	}

	oldStatus := quotation.Status
	statusChanged := false
	if input.Status != nil {
		status := models.QuotationStatus(*input.Status)
		if !models.IsValidQuotationStatus(status) {
			return nil, utils.CreateValidationError(fmt.Sprintf("invalid status %q", *input.Status))
		}
		if status != quotation.Status {
			statusChanged = true
			patch.Status = &status
			switch status {
			case models.QuotationStatusAccepted:
				patch.AcceptedAt = &now
				quotation.AcceptedAt = &now
			case models.QuotationStatusDeclined:
				patch.DeclinedAt = &now
				quotation.DeclinedAt = &now
				if input.DeclineReason != nil {
					patch.DeclineReason = input.DeclineReason
					quotation.DeclineReason = *input.DeclineReason
				}
			}
			quotation.Status = status
		}
	}

	if err := s.store.Update(ctx, id, patch); err != nil {
		utils.LogError(err, map[string]interface{}{"quotationId": id}, "quotation update failed")
		return nil, utils.CreateInternalError()
	}
	quotation.UpdatedAt = now

	if statusChanged {
		event := QuotationEvent{
			EnquiryID:   quotation.EnquiryID,
			QuotationID: quotation.ID.Hex(),
			QuotationNo: quotation.QuotationNo,
			OldStatus:   oldStatus,
			NewStatus:   quotation.Status,
			PerformedBy: actor,
			OccurredAt:  now,
		}
		switch quotation.Status {
		case models.QuotationStatusAccepted:
			event.Type = EventQuotationAccepted
		case models.QuotationStatusDeclined:
			event.Type = EventQuotationDeclined
		default:
			event.Type = EventQuotationStatusChanged
		}
		s.emit(ctx, event)
	}

	return quotation, nil
}

// Send marks a draft quotation as sent. Any other current status fails the
// precondition and leaves the quotation untouched.
func (s *QuotationService) Send(ctx context.Context, id, actor string) (*models.Quotation, error) {
	quotation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if quotation.Status != models.QuotationStatusDraft {
		return nil, utils.CreatePreconditionFailedError("only draft quotations can be sent")
	}

	now := s.now()
	sent := models.QuotationStatusSent
	patch := QuotationPatch{
		Status:    &sent,
		SentAt:    &now,
		SentBy:    &actor,
		UpdatedAt: now,
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		utils.LogError(err, map[string]interface{}{"quotationId": id}, "quotation send failed")
		return nil, utils.CreateInternalError()
	}

	quotation.Status = sent
	quotation.SentAt = &now
	quotation.SentBy = actor
	quotation.UpdatedAt = now

	s.emit(ctx, QuotationEvent{
		Type:        EventQuotationSent,
		EnquiryID:   quotation.EnquiryID,
		QuotationID: quotation.ID.Hex(),
		QuotationNo: quotation.QuotationNo,
		OldStatus:   models.QuotationStatusDraft,
		NewStatus:   sent,
		PerformedBy: actor,
		OccurredAt:  now,
	})

	return quotation, nil
}

// Accept records the customer's acceptance.
func (s *QuotationService) Accept(ctx context.Context, id, actor string) (*models.Quotation, error) {
	accepted := string(models.QuotationStatusAccepted)
	return s.Update(ctx, id, UpdateQuotationInput{Status: &accepted}, actor)
}

// Decline records the customer's refusal with its reason.
func (s *QuotationService) Decline(ctx context.Context, id, reason, actor string) (*models.Quotation, error) {
	declined := string(models.QuotationStatusDeclined)
	return s.Update(ctx, id, UpdateQuotationInput{Status: &declined, DeclineReason: &reason}, actor)
}

// emit hands an event to the enquiry sink. The quotation write is already
// durable at this point, so a sink failure is logged and swallowed.
func (s *QuotationService) emit(ctx context.Context, event QuotationEvent) {
	if err := s.sink.ApplyQuotationEvent(ctx, event); err != nil {
		utils.LogError(err, map[string]interface{}{
			"event":       string(event.Type),
			"enquiryId":   event.EnquiryID,
			"quotationNo": event.QuotationNo,
		}, "enquiry side effect failed")
	}
}

// resolveLines validates every line and snapshots product names. The unit
// must belong to the allowed set for the product's category.
func (s *QuotationService) resolveLines(ctx context.Context, inputs []QuotationLineInput) ([]models.QuotationProduct, error) {
	lines := make([]models.QuotationProduct, 0, len(inputs))
	for i, line := range inputs {
		if line.ProductID == "" || line.Quantity < 1 || strings.TrimSpace(line.DeliveryTime) == "" {
			return nil, utils.CreateValidationError(fmt.Sprintf("product %d: product id, quantity, and delivery time are required", i+1))
		}
		if line.UnitPrice < 0 {
			return nil, utils.CreateValidationError(fmt.Sprintf("product %d: unit price must not be negative", i+1))
		}
		if line.Discount < 0 || line.Discount > 100 {
			return nil, utils.CreateValidationError(fmt.Sprintf("product %d: discount must be between 0 and 100", i+1))
		}

		product, err := s.catalog.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return nil, utils.CreateNotFoundError(fmt.Sprintf("product with id %s", line.ProductID))
			}
			return nil, err
		}

		unit := strings.TrimSpace(line.Unit)
		if unit == "" || !s.rules.IsAllowed(product.Category, unit) {
			allowed, _ := s.rules.AllowedUnits(product.Category)
			list, _ := json.Marshal(allowed)
			return nil, utils.CreateValidationError(fmt.Sprintf("invalid unit for category %s. Allowed units: %s", product.Category, list))
		}

		lines = append(lines, models.QuotationProduct{
			ProductID:    line.ProductID,
			ProductName:  product.Name,
			Quantity:     line.Quantity,
			Unit:         unit,
			UnitPrice:    line.UnitPrice,
			DeliveryTime: strings.TrimSpace(line.DeliveryTime),
			Discount:     line.Discount,
			Notes:        line.Notes,
		})
	}
	return lines, nil
}
