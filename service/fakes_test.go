package service

import (
	"context"
	"sync"
	"time"

	"github.com/loomline/catalog_end/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// memEnquiryStore is an in-memory EnquiryStore keyed by hex id.
type memEnquiryStore struct {
	mu   sync.Mutex
	docs map[string]*models.Enquiry
}

func newMemEnquiryStore() *memEnquiryStore {
	return &memEnquiryStore{docs: map[string]*models.Enquiry{}}
}

func (s *memEnquiryStore) Insert(_ context.Context, enquiry *models.Enquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		if doc.EnquiryNo == enquiry.EnquiryNo {
			return ErrDuplicateKey
		}
	}
	if enquiry.ID.IsZero() {
		enquiry.ID = primitive.NewObjectID()
	}
	clone := *enquiry
	s.docs[enquiry.ID.Hex()] = &clone
	return nil
}

func (s *memEnquiryStore) FindByID(_ context.Context, id string) (*models.Enquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *doc
	return &clone, nil
}

func (s *memEnquiryStore) FindByNoAndEmail(_ context.Context, enquiryNo, email string) (*models.Enquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		if doc.EnquiryNo == enquiryNo && doc.Email == email {
			clone := *doc
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memEnquiryStore) Update(_ context.Context, id string, patch EnquiryPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Status != nil {
		doc.Status = *patch.Status
	}
	if patch.AssignedTo != nil {
		doc.AssignedTo = *patch.AssignedTo
	}
	if patch.Priority != nil {
		doc.Priority = *patch.Priority
	}
	if patch.FollowUpDate != nil {
		doc.FollowUpDate = patch.FollowUpDate
	}
	if patch.PushNote != nil {
		doc.InternalNotes = append(doc.InternalNotes, *patch.PushNote)
	}
	if patch.PushCommunication != nil {
		doc.Communications = append(doc.Communications, *patch.PushCommunication)
	}
	if patch.PushActivity != nil {
		doc.Activities = append(doc.Activities, *patch.PushActivity)
	}
	doc.UpdatedAt = patch.UpdatedAt
	return nil
}

// memQuotationStore is an in-memory QuotationStore keyed by hex id.
type memQuotationStore struct {
	mu   sync.Mutex
	docs map[string]*models.Quotation
}

func newMemQuotationStore() *memQuotationStore {
	return &memQuotationStore{docs: map[string]*models.Quotation{}}
}

func (s *memQuotationStore) Insert(_ context.Context, quotation *models.Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range s.docs {
		if doc.QuotationNo == quotation.QuotationNo {
			return ErrDuplicateKey
		}
	}
	if quotation.ID.IsZero() {
		quotation.ID = primitive.NewObjectID()
	}
	clone := *quotation
	s.docs[quotation.ID.Hex()] = &clone
	return nil
}

func (s *memQuotationStore) FindByID(_ context.Context, id string) (*models.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *doc
	return &clone, nil
}

func (s *memQuotationStore) Update(_ context.Context, id string, patch QuotationPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	if patch.Products != nil {
		doc.Products = *patch.Products
	}
	if patch.ValidUntil != nil {
		doc.ValidUntil = *patch.ValidUntil
	}
	if patch.Terms != nil {
		doc.Terms = *patch.Terms
	}
	if patch.Currency != nil {
		doc.Currency = *patch.Currency
	}
	if patch.TaxRate != nil {
		doc.TaxRate = *patch.TaxRate
	}
	if patch.ShippingCost != nil {
		doc.ShippingCost = *patch.ShippingCost
	}
	if patch.ShippingMethod != nil {
		doc.ShippingMethod = *patch.ShippingMethod
	}
	if patch.PaymentTerms != nil {
		doc.PaymentTerms = *patch.PaymentTerms
	}
	if patch.CustomPaymentTerms != nil {
		doc.CustomPaymentTerms = *patch.CustomPaymentTerms
	}
	if patch.FollowUpDate != nil {
		doc.FollowUpDate = patch.FollowUpDate
	}
	if patch.PDFLink != nil {
		doc.PDFLink = *patch.PDFLink
	}
	if patch.Status != nil {
		doc.Status = *patch.Status
	}
	if patch.SentAt != nil {
		doc.SentAt = patch.SentAt
	}
	if patch.SentBy != nil {
		doc.SentBy = *patch.SentBy
	}
	if patch.AcceptedAt != nil {
		doc.AcceptedAt = patch.AcceptedAt
	}
	if patch.DeclinedAt != nil {
		doc.DeclinedAt = patch.DeclinedAt
	}
	if patch.DeclineReason != nil {
		doc.DeclineReason = *patch.DeclineReason
	}
	if patch.Revision != nil {
		doc.Revision = *patch.Revision
	}
	if patch.PushRevision != nil {
		doc.PreviousRevisions = append(doc.PreviousRevisions, *patch.PushRevision)
	}
	if patch.PushNote != nil {
		doc.InternalNotes = append(doc.InternalNotes, *patch.PushNote)
	}
	doc.UpdatedAt = patch.UpdatedAt
	return nil
}

// memCatalog is an in-memory CatalogGateway.
type memCatalog struct {
	products map[string]*models.Product
}

func newMemCatalog(products ...*models.Product) *memCatalog {
	c := &memCatalog{products: map[string]*models.Product{}}
	for _, p := range products {
		c.products[p.ID.Hex()] = p
	}
	return c
}

func (c *memCatalog) FindByID(_ context.Context, productID string) (*models.Product, error) {
	product, ok := c.products[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// memSequencer counts per prefix with a fixed period.
type memSequencer struct {
	mu     sync.Mutex
	period string
	seq    map[string]int64
}

func newMemSequencer(period string) *memSequencer {
	return &memSequencer{period: period, seq: map[string]int64{}}
}

func (s *memSequencer) Next(_ context.Context, prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[prefix]++
	return FormatReference(prefix, s.period, s.seq[prefix]), nil
}

// recordingSink captures emitted quotation events.
type recordingSink struct {
	mu     sync.Mutex
	events []QuotationEvent
	err    error
}

func (s *recordingSink) ApplyQuotationEvent(_ context.Context, event QuotationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) recorded() []QuotationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]QuotationEvent(nil), s.events...)
}
