package service

import (
	"context"
	"testing"
	"time"

	"github.com/loomline/catalog_end/config"
	"github.com/loomline/catalog_end/models"
	"github.com/loomline/catalog_end/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func testUnitRules() config.UnitRules {
	return config.UnitRules{
		"Yarn":   {"kg", "cones"},
		"Fabric": {"meters", "yards"},
	}
}

func newTestEnquiryService(store *memEnquiryStore, products ...*models.Product) *EnquiryService {
	return NewEnquiryService(store, newMemCatalog(products...), testUnitRules(), newMemSequencer("2606"), fixedClock(testNow))
}

func activeProduct(name, category string) *models.Product {
	return &models.Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Category: category,
		Status:   models.ProductStatusActive,
	}
}

func TestCreateEnquiry(t *testing.T) {
	store := newMemEnquiryStore()
	yarn := activeProduct("Combed Cotton Yarn", "Yarn")
	svc := newTestEnquiryService(store, yarn)

	enquiry, err := svc.Create(context.Background(), CreateEnquiryInput{
		CustomerName: "  Asha Rao ",
		Company:      "Weave Mills",
		Email:        "Asha@Example.COM",
		Phone:        "+91 98000 00000",
		Message:      "Need pricing for bulk yarn",
		Products: []EnquiryLineInput{
			{ProductID: yarn.ID.Hex(), Quantity: 500, Unit: "kg"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ENQ26060001", enquiry.EnquiryNo)
	assert.Equal(t, models.EnquiryStatusNew, enquiry.Status)
	assert.Equal(t, models.EnquiryPriorityMedium, enquiry.Priority)
	assert.Equal(t, models.EnquirySourceWebsite, enquiry.Source)
	assert.Equal(t, "Asha Rao", enquiry.CustomerName)
	assert.Equal(t, "asha@example.com", enquiry.Email)
	require.Len(t, enquiry.Products, 1)
	assert.Equal(t, "Combed Cotton Yarn", enquiry.Products[0].ProductName)
	assert.Equal(t, testNow, enquiry.CreatedAt)
	assert.False(t, enquiry.ID.IsZero())

	// second enquiry in the same month takes the next sequence number
	second, err := svc.Create(context.Background(), CreateEnquiryInput{
		CustomerName: "B",
		Company:      "C",
		Email:        "b@example.com",
		Phone:        "1",
		Message:      "m",
		Products:     []EnquiryLineInput{{ProductID: yarn.ID.Hex(), Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ENQ26060002", second.EnquiryNo)
}

func TestCreateEnquiryRequiresProducts(t *testing.T) {
	svc := newTestEnquiryService(newMemEnquiryStore())

	_, err := svc.Create(context.Background(), CreateEnquiryInput{
		CustomerName: "A", Company: "B", Email: "a@b.com", Phone: "1", Message: "m",
	})
	require.Error(t, err)

	apiErr, ok := err.(*utils.ApiError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.ErrorCode)
}

func TestCreateEnquiryRejectsInactiveProduct(t *testing.T) {
	inactive := activeProduct("Old Blend", "Yarn")
	inactive.Status = models.ProductStatusInactive
	svc := newTestEnquiryService(newMemEnquiryStore(), inactive)

	_, err := svc.Create(context.Background(), CreateEnquiryInput{
		CustomerName: "A", Company: "B", Email: "a@b.com", Phone: "1", Message: "m",
		Products: []EnquiryLineInput{{ProductID: inactive.ID.Hex(), Quantity: 1}},
	})
	require.Error(t, err)

	apiErr, ok := err.(*utils.ApiError)
	require.True(t, ok)
	assert.Equal(t, "RESOURCE_NOT_FOUND", apiErr.ErrorCode)
}

func TestCreateEnquiryRejectsWrongUnit(t *testing.T) {
	yarn := activeProduct("Yarn Lot", "Yarn")
	svc := newTestEnquiryService(newMemEnquiryStore(), yarn)

	_, err := svc.Create(context.Background(), CreateEnquiryInput{
		CustomerName: "A", Company: "B", Email: "a@b.com", Phone: "1", Message: "m",
		Products: []EnquiryLineInput{{ProductID: yarn.ID.Hex(), Quantity: 1, Unit: "meters"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid unit for category Yarn")
	assert.Contains(t, err.Error(), `"kg"`)
	assert.Contains(t, err.Error(), `"cones"`)
}

func TestCreateEnquiryOmittedUnitIsAccepted(t *testing.T) {
	yarn := activeProduct("Yarn Lot", "Yarn")
	svc := newTestEnquiryService(newMemEnquiryStore(), yarn)

	enquiry, err := svc.Create(context.Background(), CreateEnquiryInput{
		CustomerName: "A", Company: "B", Email: "a@b.com", Phone: "1", Message: "m",
		Products: []EnquiryLineInput{{ProductID: yarn.ID.Hex(), Quantity: 10}},
	})
	require.NoError(t, err)
	assert.Empty(t, enquiry.Products[0].Unit)
}

func TestCreateFromContactForm(t *testing.T) {
	store := newMemEnquiryStore()
	svc := newTestEnquiryService(store)

	enquiry, err := svc.CreateFromContactForm(context.Background(), ContactFormInput{
		Name:    "Dev Patel",
		Email:   "dev@example.com",
		Subject: "Partnership",
		Message: "We would like to distribute your fabrics.",
	})
	require.NoError(t, err)

	assert.Equal(t, "N/A", enquiry.Company)
	assert.Equal(t, "N/A", enquiry.Phone)
	assert.Equal(t, "Subject: Partnership\n\nWe would like to distribute your fabrics.", enquiry.Message)
	assert.Equal(t, models.EnquirySourceContactForm, enquiry.Source)
	assert.Empty(t, enquiry.Products)
	assert.Equal(t, "ENQ26060001", enquiry.EnquiryNo)
}

func TestGetByNoAndEmail(t *testing.T) {
	store := newMemEnquiryStore()
	yarn := activeProduct("Yarn Lot", "Yarn")
	svc := newTestEnquiryService(store, yarn)

	created, err := svc.Create(context.Background(), CreateEnquiryInput{
		CustomerName: "A", Company: "B", Email: "Asha@Example.com", Phone: "1", Message: "m",
		Products: []EnquiryLineInput{{ProductID: yarn.ID.Hex(), Quantity: 1}},
	})
	require.NoError(t, err)

	found, err := svc.GetByNoAndEmail(context.Background(), created.EnquiryNo, "ASHA@example.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByNoAndEmail(context.Background(), created.EnquiryNo, "other@example.com")
	require.Error(t, err)
	apiErr, ok := err.(*utils.ApiError)
	require.True(t, ok)
	assert.Equal(t, "RESOURCE_NOT_FOUND", apiErr.ErrorCode)
}

func TestAssignAdvancesNewToInReview(t *testing.T) {
	store := newMemEnquiryStore()
	yarn := activeProduct("Yarn Lot", "Yarn")
	svc := newTestEnquiryService(store, yarn)

	created, err := svc.Create(context.Background(), CreateEnquiryInput{
		CustomerName: "A", Company: "B", Email: "a@b.com", Phone: "1", Message: "m",
		Products: []EnquiryLineInput{{ProductID: yarn.ID.Hex(), Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.Assign(context.Background(), created.ID.Hex(), "user-1", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.EnquiryStatusInReview, updated.Status)
	assert.Equal(t, "user-1", updated.AssignedTo)

	stored, err := store.FindByID(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.EnquiryStatusInReview, stored.Status)
}

func TestAssignNeverDemotesLaterStatus(t *testing.T) {
	store := newMemEnquiryStore()
	yarn := activeProduct("Yarn Lot", "Yarn")
	svc := newTestEnquiryService(store, yarn)

	created, err := svc.Create(context.Background(), CreateEnquiryInput{
		CustomerName: "A", Company: "B", Email: "a@b.com", Phone: "1", Message: "m",
		Products: []EnquiryLineInput{{ProductID: yarn.ID.Hex(), Quantity: 1}},
	})
	require.NoError(t, err)

	quoted := models.EnquiryStatusQuoted
	require.NoError(t, store.Update(context.Background(), created.ID.Hex(), EnquiryPatch{Status: &quoted, UpdatedAt: testNow}))

	updated, err := svc.Assign(context.Background(), created.ID.Hex(), "user-2", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.EnquiryStatusQuoted, updated.Status)
	assert.Equal(t, "user-2", updated.AssignedTo)
}

func TestUpdateEnquiryValidation(t *testing.T) {
	store := newMemEnquiryStore()
	yarn := activeProduct("Yarn Lot", "Yarn")
	svc := newTestEnquiryService(store, yarn)

	created, err := svc.Create(context.Background(), CreateEnquiryInput{
		CustomerName: "A", Company: "B", Email: "a@b.com", Phone: "1", Message: "m",
		Products: []EnquiryLineInput{{ProductID: yarn.ID.Hex(), Quantity: 1}},
	})
	require.NoError(t, err)
	id := created.ID.Hex()

	_, err = svc.Update(context.Background(), id, UpdateEnquiryInput{Status: "shipped"}, "admin-1")
	require.Error(t, err)

	_, err = svc.Update(context.Background(), id, UpdateEnquiryInput{Priority: "urgent-ish"}, "admin-1")
	require.Error(t, err)

	bad := "not-a-date"
	_, err = svc.Update(context.Background(), id, UpdateEnquiryInput{FollowUpDate: &bad}, "admin-1")
	require.Error(t, err)

	followUp := "2026-07-01"
	updated, err := svc.Update(context.Background(), id, UpdateEnquiryInput{
		Status:       string(models.EnquiryStatusInReview),
		FollowUpDate: &followUp,
		InternalNote: "call back next week",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.EnquiryStatusInReview, updated.Status)
	require.NotNil(t, updated.FollowUpDate)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), *updated.FollowUpDate)
	require.Len(t, updated.InternalNotes, 1)
	assert.Equal(t, "call back next week", updated.InternalNotes[0].Note)
	assert.Equal(t, "admin-1", updated.InternalNotes[0].AddedBy)
}

func TestAddCommunication(t *testing.T) {
	store := newMemEnquiryStore()
	yarn := activeProduct("Yarn Lot", "Yarn")
	svc := newTestEnquiryService(store, yarn)

	created, err := svc.Create(context.Background(), CreateEnquiryInput{
		CustomerName: "A", Company: "B", Email: "a@b.com", Phone: "1", Message: "m",
		Products: []EnquiryLineInput{{ProductID: yarn.ID.Hex(), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.AddCommunication(context.Background(), created.ID.Hex(), CommunicationInput{
		Channel: "fax", Subject: "s", Content: "c", Direction: "outbound",
	}, "admin-1")
	require.Error(t, err)

	comm, err := svc.AddCommunication(context.Background(), created.ID.Hex(), CommunicationInput{
		Channel: "email", Subject: "Price list", Content: "Sent the current rates", Direction: "outbound",
	}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.CommunicationEmail, comm.Channel)

	stored, err := store.FindByID(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	require.Len(t, stored.Communications, 1)
	assert.Equal(t, "admin-1", stored.Communications[0].HandledBy)
}

func TestApplyQuotationEventCascades(t *testing.T) {
	cases := []struct {
		event        QuotationEventType
		wantStatus   models.EnquiryStatus
		wantActivity models.ActivityType
		wantDesc     string
	}{
		{EventQuotationCreated, models.EnquiryStatusQuoted, models.ActivityQuotationCreated, "Quotation QUO26060001 created for this enquiry"},
		{EventQuotationSent, models.EnquiryStatusInReview, models.ActivityQuotationSent, "Quotation QUO26060001 sent to customer"},
		{EventQuotationAccepted, models.EnquiryStatusClosed, models.ActivityQuotationAccepted, "Quotation QUO26060001 was accepted by customer"},
		{EventQuotationDeclined, models.EnquiryStatusRejected, models.ActivityQuotationRejected, "Quotation QUO26060001 was rejected by customer"},
	}

	for _, tc := range cases {
		t.Run(string(tc.event), func(t *testing.T) {
			store := newMemEnquiryStore()
			svc := newTestEnquiryService(store)

			enquiry := &models.Enquiry{
				EnquiryNo: "ENQ26060001",
				Email:     "a@b.com",
				Status:    models.EnquiryStatusInReview,
			}
			require.NoError(t, store.Insert(context.Background(), enquiry))

			err := svc.ApplyQuotationEvent(context.Background(), QuotationEvent{
				Type:        tc.event,
				EnquiryID:   enquiry.ID.Hex(),
				QuotationID: "q-1",
				QuotationNo: "QUO26060001",
				PerformedBy: "user-1",
				OccurredAt:  testNow,
			})
			require.NoError(t, err)

			stored, err := store.FindByID(context.Background(), enquiry.ID.Hex())
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, stored.Status)
			require.Len(t, stored.Activities, 1)
			assert.Equal(t, tc.wantActivity, stored.Activities[0].Type)
			assert.Equal(t, tc.wantDesc, stored.Activities[0].Description)
			assert.Equal(t, "user-1", stored.Activities[0].PerformedBy)
			assert.Equal(t, "QUO26060001", stored.Activities[0].Metadata.QuotationNo)
		})
	}
}

func TestApplyQuotationEventStatusChanged(t *testing.T) {
	store := newMemEnquiryStore()
	svc := newTestEnquiryService(store)

	enquiry := &models.Enquiry{EnquiryNo: "ENQ26060001", Status: models.EnquiryStatusQuoted}
	require.NoError(t, store.Insert(context.Background(), enquiry))

	err := svc.ApplyQuotationEvent(context.Background(), QuotationEvent{
		Type:        EventQuotationStatusChanged,
		EnquiryID:   enquiry.ID.Hex(),
		QuotationNo: "QUO26060009",
		OldStatus:   models.QuotationStatusSent,
		NewStatus:   models.QuotationStatusExpired,
		PerformedBy: "user-1",
		OccurredAt:  testNow,
	})
	require.NoError(t, err)

	stored, err := store.FindByID(context.Background(), enquiry.ID.Hex())
	require.NoError(t, err)
	// a generic status change leaves the enquiry status alone
	assert.Equal(t, models.EnquiryStatusQuoted, stored.Status)
	require.Len(t, stored.Activities, 1)
	assert.Equal(t, models.ActivityStatusUpdated, stored.Activities[0].Type)
	assert.Equal(t, "Quotation QUO26060009 status updated from sent to expired", stored.Activities[0].Description)
	assert.Equal(t, "sent", stored.Activities[0].Metadata.OldStatus)
	assert.Equal(t, "expired", stored.Activities[0].Metadata.NewStatus)
}

func TestEnquiryDerivedFields(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	past := now.Add(-3 * 24 * time.Hour)
	followUp := now.Add(-24 * time.Hour)

	e := &models.Enquiry{
		Status:       models.EnquiryStatusInReview,
		CreatedAt:    past,
		FollowUpDate: &followUp,
		Products: []models.EnquiryProduct{
			{Quantity: 100}, {Quantity: 250},
		},
	}
	assert.Equal(t, 350, e.TotalQuantity())
	assert.Equal(t, 3, e.DaysSinceEnquiry(now))
	assert.True(t, e.IsOverdue(now))

	e.Status = models.EnquiryStatusClosed
	assert.False(t, e.IsOverdue(now))
}
