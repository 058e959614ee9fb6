package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/loomline/catalog_end/models"
	"github.com/loomline/catalog_end/service"
)

// MongoQuotationStore persists quotations in the quotations collection.
type MongoQuotationStore struct{}

// NewQuotationStore creates a MongoQuotationStore.
func NewQuotationStore() *MongoQuotationStore {
	return &MongoQuotationStore{}
}

// Insert stores a new quotation and writes the generated id back.
func (s *MongoQuotationStore) Insert(ctx context.Context, quotation *models.Quotation) error {
	result, err := Collection(QuotationsCollection).InsertOne(ctx, quotation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return service.ErrDuplicateKey
		}
		return err
	}
	quotation.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID loads a quotation by hex id.
func (s *MongoQuotationStore) FindByID(ctx context.Context, id string) (*models.Quotation, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, service.ErrNotFound
	}

	var quotation models.Quotation
	err = Collection(QuotationsCollection).FindOne(ctx, bson.M{"_id": objID}).Decode(&quotation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// Update applies a patch. Identity fields are never touched. Revision and
// note appends use $push.
func (s *MongoQuotationStore) Update(ctx context.Context, id string, patch service.QuotationPatch) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return service.ErrNotFound
	}

	set := bson.M{"updatedAt": patch.UpdatedAt}
	if patch.Products != nil {
		set["products"] = *patch.Products
	}
	if patch.ValidUntil != nil {
		set["validUntil"] = *patch.ValidUntil
	}
	if patch.Terms != nil {
		set["terms"] = *patch.Terms
	}
	if patch.Currency != nil {
		set["currency"] = *patch.Currency
	}
	if patch.TaxRate != nil {
		set["taxRate"] = *patch.TaxRate
	}
	if patch.ShippingCost != nil {
		set["shippingCost"] = *patch.ShippingCost
	}
	if patch.ShippingMethod != nil {
		set["shippingMethod"] = *patch.ShippingMethod
	}
	if patch.PaymentTerms != nil {
		set["paymentTerms"] = *patch.PaymentTerms
	}
	if patch.CustomPaymentTerms != nil {
		set["customPaymentTerms"] = *patch.CustomPaymentTerms
	}
	if patch.FollowUpDate != nil {
		set["followUpDate"] = *patch.FollowUpDate
	}
	if patch.PDFLink != nil {
		set["pdfLink"] = *patch.PDFLink
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.SentAt != nil {
		set["sentAt"] = *patch.SentAt
	}
	if patch.SentBy != nil {
		set["sentBy"] = *patch.SentBy
	}
	if patch.AcceptedAt != nil {
		set["acceptedAt"] = *patch.AcceptedAt
	}
	if patch.DeclinedAt != nil {
		set["declinedAt"] = *patch.DeclinedAt
	}
	if patch.DeclineReason != nil {
		set["declineReason"] = *patch.DeclineReason
	}
	if patch.Revision != nil {
		set["revision"] = *patch.Revision
	}

	update := bson.M{"$set": set}

	push := bson.M{}
	if patch.PushRevision != nil {
		push["previousRevisions"] = *patch.PushRevision
	}
	if patch.PushNote != nil {
		push["internalNotes"] = *patch.PushNote
	}
	if len(push) > 0 {
		update["$push"] = push
	}

	result, err := Collection(QuotationsCollection).UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}
