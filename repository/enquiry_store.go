package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/loomline/catalog_end/models"
	"github.com/loomline/catalog_end/service"
)

// MongoEnquiryStore persists enquiries in the enquiries collection.
type MongoEnquiryStore struct{}

// NewEnquiryStore creates a MongoEnquiryStore.
func NewEnquiryStore() *MongoEnquiryStore {
	return &MongoEnquiryStore{}
}

// Insert stores a new enquiry and writes the generated id back.
func (s *MongoEnquiryStore) Insert(ctx context.Context, enquiry *models.Enquiry) error {
	result, err := Collection(EnquiriesCollection).InsertOne(ctx, enquiry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return service.ErrDuplicateKey
		}
		return err
	}
	enquiry.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID loads an enquiry by hex id.
func (s *MongoEnquiryStore) FindByID(ctx context.Context, id string) (*models.Enquiry, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, service.ErrNotFound
	}

	var enquiry models.Enquiry
	err = Collection(EnquiriesCollection).FindOne(ctx, bson.M{"_id": objID}).Decode(&enquiry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &enquiry, nil
}

// FindByNoAndEmail loads an enquiry by reference number and email.
func (s *MongoEnquiryStore) FindByNoAndEmail(ctx context.Context, enquiryNo, email string) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	err := Collection(EnquiriesCollection).FindOne(ctx, bson.M{
		"enquiryNo": enquiryNo,
		"email":     email,
	}).Decode(&enquiry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return &enquiry, nil
}

// Update applies a patch. Scalar changes go through $set, array appends
// through $push so concurrent appends do not lose entries.
func (s *MongoEnquiryStore) Update(ctx context.Context, id string, patch service.EnquiryPatch) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return service.ErrNotFound
	}

	set := bson.M{"updatedAt": patch.UpdatedAt}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.AssignedTo != nil {
		set["assignedTo"] = *patch.AssignedTo
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}
	if patch.FollowUpDate != nil {
		set["followUpDate"] = *patch.FollowUpDate
	}

	update := bson.M{"$set": set}

	push := bson.M{}
	if patch.PushNote != nil {
		push["internalNotes"] = *patch.PushNote
	}
	if patch.PushCommunication != nil {
		push["communications"] = *patch.PushCommunication
	}
	if patch.PushActivity != nil {
		push["activities"] = *patch.PushActivity
	}
	if len(push) > 0 {
		update["$push"] = push
	}

	result, err := Collection(EnquiriesCollection).UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return service.ErrNotFound
	}
	return nil
}
