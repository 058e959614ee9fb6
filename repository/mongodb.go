package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/loomline/catalog_end/models"
	"github.com/loomline/catalog_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	UsersCollection      = "users"
	ProductsCollection   = "products"
	EnquiriesCollection  = "enquiries"
	QuotationsCollection = "quotations"
	CountersCollection   = "counters"
)

var (
	client *mongo.Client
	db     *mongo.Database
	ctx    = context.Background()
)

// InitMongoDB connects to MongoDB and selects the database.
func InitMongoDB(uri, dbName string) error {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	clientOptions := options.Client().ApplyURI(uri)
	client, err = mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}

	db = client.Database(dbName)
	utils.Logger.Info().Str("database", dbName).Msg("connected to mongodb")

	return nil
}

// CloseMongoDB disconnects from MongoDB.
func CloseMongoDB() {
	if client != nil {
		if err := client.Disconnect(ctx); err != nil {
			utils.Logger.Error().Err(err).Msg("mongodb disconnect failed")
			return
		}
		utils.Logger.Info().Msg("mongodb disconnected")
	}
}

// GetContext returns the context used for database operations.
func GetContext() context.Context {
	return ctx
}

// Collection returns a collection by name.
func Collection(name string) *mongo.Collection {
	return db.Collection(name)
}

// InitializeCollections creates the collections and the indexes the workflow
// relies on. The unique reference-number indexes are what turns a sequencer
// race into a retryable conflict instead of a silent duplicate.
func InitializeCollections() error {
	collections := []string{
		UsersCollection,
		ProductsCollection,
		EnquiriesCollection,
		QuotationsCollection,
		CountersCollection,
	}

	for _, collName := range collections {
		exists, err := collectionExists(collName)
		if err != nil {
			return fmt.Errorf("check collection: %w", err)
		}
		if !exists {
			if err := db.CreateCollection(ctx, collName); err != nil {
				return fmt.Errorf("create collection: %w", err)
			}
			utils.Logger.Info().Str("collection", collName).Msg("collection created")
		}
	}

	return ensureIndexes()
}

func collectionExists(collName string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": collName})
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == collName {
			return true, nil
		}
	}
	return false, nil
}

func ensureIndexes() error {
	unique := options.Index().SetUnique(true).SetSparse(true)

	enquiryIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "enquiryNo", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "followUpDate", Value: 1}}},
	}
	if _, err := db.Collection(EnquiriesCollection).Indexes().CreateMany(ctx, enquiryIndexes); err != nil {
		return fmt.Errorf("enquiry indexes: %w", err)
	}

	quotationIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "quotationNo", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "enquiryId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "validUntil", Value: 1}}},
	}
	if _, err := db.Collection(QuotationsCollection).Indexes().CreateMany(ctx, quotationIndexes); err != nil {
		return fmt.Errorf("quotation indexes: %w", err)
	}

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	return nil
}

// InitializeAdminAccount seeds the default admin when no admin exists yet.
func InitializeAdminAccount() error {
	users := db.Collection(UsersCollection)

	count, err := users.CountDocuments(ctx, bson.M{"role": models.UserRoleAdmin})
	if err != nil {
		return fmt.Errorf("check admin account: %w", err)
	}
	if count > 0 {
		utils.Logger.Info().Msg("admin account exists, skipping seed")
		return nil
	}

	admin := models.User{
		Name:      "Administrator",
		Email:     "admin@example.com",
		Password:  utils.HashPassword("admin123"),
		Role:      models.UserRoleAdmin,
		Status:    models.UserStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := users.InsertOne(ctx, admin); err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}

	utils.Logger.Info().Msg("default admin account created")
	return nil
}
