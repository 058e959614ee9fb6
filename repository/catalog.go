package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/loomline/catalog_end/models"
	"github.com/loomline/catalog_end/service"
)

// MongoCatalog is the read-only product lookup backed by the products
// collection.
type MongoCatalog struct{}

// NewCatalog creates a MongoCatalog.
func NewCatalog() *MongoCatalog {
	return &MongoCatalog{}
}

// FindByID loads a product by hex id.
func (c *MongoCatalog) FindByID(ctx context.Context, productID string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, service.ErrProductNotFound
	}

	var product models.Product
	err = Collection(ProductsCollection).FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, service.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}
