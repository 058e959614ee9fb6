package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductStatus is the catalog publication state.
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDraft        ProductStatus = "draft"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// Product is the slice of a catalog product the enquiry and quotation flows
// need: identity, display name, and the category that constrains line units.
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UniqueID  string             `bson:"uniqueId,omitempty" json:"uniqueId,omitempty"`
	Name      string             `bson:"name" json:"name"`
	SKU       string             `bson:"sku" json:"sku"`
	Category  string             `bson:"category" json:"category"`
	Status    ProductStatus      `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
