package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductImage is a single image or video attached to a product listing
type ProductImage struct {
	URL       string `json:"url" bson:"url"`
	PublicID  string `json:"public_id,omitempty" bson:"public_id,omitempty"`
	IsPrimary bool   `json:"is_primary" bson:"is_primary"`
	Type      string `json:"type" bson:"type"` // image, video
}

// ProductLocation holds where the product is offered
type ProductLocation struct {
	City     string `json:"city" bson:"city"`
	District string `json:"district,omitempty" bson:"district,omitempty"`
	Address  string `json:"address,omitempty" bson:"address,omitempty"`
}

// CategoryData carries category-specific attributes (organic produce, cold
// storage availability, etc.)
type CategoryData struct {
	Organic     bool `json:"organic,omitempty" bson:"organic,omitempty"`
	ColdStorage bool `json:"cold_storage,omitempty" bson:"cold_storage,omitempty"`
}

// ProductRating is the aggregated rating of a product
type ProductRating struct {
	Average float64 `json:"average" bson:"average"`
	Count   int     `json:"count" bson:"count"`
}

// Product represents a marketplace listing stored in MongoDB
type Product struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	Price        float64            `json:"price" bson:"price"`
	Currency     string             `json:"currency" bson:"currency"` // TL, USD, EUR
	Category     string             `json:"category" bson:"category"`
	Images       []ProductImage     `json:"images" bson:"images"`
	SellerID     uint               `json:"seller_id" bson:"seller_id"`
	Location     ProductLocation    `json:"location" bson:"location"`
	IsAvailable  bool               `json:"is_available" bson:"is_available"`
	Stock        int                `json:"stock" bson:"stock"`
	Unit         string             `json:"unit" bson:"unit"` // kg, adet, paket, litre, ...
	CategoryData CategoryData       `json:"category_data,omitempty" bson:"category_data,omitempty"`
	Tags         []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Views        int                `json:"views" bson:"views"`
	Favorites    []uint             `json:"favorites,omitempty" bson:"favorites,omitempty"`
	Rating       ProductRating      `json:"rating" bson:"rating"`
	IsFeatured   bool               `json:"is_featured" bson:"is_featured"`
	IsApproved   bool               `json:"is_approved" bson:"is_approved"`
	ApprovedAt   *time.Time         `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	ApprovedBy   uint               `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	RejectReason string             `json:"reject_reason,omitempty" bson:"reject_reason,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateProductRequest defines the request body for creating a new product
type CreateProductRequest struct {
	Title        string          `json:"title" validate:"required,min=3,max=100"`
	Description  string          `json:"description" validate:"required,min=10,max=1000"`
	Price        float64         `json:"price" validate:"required,min=0"`
	Currency     string          `json:"currency,omitempty" validate:"omitempty,oneof=TL USD EUR"`
	Category     string          `json:"category" validate:"required"`
	Images       []ProductImage  `json:"images,omitempty"`
	Location     ProductLocation `json:"location" validate:"required"`
	Stock        int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	Unit         string          `json:"unit,omitempty"`
	CategoryData CategoryData    `json:"category_data,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
}

// UpdateProductRequest defines the request body for updating an existing product
type UpdateProductRequest struct {
	Title       string           `json:"title,omitempty" validate:"omitempty,min=3,max=100"`
	Description string           `json:"description,omitempty" validate:"omitempty,min=10,max=1000"`
	Price       *float64         `json:"price,omitempty" validate:"omitempty,min=0"`
	Images      []ProductImage   `json:"images,omitempty"`
	Location    *ProductLocation `json:"location,omitempty"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,min=0"`
	Unit        string           `json:"unit,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty"`
}
