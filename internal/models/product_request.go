package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductRequest is a buyer's standing "notify me" filter. At most one active
// request exists per (user, category); creating another merges into it.
type ProductRequest struct {
	ID               primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	UserID           uint                 `json:"user_id" bson:"user_id"`
	Category         string               `json:"category" bson:"category"`
	Keywords         []string             `json:"keywords,omitempty" bson:"keywords,omitempty"`
	Description      string               `json:"description,omitempty" bson:"description,omitempty"`
	City             string               `json:"city,omitempty" bson:"city,omitempty"`
	IsActive         bool                 `json:"is_active" bson:"is_active"`
	NotifiedProducts []primitive.ObjectID `json:"notified_products,omitempty" bson:"notified_products,omitempty"`
	CreatedAt        time.Time            `json:"created_at" bson:"created_at"`
}

// CreateProductRequestInput defines the request body for creating or merging
// a product request
type CreateProductRequestInput struct {
	Category    string   `json:"category" validate:"required"`
	Keywords    []string `json:"keywords,omitempty"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=500"`
	City        string   `json:"city,omitempty"`
}
