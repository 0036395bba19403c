package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationProductApproved  = "product_approved"  // seller: listing approved
	NotificationProductRejected  = "product_rejected"  // seller: listing rejected
	NotificationProductPending   = "product_pending"   // seller: listing sent for review
	NotificationProductAvailable = "product_available" // buyer: a requested product was added
	NotificationProductFeatured  = "product_featured"  // seller: listing featured
	NotificationSystem           = "system"
)

// NotificationData is the typed payload attached to a notification. Which
// fields are set depends on the notification type: product_available carries
// the matched request criteria and a product snapshot, product_rejected
// carries the rejection reason.
type NotificationData struct {
	Category         string             `json:"category,omitempty" bson:"category,omitempty"`
	City             string             `json:"city,omitempty" bson:"city,omitempty"`
	Keywords         []string           `json:"keywords,omitempty" bson:"keywords,omitempty"`
	MatchedRequestID primitive.ObjectID `json:"matched_request_id,omitempty" bson:"matched_request_id,omitempty"`
	ProductTitle     string             `json:"product_title,omitempty" bson:"product_title,omitempty"`
	ProductPrice     float64            `json:"product_price,omitempty" bson:"product_price,omitempty"`
	ProductUnit      string             `json:"product_unit,omitempty" bson:"product_unit,omitempty"`
	SearchQuery      string             `json:"search_query,omitempty" bson:"search_query,omitempty"`
	RejectionReason  string             `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
}

// Notification represents a one-way message to a user, stored in MongoDB.
// Immutable once created except for the read flag.
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	Type      string             `json:"type" bson:"type"`
	Title     string             `json:"title" bson:"title"`
	Message   string             `json:"message" bson:"message"`
	ProductID primitive.ObjectID `json:"product_id,omitempty" bson:"product_id,omitempty"`
	Data      NotificationData   `json:"data,omitempty" bson:"data,omitempty"`
	IsRead    bool               `json:"is_read" bson:"is_read"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
