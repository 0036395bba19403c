package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/halkompleksi/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrRequestNotFound is returned when a product request does not exist or is
// not owned by the caller. Foreign requests report the same error so that
// ownership is never leaked.
var ErrRequestNotFound = fmt.Errorf("product request not found")

// ProductRequestRepository defines the interface for product request
// (standing buyer filter) operations
type ProductRequestRepository interface {
	CreateRequest(ctx context.Context, request *models.ProductRequest) error
	UpdateRequest(ctx context.Context, request *models.ProductRequest) error
	GetActiveByUserCategory(ctx context.Context, userID uint, category string) (*models.ProductRequest, error)
	GetActiveByUser(ctx context.Context, userID uint) ([]models.ProductRequest, error)
	FindCandidates(ctx context.Context, category string, productID primitive.ObjectID) ([]models.ProductRequest, error)
	ConsumeRequest(ctx context.Context, id primitive.ObjectID) (bool, error)
	DeleteOwned(ctx context.Context, id string, userID uint) error
}

// MongoProductRequestRepository implements ProductRequestRepository for MongoDB
type MongoProductRequestRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRequestRepository creates a new MongoProductRequestRepository
func NewMongoProductRequestRepository(db *mongo.Database) *MongoProductRequestRepository {
	return &MongoProductRequestRepository{collection: db.Collection("product_requests")}
}

// CreateRequest inserts a new active request with an empty notified-set
func (r *MongoProductRequestRepository) CreateRequest(ctx context.Context, request *models.ProductRequest) error {
	request.ID = primitive.NewObjectID()
	request.IsActive = true
	request.NotifiedProducts = nil
	request.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, request)
	return err
}

// UpdateRequest saves a merge-updated request, preserving its identity and
// notified-set
func (r *MongoProductRequestRepository) UpdateRequest(ctx context.Context, request *models.ProductRequest) error {
	update := bson.M{
		"$set": bson.M{
			"keywords":    request.Keywords,
			"description": request.Description,
			"city":        request.City,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": request.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// GetActiveByUserCategory finds the user's active request for a category, if any
func (r *MongoProductRequestRepository) GetActiveByUserCategory(ctx context.Context, userID uint, category string) (*models.ProductRequest, error) {
	var request models.ProductRequest
	err := r.collection.FindOne(ctx, bson.M{
		"user_id":   userID,
		"category":  category,
		"is_active": true,
	}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

// GetActiveByUser returns the user's active requests, newest first
func (r *MongoProductRequestRepository) GetActiveByUser(ctx context.Context, userID uint) ([]models.ProductRequest, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID, "is_active": true}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.ProductRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// FindCandidates returns active requests in the given category that have not
// already been notified about the given product
func (r *MongoProductRequestRepository) FindCandidates(ctx context.Context, category string, productID primitive.ObjectID) ([]models.ProductRequest, error) {
	query := bson.M{
		"category":          category,
		"is_active":         true,
		"notified_products": bson.M{"$ne": productID},
	}
	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.ProductRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ConsumeRequest atomically deletes the request if it is still active and
// reports whether this call removed it. Two dispatchers racing on the same
// request see exactly one true result, so a request fulfills at most once.
func (r *MongoProductRequestRepository) ConsumeRequest(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "is_active": true})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}

// DeleteOwned deletes a request only if it belongs to the given user.
// Nonexistent and foreign ids both report ErrRequestNotFound.
func (r *MongoProductRequestRepository) DeleteOwned(ctx context.Context, id string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRequestNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRequestNotFound
	}
	return nil
}
