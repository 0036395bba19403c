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

// ErrNotificationNotFound is returned when a notification does not exist or
// is not owned by the caller.
var ErrNotificationNotFound = fmt.Errorf("notification not found")

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByUser(ctx context.Context, userID uint, unreadOnly bool, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uint) (int64, error)
	GetProductAvailable(ctx context.Context, id string, userID uint) (*models.Notification, error)
	MarkAsRead(ctx context.Context, id string, userID uint) error
	MarkAllAsRead(ctx context.Context, userID uint) error
	DeleteOwned(ctx context.Context, id string, userID uint) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// CreateNotification inserts a new unread notification
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.IsRead = false
	notification.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// GetByUser returns the user's notifications newest first, with the total
// count for pagination
func (r *MongoNotificationRepository) GetByUser(ctx context.Context, userID uint, unreadOnly bool, page, limit int) ([]models.Notification, int64, error) {
	query := bson.M{"user_id": userID}
	if unreadOnly {
		query["is_read"] = false
	}

	findOptions := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// GetUnreadCount counts the user's unread notifications
func (r *MongoNotificationRepository) GetUnreadCount(ctx context.Context, userID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}

// GetProductAvailable fetches an owned product_available notification, the
// record of a fulfilled request. Other types and foreign ids report
// ErrNotificationNotFound.
func (r *MongoNotificationRepository) GetProductAvailable(ctx context.Context, id string, userID uint) (*models.Notification, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotificationNotFound
	}

	var notification models.Notification
	err = r.collection.FindOne(ctx, bson.M{
		"_id":     objID,
		"user_id": userID,
		"type":    models.NotificationProductAvailable,
	}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// MarkAsRead flips the read flag of an owned notification. Foreign and
// nonexistent ids report ErrNotificationNotFound alike.
func (r *MongoNotificationRepository) MarkAsRead(ctx context.Context, id string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotificationNotFound
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead flips the read flag on all of the user's unread notifications
func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, userID uint) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}

// DeleteOwned removes an owned notification
func (r *MongoNotificationRepository) DeleteOwned(ctx context.Context, id string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotificationNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
