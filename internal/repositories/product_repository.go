package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/halkompleksi/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrProductNotFound is returned when a product does not exist or is not
// visible to the caller.
var ErrProductNotFound = fmt.Errorf("product not found")

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	FindProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	GetFeaturedProducts(ctx context.Context, limit int64) ([]models.Product, error)
	GetSellerProducts(ctx context.Context, sellerID uint, status string, skip, limit int64) ([]models.Product, int64, error)
	GetFavoriteProducts(ctx context.Context, userID uint, skip, limit int64) ([]models.Product, int64, error)
	GetPendingProducts(ctx context.Context, skip, limit int64) ([]models.Product, int64, error)
	FindRequestProducts(ctx context.Context, data models.NotificationData, skip, limit int64) ([]models.Product, int64, error)
	UpdateProduct(ctx context.Context, id string, update bson.M) error
	DeleteProduct(ctx context.Context, id string, sellerID uint) error
	IncrementViews(ctx context.Context, id string) (int, error)
	ToggleFavorite(ctx context.Context, id string, userID uint) (bool, error)
	SetApproval(ctx context.Context, id string, approvedBy uint, approved bool, reason string) (*models.Product, error)
	SetFeatured(ctx context.Context, id string, featured bool) (*models.Product, error)
}

// MongoProductRepository implements ProductRepository for MongoDB
type MongoProductRepository struct {
	collection *mongo.Collection
}

// NewMongoProductRepository creates a new MongoProductRepository
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection("products")}
}

// CreateProduct inserts a new product. Listings start unapproved and wait
// for admin review.
func (r *MongoProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	product.ID = primitive.NewObjectID()
	product.IsApproved = false
	product.ApprovedAt = nil
	product.ApprovedBy = 0
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// GetProductByID retrieves a product by ID
func (r *MongoProductRepository) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindProducts runs the listing/search filter and returns the matching page
// plus the total match count.
func (r *MongoProductRepository) FindProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := filter.BuildQuery()
	_, limit := filter.PageLimit()

	findOptions := options.Find().
		SetSkip(filter.Skip()).
		SetLimit(int64(limit)).
		SetSort(filter.BuildSort())

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetFeaturedProducts returns the newest featured, approved, available products
func (r *MongoProductRepository) GetFeaturedProducts(ctx context.Context, limit int64) ([]models.Product, error) {
	query := bson.M{"is_featured": true, "is_approved": true, "is_available": true}
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetSellerProducts returns a seller's own products, optionally filtered by
// availability status ("active" or "inactive").
func (r *MongoProductRepository) GetSellerProducts(ctx context.Context, sellerID uint, status string, skip, limit int64) ([]models.Product, int64, error) {
	query := bson.M{"seller_id": sellerID}
	if status == "active" {
		query["is_available"] = true
	}
	if status == "inactive" {
		query["is_available"] = false
	}
	return r.findPage(ctx, query, skip, limit)
}

// GetFavoriteProducts returns approved products the user has favorited
func (r *MongoProductRepository) GetFavoriteProducts(ctx context.Context, userID uint, skip, limit int64) ([]models.Product, int64, error) {
	query := bson.M{"favorites": userID, "is_approved": true}
	return r.findPage(ctx, query, skip, limit)
}

// GetPendingProducts returns products awaiting admin review
func (r *MongoProductRepository) GetPendingProducts(ctx context.Context, skip, limit int64) ([]models.Product, int64, error) {
	query := bson.M{"is_approved": false, "reject_reason": bson.M{"$exists": false}}
	return r.findPage(ctx, query, skip, limit)
}

// requestProductsQuery rebuilds the search a fulfilled product request stood
// for, from the criteria stored on its notification: category plus optional
// city regex, an OR over the request keywords and an extra narrowing clause
// for the consolidated search string.
func requestProductsQuery(data models.NotificationData) bson.M {
	and := bson.A{
		bson.M{"is_approved": true, "is_available": true},
		bson.M{"category": data.Category},
	}

	if data.City != "" {
		and = append(and, bson.M{
			"location.city": primitive.Regex{Pattern: regexp.QuoteMeta(data.City), Options: "i"},
		})
	}

	if len(data.Keywords) > 0 {
		var or bson.A
		for _, keyword := range data.Keywords {
			re := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
			or = append(or,
				bson.M{"title": re},
				bson.M{"description": re},
				bson.M{"tags": re},
			)
		}
		and = append(and, bson.M{"$or": or})
	}

	if data.SearchQuery != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(data.SearchQuery), Options: "i"}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		}})
	}

	return bson.M{"$and": and}
}

// FindRequestProducts returns the visible products matching a fulfilled
// request's stored criteria, newest first.
func (r *MongoProductRepository) FindRequestProducts(ctx context.Context, data models.NotificationData, skip, limit int64) ([]models.Product, int64, error) {
	return r.findPage(ctx, requestProductsQuery(data), skip, limit)
}

func (r *MongoProductRepository) findPage(ctx context.Context, query bson.M, skip, limit int64) ([]models.Product, int64, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// UpdateProduct applies a $set update to a product
func (r *MongoProductRepository) UpdateProduct(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}

	update["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeleteProduct deletes a product owned by the given seller. Deleting
// another seller's product reports not-found.
func (r *MongoProductRepository) DeleteProduct(ctx context.Context, id string, sellerID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "seller_id": sellerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// IncrementViews increments and returns the product's view counter
func (r *MongoProductRepository) IncrementViews(ctx context.Context, id string) (int, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, ErrProductNotFound
	}

	var product models.Product
	after := options.After
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$inc": bson.M{"views": 1}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	return product.Views, nil
}

// ToggleFavorite adds or removes the user from the product's favorites set.
// Returns whether the product is favorited after the call.
func (r *MongoProductRepository) ToggleFavorite(ctx context.Context, id string, userID uint) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrProductNotFound
	}

	var product models.Product
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			return false, ErrProductNotFound
		}
		return false, err
	}

	favorited := false
	for _, fav := range product.Favorites {
		if fav == userID {
			favorited = true
			break
		}
	}

	var update bson.M
	if favorited {
		update = bson.M{"$pull": bson.M{"favorites": userID}}
	} else {
		update = bson.M{"$addToSet": bson.M{"favorites": userID}}
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update); err != nil {
		return false, err
	}
	return !favorited, nil
}

// approvalUpdate builds the moderation update. Approving clears any earlier
// rejection reason so a re-approved product leaves the rejected state behind.
func approvalUpdate(approvedBy uint, approved bool, reason string) bson.M {
	set := bson.M{"is_approved": approved, "updated_at": time.Now()}
	update := bson.M{"$set": set}
	if approved {
		set["approved_at"] = time.Now()
		set["approved_by"] = approvedBy
		update["$unset"] = bson.M{"reject_reason": ""}
	} else {
		set["reject_reason"] = reason
	}
	return update
}

// SetApproval approves or rejects a pending product and returns the updated
// document.
func (r *MongoProductRepository) SetApproval(ctx context.Context, id string, approvedBy uint, approved bool, reason string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var product models.Product
	after := options.After
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		approvalUpdate(approvedBy, approved, reason),
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// SetFeatured flags or unflags a product as featured
func (r *MongoProductRepository) SetFeatured(ctx context.Context, id string, featured bool) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var product models.Product
	after := options.After
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"is_featured": featured, "updated_at": time.Now()}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}
