package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Akinkuowo/Swophere/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrSwapNotFound is returned when a listing lookup finds nothing.
var ErrSwapNotFound = fmt.Errorf("swap not found")

// SwapFilter carries the optional filters of a listing query.
type SwapFilter struct {
	Category string
	Status   string
	Search   string
	UserID   string
	Page     int64
	Limit    int64
}

// SwapRepository defines the interface for swap listing operations
type SwapRepository interface {
	CreateSwap(ctx context.Context, swap *models.Swap) error
	GetByListingID(ctx context.Context, listingID string) (*models.Swap, error)
	GetTrending(ctx context.Context, limit int64) ([]models.Swap, error)
	ListSwaps(ctx context.Context, filter SwapFilter) ([]models.Swap, int64, error)
	AddInterest(ctx context.Context, listingID string, interest models.SwapInterest) error
	UpdateStatus(ctx context.Context, listingID, status string) error
	DeleteSwap(ctx context.Context, listingID string) error
	GetCategories(ctx context.Context) ([]models.CategoryCount, error)
}

// MongoSwapRepository implements SwapRepository for MongoDB
type MongoSwapRepository struct {
	collection *mongo.Collection
}

// NewMongoSwapRepository creates a new MongoSwapRepository
func NewMongoSwapRepository(db *mongo.Database) *MongoSwapRepository {
	return &MongoSwapRepository{collection: db.Collection("swaps")}
}

// CreateSwap inserts a new listing
func (r *MongoSwapRepository) CreateSwap(ctx context.Context, swap *models.Swap) error {
	swap.ID = primitive.NewObjectID()
	swap.CreatedAt = time.Now()
	swap.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, swap)
	return err
}

// GetByListingID retrieves a listing by its public listing id
func (r *MongoSwapRepository) GetByListingID(ctx context.Context, listingID string) (*models.Swap, error) {
	var swap models.Swap
	err := r.collection.FindOne(ctx, bson.M{"listing_id": listingID}).Decode(&swap)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSwapNotFound
		}
		return nil, err
	}
	return &swap, nil
}

// GetTrending retrieves the newest trending listings
func (r *MongoSwapRepository) GetTrending(ctx context.Context, limit int64) ([]models.Swap, error) {
	var swaps []models.Swap
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"trending": true}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &swaps); err != nil {
		return nil, err
	}
	return swaps, nil
}

// ListSwaps retrieves listings matching the filter with pagination,
// newest first, plus the total match count.
func (r *MongoSwapRepository) ListSwaps(ctx context.Context, filter SwapFilter) ([]models.Swap, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" && filter.Category != "all" {
		query["category"] = filter.Category
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Search != "" {
		regex := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"category": regex},
			bson.M{"city": regex},
			bson.M{"country": regex},
		}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	skip := (page - 1) * limit

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	var swaps []models.Swap
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &swaps); err != nil {
		return nil, 0, err
	}
	return swaps, total, nil
}

// AddInterest appends an interest expression to a listing's
// interested_swaps array.
func (r *MongoSwapRepository) AddInterest(ctx context.Context, listingID string, interest models.SwapInterest) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"listing_id": listingID},
		bson.M{
			"$push": bson.M{"interested_swaps": interest},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSwapNotFound
	}
	return nil
}

// UpdateStatus transitions a listing's status
func (r *MongoSwapRepository) UpdateStatus(ctx context.Context, listingID, status string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"listing_id": listingID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSwapNotFound
	}
	return nil
}

// DeleteSwap deletes a listing by its public listing id
func (r *MongoSwapRepository) DeleteSwap(ctx context.Context, listingID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrSwapNotFound
	}
	return nil
}

// GetCategories aggregates accepted listings by category
func (r *MongoSwapRepository) GetCategories(ctx context.Context) ([]models.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.SwapStatusAccepted}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.CategoryCount
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
