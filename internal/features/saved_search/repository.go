package saved_search

import (
	"context"
	"fmt"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SavedSearch struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID     `bson:"user_id" json:"user_id"`
	SearchQuery string                 `bson:"search_query" json:"search_query"`
	Filters     map[string]interface{} `bson:"filters,omitempty" json:"filters,omitempty"`
	CreatedAt   time.Time              `bson:"created_at" json:"created_at"`
}

type SavedSearchRepository interface {
	Insert(ctx context.Context, s *SavedSearch) error
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]SavedSearch, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteOldest(ctx context.Context, userID primitive.ObjectID) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

type SavedSearchRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSavedSearchRepository(mongodb *database.MongodbDB) SavedSearchRepository {
	return &SavedSearchRepositoryImpl{
		Collection: mongodb.DB.Collection("saved_searches"),
	}
}

func (r *SavedSearchRepositoryImpl) Insert(ctx context.Context, s *SavedSearch) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if _, err := r.Collection.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert saved search: %w", err)
	}
	return nil
}

func (r *SavedSearchRepositoryImpl) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]SavedSearch, error) {
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find saved searches: %w", err)
	}
	defer cursor.Close(ctx)

	searches := []SavedSearch{}
	if err := cursor.All(ctx, &searches); err != nil {
		return nil, fmt.Errorf("decode saved searches: %w", err)
	}
	return searches, nil
}

func (r *SavedSearchRepositoryImpl) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"user_id": userID})
}

func (r *SavedSearchRepositoryImpl) DeleteOldest(ctx context.Context, userID primitive.ObjectID) error {
	opts := options.FindOneAndDelete().SetSort(bson.M{"created_at": 1})
	err := r.Collection.FindOneAndDelete(ctx, bson.M{"user_id": userID}, opts).Err()
	if err != nil && err != mongo.ErrNoDocuments {
		return fmt.Errorf("evict saved search: %w", err)
	}
	return nil
}

func (r *SavedSearchRepositoryImpl) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete saved search: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
