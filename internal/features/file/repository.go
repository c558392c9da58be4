package file

import (
	"context"
	"fmt"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/database"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type StatusCount struct {
	Status models.FileStatus `bson:"_id" json:"status"`
	Count  int64             `bson:"count" json:"count"`
}

type DailyCount struct {
	Date  string `bson:"_id" json:"date"`
	Count int64  `bson:"count" json:"count"`
}

type GroupTotal struct {
	Key       string `bson:"_id" json:"key"`
	Count     int64  `bson:"count" json:"count"`
	TotalSize int64  `bson:"total_size" json:"totalSize"`
}

type FileRepository interface {
	Insert(ctx context.Context, f *models.File) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.File, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.File, error)
	FindNamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
	UpdateSet(ctx context.Context, id primitive.ObjectID, set bson.M) error
	RecordAccess(ctx context.Context, id primitive.ObjectID) error
	Transition(ctx context.Context, id primitive.ObjectID, from models.FileStatus, set bson.M) error
	PendingAmong(ctx context.Context, ids []primitive.ObjectID) ([]models.File, error)

	CountsByStatus(ctx context.Context) ([]StatusCount, error)
	TotalStorage(ctx context.Context) (int64, error)
	UploadTrend(ctx context.Context, since time.Time) ([]DailyCount, error)
	GroupTotals(ctx context.Context, field string) ([]GroupTotal, error)
	EnsureIndexes(ctx context.Context) error
}

type FileRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFileRepository(mongodb *database.MongodbDB) FileRepository {
	return &FileRepositoryImpl{
		Collection: mongodb.DB.Collection("files"),
	}
}

func (r *FileRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "uploaded_by", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
	return err
}

func (r *FileRepositoryImpl) Insert(ctx context.Context, f *models.File) error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, f)
	return err
}

func (r *FileRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	var f models.File
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FileRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.File, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepositoryImpl) FindNamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	files, err := r.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(files))
	for _, f := range files {
		names[f.ID] = f.OriginalName
	}
	return names, nil
}

func (r *FileRepositoryImpl) UpdateSet(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now()
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *FileRepositoryImpl) RecordAccess(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"metadata.access_count": 1},
		"$set": bson.M{"metadata.last_accessed_at": time.Now()},
	})
	return err
}

// Transition applies the update only when the file is still in the
// expected state, so concurrent moderation cannot double-apply.
func (r *FileRepositoryImpl) Transition(ctx context.Context, id primitive.ObjectID, from models.FileStatus, set bson.M) error {
	set["updated_at"] = time.Now()
	result, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *FileRepositoryImpl) PendingAmong(ctx context.Context, ids []primitive.ObjectID) ([]models.File, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{
		"_id":    bson.M{"$in": ids},
		"status": models.FileStatusPendingApproval,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var files []models.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (r *FileRepositoryImpl) CountsByStatus(ctx context.Context) ([]StatusCount, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate status counts: %w", err)
	}
	defer cursor.Close(ctx)

	counts := []StatusCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("decode status counts: %w", err)
	}
	return counts, nil
}

func (r *FileRepositoryImpl) TotalStorage(ctx context.Context) (int64, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$file_size"}}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("aggregate storage total: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode storage total: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *FileRepositoryImpl) UploadTrend(ctx context.Context, since time.Time) ([]DailyCount, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"created_at": bson.M{"$gte": since}}},
		{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$created_at",
			}},
			"count": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"_id": 1}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate upload trend: %w", err)
	}
	defer cursor.Close(ctx)

	trend := []DailyCount{}
	if err := cursor.All(ctx, &trend); err != nil {
		return nil, fmt.Errorf("decode upload trend: %w", err)
	}
	return trend, nil
}

// GroupTotals buckets files by an arbitrary scalar field, used for the
// department and category dashboards.
func (r *FileRepositoryImpl) GroupTotals(ctx context.Context, field string) ([]GroupTotal, error) {
	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":        "$" + field,
			"count":      bson.M{"$sum": 1},
			"total_size": bson.M{"$sum": "$file_size"},
		}},
		{"$sort": bson.M{"count": -1}},
	}
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s totals: %w", field, err)
	}
	defer cursor.Close(ctx)

	totals := []GroupTotal{}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("decode %s totals: %w", field, err)
	}
	return totals, nil
}
