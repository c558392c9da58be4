package audit

import (
	"context"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/database"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActionCount struct {
	Action string `bson:"action" json:"action"`
	Count  int64  `bson:"count" json:"count"`
}

type DailyCount struct {
	Date  string `bson:"date" json:"date"`
	Count int64  `bson:"count" json:"count"`
}

type UserCount struct {
	User  string `bson:"user" json:"user"`
	Count int64  `bson:"count" json:"count"`
}

type Stats struct {
	TotalActions      int64         `json:"total_actions"`
	SuccessfulActions int64         `json:"successful_actions"`
	FailedActions     int64         `json:"failed_actions"`
	UniqueUsers       int64         `json:"unique_users"`
	ActionBreakdown   []ActionCount `json:"action_breakdown"`
	DailyActivity     []DailyCount  `json:"daily_activity"`
	TopUsers          []UserCount   `json:"top_users"`
}

type AuditRepository interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	InsertMany(ctx context.Context, entries []models.AuditLog) error
	List(ctx context.Context, match bson.M, limit, offset int64) ([]models.AuditLog, int64, error)
	BasicStats(ctx context.Context, match bson.M) (total, successful, failed, uniqueUsers int64, err error)
	ActionBreakdown(ctx context.Context, match bson.M) ([]ActionCount, error)
	DailyActivity(ctx context.Context, match bson.M, since time.Time) ([]DailyCount, error)
	TopUsers(ctx context.Context, match bson.M, limit int64) ([]UserCount, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type AuditRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAuditRepository(mongodb *database.MongodbDB) AuditRepository {
	return &AuditRepositoryImpl{
		Collection: mongodb.DB.Collection("audit_logs"),
	}
}

func (r *AuditRepositoryImpl) Insert(ctx context.Context, entry *models.AuditLog) error {
	_, err := r.Collection.InsertOne(ctx, entry)
	return err
}

func (r *AuditRepositoryImpl) InsertMany(ctx context.Context, entries []models.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, len(entries))
	for i := range entries {
		docs[i] = entries[i]
	}
	_, err := r.Collection.InsertMany(ctx, docs)
	return err
}

// List returns one page of entries plus the total over the whole
// filtered set, so page counts stay correct regardless of limit/offset.
func (r *AuditRepositoryImpl) List(ctx context.Context, match bson.M, limit, offset int64) ([]models.AuditLog, int64, error) {
	total, err := r.Collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, match, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var entries []models.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *AuditRepositoryImpl) BasicStats(ctx context.Context, match bson.M) (int64, int64, int64, int64, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":               nil,
			"totalActions":      bson.M{"$sum": 1},
			"successfulActions": bson.M{"$sum": bson.M{"$cond": []interface{}{"$success", 1, 0}}},
			"failedActions":     bson.M{"$sum": bson.M{"$cond": []interface{}{"$success", 0, 1}}},
			"uniqueUsers":       bson.M{"$addToSet": "$user_id"},
		}},
		{"$project": bson.M{
			"totalActions":      1,
			"successfulActions": 1,
			"failedActions":     1,
			"uniqueUsers":       bson.M{"$size": "$uniqueUsers"},
		}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalActions      int64 `bson:"totalActions"`
		SuccessfulActions int64 `bson:"successfulActions"`
		FailedActions     int64 `bson:"failedActions"`
		UniqueUsers       int64 `bson:"uniqueUsers"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, 0, 0, nil
	}
	row := rows[0]
	return row.TotalActions, row.SuccessfulActions, row.FailedActions, row.UniqueUsers, nil
}

func (r *AuditRepositoryImpl) ActionBreakdown(ctx context.Context, match bson.M) ([]ActionCount, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$action", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
		{"$project": bson.M{"action": "$_id", "count": 1, "_id": 0}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var breakdown []ActionCount
	if err := cursor.All(ctx, &breakdown); err != nil {
		return nil, err
	}
	return breakdown, nil
}

func (r *AuditRepositoryImpl) DailyActivity(ctx context.Context, match bson.M, since time.Time) ([]DailyCount, error) {
	scoped := bson.M{}
	for k, v := range match {
		scoped[k] = v
	}
	scoped["timestamp"] = bson.M{"$gte": since}

	pipeline := []bson.M{
		{"$match": scoped},
		{"$group": bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$timestamp"}},
			"count": bson.M{"$sum": 1},
		}},
		{"$sort": bson.M{"_id": 1}},
		{"$project": bson.M{"date": "$_id", "count": 1, "_id": 0}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var daily []DailyCount
	if err := cursor.All(ctx, &daily); err != nil {
		return nil, err
	}
	return daily, nil
}

func (r *AuditRepositoryImpl) TopUsers(ctx context.Context, match bson.M, limit int64) ([]UserCount, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}},
		{"$unwind": "$user"},
		{"$group": bson.M{"_id": "$user.name", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
		{"$limit": limit},
		{"$project": bson.M{"user": "$_id", "count": 1, "_id": 0}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var top []UserCount
	if err := cursor.All(ctx, &top); err != nil {
		return nil, err
	}
	return top, nil
}

func (r *AuditRepositoryImpl) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"timestamp": bson.M{"$gte": since}})
}
