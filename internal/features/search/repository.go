package search

import (
	"context"
	"fmt"
	"regexp"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/database"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Result is a catalog hit with the uploader joined in and the computed
// relevance score exposed.
type Result struct {
	models.File    `bson:",inline"`
	Uploader       *models.UserRef `bson:"uploader,omitempty" json:"uploader,omitempty"`
	RelevanceScore int             `bson:"relevance_score,omitempty" json:"relevanceScore,omitempty"`
}

type Suggestion struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type TagCount struct {
	Tag   string `bson:"_id" json:"tag"`
	Count int64  `bson:"count" json:"count"`
}

type TypeCount struct {
	FileType  string `bson:"_id" json:"fileType"`
	Count     int64  `bson:"count" json:"count"`
	TotalSize int64  `bson:"total_size" json:"totalSize"`
}

type SearchRepository interface {
	Search(ctx context.Context, match bson.M, query string, sort bson.M, limit, skip int64) ([]Result, int64, error)
	SuggestFiles(ctx context.Context, match bson.M, prefix string, limit int64) ([]string, error)
	SuggestDistinct(ctx context.Context, match bson.M, field, prefix string, limit int64) ([]string, error)
	PopularTags(ctx context.Context, match bson.M, limit int64) ([]TagCount, error)
	TypeBreakdown(ctx context.Context, match bson.M) ([]TypeCount, error)
}

type SearchRepositoryImpl struct {
	fileColl *mongo.Collection
}

func NewSearchRepository(db *database.MongodbDB) SearchRepository {
	return &SearchRepositoryImpl{
		fileColl: db.DB.Collection("files"),
	}
}

func (r *SearchRepositoryImpl) Search(ctx context.Context, match bson.M, query string, sort bson.M, limit, skip int64) ([]Result, int64, error) {
	total, err := r.fileColl.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("count search results: %w", err)
	}

	pipeline := []bson.M{{"$match": match}}
	if query != "" {
		pipeline = append(pipeline, RelevanceStage(query))
	}
	pipeline = append(pipeline,
		sort,
		bson.M{"$skip": skip},
		bson.M{"$limit": limit},
		bson.M{"$lookup": bson.M{
			"from":         "users",
			"localField":   "uploaded_by",
			"foreignField": "_id",
			"as":           "uploader",
		}},
		bson.M{"$unwind": bson.M{
			"path":                       "$uploader",
			"preserveNullAndEmptyArrays": true,
		}},
		bson.M{"$addFields": bson.M{
			"uploader": bson.M{
				"_id":   "$uploader._id",
				"name":  "$uploader.name",
				"email": "$uploader.email",
			},
		}},
	)

	cursor, err := r.fileColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("search files: %w", err)
	}
	defer cursor.Close(ctx)

	results := []Result{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("decode search results: %w", err)
	}
	return results, total, nil
}

// SuggestFiles returns distinct display names of files whose display
// or stored name matches the prefix.
func (r *SearchRepositoryImpl) SuggestFiles(ctx context.Context, match bson.M, prefix string, limit int64) ([]string, error) {
	return r.distinctStrings(ctx, suggestFilesPipeline(match, prefix, limit))
}

func suggestFilesPipeline(match bson.M, prefix string, limit int64) []bson.M {
	m := bson.M{}
	for k, v := range match {
		m[k] = v
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(prefix), Options: "i"}
	m["$or"] = bson.A{
		bson.M{"original_name": pattern},
		bson.M{"file_name": pattern},
	}

	return []bson.M{
		{"$match": m},
		{"$group": bson.M{"_id": "$original_name"}},
		{"$sort": bson.M{"_id": 1}},
		{"$limit": limit},
	}
}

// SuggestDistinct returns distinct values of a scalar or array field
// matching the prefix, most frequent first. For array fields the values
// are unwound before grouping.
func (r *SearchRepositoryImpl) SuggestDistinct(ctx context.Context, match bson.M, field, prefix string, limit int64) ([]string, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(prefix), Options: "i"}

	pipeline := []bson.M{{"$match": match}}
	if field == "tags" {
		pipeline = append(pipeline, bson.M{"$unwind": "$tags"})
	}
	pipeline = append(pipeline,
		bson.M{"$match": bson.M{field: pattern}},
		bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
		bson.M{"$sort": bson.M{"count": -1, "_id": 1}},
		bson.M{"$limit": limit},
	)
	return r.distinctStrings(ctx, pipeline)
}

func (r *SearchRepositoryImpl) distinctStrings(ctx context.Context, pipeline []bson.M) ([]string, error) {
	cursor, err := r.fileColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate suggestions: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Value string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Value != "" {
			values = append(values, row.Value)
		}
	}
	return values, nil
}

func (r *SearchRepositoryImpl) PopularTags(ctx context.Context, match bson.M, limit int64) ([]TagCount, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$unwind": "$tags"},
		{"$group": bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
		{"$limit": limit},
	}

	cursor, err := r.fileColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate popular tags: %w", err)
	}
	defer cursor.Close(ctx)

	tags := []TagCount{}
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, fmt.Errorf("decode popular tags: %w", err)
	}
	return tags, nil
}

func (r *SearchRepositoryImpl) TypeBreakdown(ctx context.Context, match bson.M) ([]TypeCount, error) {
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":        "$file_type",
			"count":      bson.M{"$sum": 1},
			"total_size": bson.M{"$sum": "$file_size"},
		}},
		{"$sort": bson.M{"count": -1}},
	}

	cursor, err := r.fileColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate type breakdown: %w", err)
	}
	defer cursor.Close(ctx)

	types := []TypeCount{}
	if err := cursor.All(ctx, &types); err != nil {
		return nil, fmt.Errorf("decode type breakdown: %w", err)
	}
	return types, nil
}
