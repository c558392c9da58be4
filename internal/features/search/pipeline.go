package search

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Field weights for the relevance score. A term that hits the display
// name dominates; department matches barely nudge the ordering.
const (
	weightOriginalName = 10
	weightFileName     = 8
	weightTags         = 7
	weightDescription  = 5
	weightCategory     = 3
	weightDepartment   = 2
)

func caseInsensitive(field, query string) bson.M {
	return bson.M{"$regexMatch": bson.M{
		"input":   bson.M{"$ifNull": bson.A{"$" + field, ""}},
		"regex":   regexp.QuoteMeta(query),
		"options": "i",
	}}
}

func weighted(cond bson.M, weight int) bson.M {
	return bson.M{"$cond": bson.A{cond, weight, 0}}
}

// RelevanceStage builds the $addFields stage that attaches a
// relevanceScore to every document. Substring matches count for text
// fields; tags only score on an exact case-insensitive membership test.
func RelevanceStage(query string) bson.M {
	tagMatch := bson.M{"$in": bson.A{
		strings.ToLower(query),
		bson.M{"$map": bson.M{
			"input": bson.M{"$ifNull": bson.A{"$tags", bson.A{}}},
			"as":    "tag",
			"in":    bson.M{"$toLower": "$$tag"},
		}},
	}}

	return bson.M{"$addFields": bson.M{
		"relevance_score": bson.M{"$add": bson.A{
			weighted(caseInsensitive("original_name", query), weightOriginalName),
			weighted(caseInsensitive("file_name", query), weightFileName),
			weighted(tagMatch, weightTags),
			weighted(caseInsensitive("description", query), weightDescription),
			weighted(caseInsensitive("category", query), weightCategory),
			weighted(caseInsensitive("department", query), weightDepartment),
		}},
	}}
}

// SortStage maps the public sortBy values onto a $sort document. With a
// query present the default is relevance first, recency as tiebreak.
func SortStage(sortBy, sortOrder string, scored bool) bson.M {
	order := -1
	if sortOrder == "asc" {
		order = 1
	}

	switch sortBy {
	case "name":
		return bson.M{"$sort": bson.D{{Key: "original_name", Value: order}}}
	case "size":
		return bson.M{"$sort": bson.D{{Key: "file_size", Value: order}}}
	case "date":
		return bson.M{"$sort": bson.D{{Key: "created_at", Value: order}}}
	case "relevance":
		if scored {
			return bson.M{"$sort": bson.D{
				{Key: "relevance_score", Value: -1},
				{Key: "created_at", Value: -1},
			}}
		}
		return bson.M{"$sort": bson.D{{Key: "created_at", Value: -1}}}
	default:
		if scored {
			return bson.M{"$sort": bson.D{
				{Key: "relevance_score", Value: -1},
				{Key: "created_at", Value: -1},
			}}
		}
		return bson.M{"$sort": bson.D{{Key: "created_at", Value: order}}}
	}
}
