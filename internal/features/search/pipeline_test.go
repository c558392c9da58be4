package search

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func scoreTerms(t *testing.T, stage bson.M) bson.A {
	t.Helper()
	fields, ok := stage["$addFields"].(bson.M)
	if !ok {
		t.Fatalf("missing $addFields: %v", stage)
	}
	score, ok := fields["relevance_score"].(bson.M)
	if !ok {
		t.Fatalf("missing relevance_score: %v", fields)
	}
	terms, ok := score["$add"].(bson.A)
	if !ok {
		t.Fatalf("missing $add: %v", score)
	}
	return terms
}

func TestRelevanceStageWeights(t *testing.T) {
	terms := scoreTerms(t, RelevanceStage("budget"))

	want := []int{10, 8, 7, 5, 3, 2}
	if len(terms) != len(want) {
		t.Fatalf("terms = %d, want %d", len(terms), len(want))
	}
	for i, term := range terms {
		cond := term.(bson.M)["$cond"].(bson.A)
		if cond[1] != want[i] {
			t.Errorf("term %d weight = %v, want %d", i, cond[1], want[i])
		}
		if cond[2] != 0 {
			t.Errorf("term %d miss value = %v, want 0", i, cond[2])
		}
	}
}

// Regex metacharacters in the query must not leak into the match
// expressions.
func TestRelevanceStageEscapesQuery(t *testing.T) {
	terms := scoreTerms(t, RelevanceStage("a.b(c"))

	cond := terms[0].(bson.M)["$cond"].(bson.A)
	matchExpr := cond[0].(bson.M)["$regexMatch"].(bson.M)
	if matchExpr["regex"] != `a\.b\(c` {
		t.Errorf("regex = %v, want escaped", matchExpr["regex"])
	}
}

// Tag scoring is an exact case-insensitive membership test, not a
// substring match.
func TestRelevanceStageTagTerm(t *testing.T) {
	terms := scoreTerms(t, RelevanceStage("Budget"))

	cond := terms[2].(bson.M)["$cond"].(bson.A)
	in, ok := cond[0].(bson.M)["$in"].(bson.A)
	if !ok {
		t.Fatalf("tag term is not $in: %v", cond[0])
	}
	if in[0] != "budget" {
		t.Errorf("tag needle = %v, want lowercased query", in[0])
	}
}

func TestSortStage(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		scored    bool
		want      bson.D
	}{
		{
			name:   "name ascending",
			sortBy: "name", sortOrder: "asc",
			want: bson.D{{Key: "original_name", Value: 1}},
		},
		{
			name:   "size descending",
			sortBy: "size", sortOrder: "desc",
			want: bson.D{{Key: "file_size", Value: -1}},
		},
		{
			name:   "date default order",
			sortBy: "date",
			want:   bson.D{{Key: "created_at", Value: -1}},
		},
		{
			name:   "relevance with query",
			sortBy: "relevance", scored: true,
			want: bson.D{
				{Key: "relevance_score", Value: -1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			name:   "relevance without query falls back to recency",
			sortBy: "relevance",
			want:   bson.D{{Key: "created_at", Value: -1}},
		},
		{
			name:   "unknown with query scores first",
			sortBy: "", scored: true,
			want: bson.D{
				{Key: "relevance_score", Value: -1},
				{Key: "created_at", Value: -1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := SortStage(tt.sortBy, tt.sortOrder, tt.scored)
			got, ok := stage["$sort"].(bson.D)
			if !ok {
				t.Fatalf("missing $sort: %v", stage)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("sort = %v, want %v", got, tt.want)
			}
		})
	}
}
