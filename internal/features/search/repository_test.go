package search

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSuggestFilesPipelineMatchesBothNames(t *testing.T) {
	base := bson.M{"status": "active"}
	pipeline := suggestFilesPipeline(base, "rep", 5)

	match, ok := pipeline[0]["$match"].(bson.M)
	if !ok {
		t.Fatalf("first stage = %v, want $match", pipeline[0])
	}
	if match["status"] != "active" {
		t.Errorf("base constraint dropped: %v", match)
	}
	or, ok := match["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("$or = %v, want display and stored name branches", match["$or"])
	}
	fields := map[string]bool{}
	for _, branch := range or {
		for field := range branch.(bson.M) {
			fields[field] = true
		}
	}
	if !fields["original_name"] || !fields["file_name"] {
		t.Errorf("matched fields = %v, want original_name and file_name", fields)
	}

	if _, ok := base["$or"]; ok {
		t.Error("caller's match document was mutated")
	}

	group, ok := pipeline[1]["$group"].(bson.M)
	if !ok || group["_id"] != "$original_name" {
		t.Errorf("group stage = %v, want grouping by display name", pipeline[1])
	}
	if pipeline[3]["$limit"] != int64(5) {
		t.Errorf("limit = %v, want 5", pipeline[3]["$limit"])
	}
}
