package search

import (
	"errors"
	"testing"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func managerClaims() *utils.UserClaims {
	return &utils.UserClaims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   models.RoleManager,
	}
}

func regularClaims(id primitive.ObjectID) *utils.UserClaims {
	return &utils.UserClaims{
		UserID: id.Hex(),
		Role:   models.RoleUser,
	}
}

func TestBuildMatchSentinelValues(t *testing.T) {
	match, err := Filters{
		Status:     "all",
		Category:   "",
		Department: "all",
		FileType:   "all",
		UploadedBy: "all",
	}.BuildMatch(managerClaims())
	if err != nil {
		t.Fatalf("BuildMatch: %v", err)
	}
	if len(match) != 0 {
		t.Errorf("match = %v, want empty", match)
	}
}

func TestBuildMatchBasicConstraints(t *testing.T) {
	uploader := primitive.NewObjectID()
	match, err := Filters{
		Status:     "active",
		Category:   "reports",
		Department: "Finance",
		FileType:   "application/pdf",
		Tags:       []string{"budget", "q2"},
		UploadedBy: uploader.Hex(),
		MinSize:    100,
		MaxSize:    5000,
	}.BuildMatch(managerClaims())
	if err != nil {
		t.Fatalf("BuildMatch: %v", err)
	}

	if match["status"] != "active" {
		t.Errorf("status = %v", match["status"])
	}
	if match["uploaded_by"] != uploader {
		t.Errorf("uploaded_by = %v, want %v", match["uploaded_by"], uploader)
	}
	size, ok := match["file_size"].(bson.M)
	if !ok || size["$gte"] != int64(100) || size["$lte"] != int64(5000) {
		t.Errorf("file_size = %v", match["file_size"])
	}
	tags, ok := match["tags"].(bson.M)
	if !ok {
		t.Fatalf("tags = %v", match["tags"])
	}
	if got := tags["$in"].([]string); len(got) != 2 {
		t.Errorf("tags $in = %v", got)
	}
}

func TestBuildMatchDateRange(t *testing.T) {
	match, err := Filters{
		DateFrom: "2026-01-01",
		DateTo:   "2026-06-30",
	}.BuildMatch(managerClaims())
	if err != nil {
		t.Fatalf("BuildMatch: %v", err)
	}
	created, ok := match["created_at"].(bson.M)
	if !ok {
		t.Fatalf("created_at = %v", match["created_at"])
	}
	if _, ok := created["$gte"]; !ok {
		t.Error("missing $gte bound")
	}
	if _, ok := created["$lte"]; !ok {
		t.Error("missing $lte bound")
	}
}

func TestBuildMatchInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
	}{
		{"bad uploadedBy", Filters{UploadedBy: "nope"}},
		{"bad dateFrom", Filters{DateFrom: "soon"}},
		{"bad dateTo", Filters{DateTo: "31/12/2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.filters.BuildMatch(managerClaims())
			if !errors.Is(err, apperr.ErrInvalidFilter) {
				t.Errorf("err = %v, want ErrInvalidFilter", err)
			}
		})
	}
}

// A regular user is always restricted to their own uploads, even when
// they supply someone else's uploadedBy filter.
func TestBuildMatchOwnershipScoping(t *testing.T) {
	caller := primitive.NewObjectID()
	other := primitive.NewObjectID()

	match, err := Filters{UploadedBy: other.Hex()}.BuildMatch(regularClaims(caller))
	if err != nil {
		t.Fatalf("BuildMatch: %v", err)
	}
	if got := match["uploaded_by"]; got != caller {
		t.Errorf("uploaded_by = %v, want caller %v", got, caller)
	}
}

// Ownership scoping must not disturb the free-text $or clause.
func TestBuildMatchOwnershipWithQuery(t *testing.T) {
	caller := primitive.NewObjectID()

	match, err := Filters{Query: "budget"}.BuildMatch(regularClaims(caller))
	if err != nil {
		t.Fatalf("BuildMatch: %v", err)
	}
	if got := match["uploaded_by"]; got != caller {
		t.Errorf("uploaded_by = %v, want caller %v", got, caller)
	}
	or, ok := match["$or"].(bson.A)
	if !ok || len(or) != 6 {
		t.Errorf("free-text $or = %v, want 6 branches", match["$or"])
	}
}

func TestBuildMatchModeratorsUnscoped(t *testing.T) {
	uploader := primitive.NewObjectID()

	match, err := Filters{UploadedBy: uploader.Hex()}.BuildMatch(managerClaims())
	if err != nil {
		t.Fatalf("BuildMatch: %v", err)
	}
	if got := match["uploaded_by"]; got != uploader {
		t.Errorf("uploaded_by = %v, want supplied filter %v", got, uploader)
	}
}

func TestBuildMatchNegativeSize(t *testing.T) {
	_, err := Filters{MinSize: -1}.BuildMatch(managerClaims())
	if !errors.Is(err, apperr.ErrInvalidFilter) {
		t.Errorf("err = %v, want ErrInvalidFilter", err)
	}
}

func TestBuildMatchTrimsQuery(t *testing.T) {
	match, err := Filters{Query: "   "}.BuildMatch(managerClaims())
	if err != nil {
		t.Fatalf("BuildMatch: %v", err)
	}
	if _, ok := match["$or"]; ok {
		t.Errorf("whitespace query produced a text clause: %v", match)
	}
}
