package audit

import (
	"errors"
	"testing"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func adminClaims() *utils.UserClaims {
	return &utils.UserClaims{
		UserID: primitive.NewObjectID().Hex(),
		Role:   models.RoleAdmin,
	}
}

func userClaims(id primitive.ObjectID) *utils.UserClaims {
	return &utils.UserClaims{
		UserID: id.Hex(),
		Role:   models.RoleUser,
	}
}

func TestBuildMatchScopesRegularUsers(t *testing.T) {
	caller := primitive.NewObjectID()
	other := primitive.NewObjectID()

	// A regular user asking for someone else's logs still only gets
	// their own.
	match, err := Filters{UserID: other.Hex()}.BuildMatch(userClaims(caller))
	if err != nil {
		t.Fatalf("BuildMatch returned error: %v", err)
	}
	if got := match["user_id"]; got != caller {
		t.Errorf("user_id = %v, want caller %v", got, caller)
	}
}

func TestBuildMatchHonorsUserFilterForAdmins(t *testing.T) {
	target := primitive.NewObjectID()

	match, err := Filters{UserID: target.Hex()}.BuildMatch(adminClaims())
	if err != nil {
		t.Fatalf("BuildMatch returned error: %v", err)
	}
	if got := match["user_id"]; got != target {
		t.Errorf("user_id = %v, want %v", got, target)
	}
}

func TestBuildMatchSentinels(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		absent  []string
	}{
		{
			name:    "empty filters",
			filters: Filters{},
			absent:  []string{"user_id", "action", "resource_type", "resource_id", "success", "timestamp"},
		},
		{
			name:    "all sentinel",
			filters: Filters{Action: "all", ResourceType: "all"},
			absent:  []string{"action", "resource_type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := tt.filters.BuildMatch(adminClaims())
			if err != nil {
				t.Fatalf("BuildMatch returned error: %v", err)
			}
			for _, key := range tt.absent {
				if _, ok := match[key]; ok {
					t.Errorf("key %q should not be constrained, got %v", key, match[key])
				}
			}
		})
	}
}

func TestBuildMatchConstraints(t *testing.T) {
	yes := true
	match, err := Filters{
		Action:       "upload",
		ResourceType: "file",
		Success:      &yes,
		DateFrom:     "2026-01-01",
		DateTo:       "2026-02-01",
	}.BuildMatch(adminClaims())
	if err != nil {
		t.Fatalf("BuildMatch returned error: %v", err)
	}

	if match["action"] != "upload" {
		t.Errorf("action = %v, want upload", match["action"])
	}
	if match["resource_type"] != "file" {
		t.Errorf("resource_type = %v, want file", match["resource_type"])
	}
	if match["success"] != true {
		t.Errorf("success = %v, want true", match["success"])
	}
	if _, ok := match["timestamp"]; !ok {
		t.Error("timestamp range missing")
	}
}

func TestBuildMatchInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
	}{
		{"bad user id", Filters{UserID: "not-hex"}},
		{"bad resource id", Filters{ResourceID: "zzz"}},
		{"bad dateFrom", Filters{DateFrom: "January 1st"}},
		{"bad dateTo", Filters{DateTo: "2026-13-45"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.filters.BuildMatch(adminClaims())
			if !errors.Is(err, apperr.ErrInvalidFilter) {
				t.Errorf("err = %v, want ErrInvalidFilter", err)
			}
		})
	}
}
