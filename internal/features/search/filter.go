package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filters carries every search parameter the catalog endpoints accept.
// Zero values and the "all" sentinel mean "do not constrain".
type Filters struct {
	Query      string
	Status     string
	Category   string
	Department string
	FileType   string
	Tags       []string
	UploadedBy string
	DateFrom   string
	DateTo     string
	MinSize    int64
	MaxSize    int64
}

func isAll(v string) bool {
	return v == "" || v == "all"
}

// BuildMatch compiles the filters into a $match document. Ownership
// scoping happens here so every query path gets it for free: callers
// with the plain user role are always restricted to their own uploads.
func (f Filters) BuildMatch(claims *utils.UserClaims) (bson.M, error) {
	match := bson.M{}

	if !isAll(f.Status) {
		match["status"] = f.Status
	}
	if !isAll(f.Category) {
		match["category"] = f.Category
	}
	if !isAll(f.Department) {
		match["department"] = f.Department
	}
	if !isAll(f.FileType) {
		match["file_type"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.FileType), Options: "i"}
	}
	if len(f.Tags) > 0 {
		match["tags"] = bson.M{"$in": f.Tags}
	}
	if !isAll(f.UploadedBy) {
		id, err := primitive.ObjectIDFromHex(f.UploadedBy)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid uploadedBy %q", apperr.ErrInvalidFilter, f.UploadedBy)
		}
		match["uploaded_by"] = id
	}

	created := bson.M{}
	if f.DateFrom != "" {
		t, err := utils.ParseDate(f.DateFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid dateFrom %q", apperr.ErrInvalidFilter, f.DateFrom)
		}
		created["$gte"] = t
	}
	if f.DateTo != "" {
		t, err := utils.ParseDate(f.DateTo)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid dateTo %q", apperr.ErrInvalidFilter, f.DateTo)
		}
		created["$lte"] = t
	}
	if len(created) > 0 {
		match["created_at"] = created
	}

	if f.MinSize < 0 || f.MaxSize < 0 {
		return nil, fmt.Errorf("%w: negative size bound", apperr.ErrInvalidFilter)
	}
	size := bson.M{}
	if f.MinSize > 0 {
		size["$gte"] = f.MinSize
	}
	if f.MaxSize > 0 {
		size["$lte"] = f.MaxSize
	}
	if len(size) > 0 {
		match["file_size"] = size
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		match["$or"] = bson.A{
			bson.M{"original_name": pattern},
			bson.M{"file_name": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
			bson.M{"category": pattern},
			bson.M{"department": pattern},
		}
	}

	// Ownership scoping happens last so it overrides any uploadedBy the
	// caller supplied. A regular user can never broaden scope beyond
	// their own records.
	if claims != nil && claims.Role == models.RoleUser {
		caller, err := claims.ObjectID()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid caller id", apperr.ErrInvalidFilter)
		}
		match["uploaded_by"] = caller
	}

	return match, nil
}
