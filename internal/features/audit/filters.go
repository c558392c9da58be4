package audit

import (
	"fmt"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filters carries the raw query parameters of the audit endpoints.
// Empty strings mean "no constraint".
type Filters struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	DateFrom     string
	DateTo       string
	Success      *bool
}

// BuildMatch compiles the filters into a Mongo match document. Role
// scoping is enforced here for every audit query path: a caller with
// the plain user role is always restricted to their own entries, no
// matter what userId filter they supplied.
func (f Filters) BuildMatch(claims *utils.UserClaims) (bson.M, error) {
	match := bson.M{}

	if f.UserID != "" {
		oid, err := primitive.ObjectIDFromHex(f.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: userId %q", apperr.ErrInvalidFilter, f.UserID)
		}
		match["user_id"] = oid
	}

	if claims.Role == models.RoleUser {
		callerID, err := claims.ObjectID()
		if err != nil {
			return nil, fmt.Errorf("%w: caller id", apperr.ErrInvalidFilter)
		}
		match["user_id"] = callerID
	}

	if f.Action != "" && f.Action != "all" {
		match["action"] = f.Action
	}
	if f.ResourceType != "" && f.ResourceType != "all" {
		match["resource_type"] = f.ResourceType
	}
	if f.ResourceID != "" {
		oid, err := primitive.ObjectIDFromHex(f.ResourceID)
		if err != nil {
			return nil, fmt.Errorf("%w: resourceId %q", apperr.ErrInvalidFilter, f.ResourceID)
		}
		match["resource_id"] = oid
	}
	if f.Success != nil {
		match["success"] = *f.Success
	}

	if f.DateFrom != "" || f.DateTo != "" {
		timeRange := bson.M{}
		if f.DateFrom != "" {
			from, err := utils.ParseDate(f.DateFrom)
			if err != nil {
				return nil, fmt.Errorf("%w: dateFrom %q", apperr.ErrInvalidFilter, f.DateFrom)
			}
			timeRange["$gte"] = from
		}
		if f.DateTo != "" {
			to, err := utils.ParseDate(f.DateTo)
			if err != nil {
				return nil, fmt.Errorf("%w: dateTo %q", apperr.ErrInvalidFilter, f.DateTo)
			}
			timeRange["$lte"] = to
		}
		match["timestamp"] = timeRange
	}

	return match, nil
}
