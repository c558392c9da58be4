package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const exportCap = 10000

// UserFinder resolves user ids to their minimal projections.
type UserFinder interface {
	FindRefsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error)
}

// FileNamer resolves file ids to their original names.
type FileNamer interface {
	FindNamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

// Entry is an audit log joined with its user and resource projections.
type Entry struct {
	models.AuditLog
	User         *models.UserRef `json:"user,omitempty"`
	ResourceName string          `json:"resource_name,omitempty"`
}

type AuditService interface {
	// Record appends an audit entry, best effort: failures are logged
	// and swallowed so the primary operation never fails or rolls back
	// because of its audit trail.
	Record(ctx context.Context, userID primitive.ObjectID, action models.AuditAction, resourceType models.ResourceType, resourceID primitive.ObjectID, details map[string]interface{}, success bool, errorMessage string)
	// RecordMany appends one entry per resource id, same policy.
	RecordMany(ctx context.Context, userID primitive.ObjectID, action models.AuditAction, resourceType models.ResourceType, resourceIDs []primitive.ObjectID, details map[string]interface{})

	Query(ctx context.Context, filters Filters, claims *utils.UserClaims, limit, offset int64) ([]Entry, int64, error)
	Stats(ctx context.Context, filters Filters, claims *utils.UserClaims) (*Stats, error)
	Export(ctx context.Context, filters Filters, claims *utils.UserClaims, format string) ([]byte, string, error)
}

type AuditServiceImpl struct {
	Repo     AuditRepository
	Logger   *zap.Logger
	resolver map[models.ResourceType]func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
	users    UserFinder
}

func NewAuditService(repo AuditRepository, users UserFinder, files FileNamer, logger *zap.Logger) AuditService {
	s := &AuditServiceImpl{
		Repo:   repo,
		Logger: logger,
		users:  users,
	}

	// Audit entries reference files or users through a single id field;
	// resolution dispatches on the resource type tag.
	s.resolver = map[models.ResourceType]func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error){
		models.ResourceTypeFile: files.FindNamesByIDs,
		models.ResourceTypeUser: func(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
			refs, err := users.FindRefsByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			names := make(map[primitive.ObjectID]string, len(refs))
			for id, ref := range refs {
				names[id] = ref.Name
			}
			return names, nil
		},
	}
	return s
}

func (s *AuditServiceImpl) Record(ctx context.Context, userID primitive.ObjectID, action models.AuditAction, resourceType models.ResourceType, resourceID primitive.ObjectID, details map[string]interface{}, success bool, errorMessage string) {
	entry := &models.AuditLog{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		Timestamp:    time.Now(),
		Success:      success,
		ErrorMessage: errorMessage,
	}

	if err := s.Repo.Insert(ctx, entry); err != nil {
		s.Logger.Warn("audit write failed",
			zap.String("action", string(action)),
			zap.String("resourceId", resourceID.Hex()),
			zap.Error(err))
	}
}

func (s *AuditServiceImpl) RecordMany(ctx context.Context, userID primitive.ObjectID, action models.AuditAction, resourceType models.ResourceType, resourceIDs []primitive.ObjectID, details map[string]interface{}) {
	now := time.Now()
	entries := make([]models.AuditLog, 0, len(resourceIDs))
	for _, rid := range resourceIDs {
		entries = append(entries, models.AuditLog{
			ID:           primitive.NewObjectID(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   rid,
			Details:      details,
			Timestamp:    now,
			Success:      true,
		})
	}

	if err := s.Repo.InsertMany(ctx, entries); err != nil {
		s.Logger.Warn("bulk audit write failed",
			zap.String("action", string(action)),
			zap.Int("count", len(resourceIDs)),
			zap.Error(err))
	}
}

func (s *AuditServiceImpl) Query(ctx context.Context, filters Filters, claims *utils.UserClaims, limit, offset int64) ([]Entry, int64, error) {
	if limit == 0 {
		limit = 100
	}
	if limit < 0 {
		return nil, 0, fmt.Errorf("%w: %d", apperr.ErrInvalidPageSize, limit)
	}
	if offset < 0 {
		offset = 0
	}

	match, err := filters.BuildMatch(claims)
	if err != nil {
		return nil, 0, err
	}

	logs, total, err := s.Repo.List(ctx, match, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	entries, err := s.join(ctx, logs)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// join attaches user projections and resolves resource names via the
// per-type dispatch table.
func (s *AuditServiceImpl) join(ctx context.Context, logs []models.AuditLog) ([]Entry, error) {
	userIDs := make([]primitive.ObjectID, 0)
	idsByType := make(map[models.ResourceType][]primitive.ObjectID)
	seenUsers := make(map[primitive.ObjectID]bool)

	for _, l := range logs {
		if !seenUsers[l.UserID] {
			seenUsers[l.UserID] = true
			userIDs = append(userIDs, l.UserID)
		}
		idsByType[l.ResourceType] = append(idsByType[l.ResourceType], l.ResourceID)
	}

	userRefs := map[primitive.ObjectID]models.UserRef{}
	if len(userIDs) > 0 {
		refs, err := s.users.FindRefsByIDs(ctx, userIDs)
		if err == nil {
			userRefs = refs
		}
	}

	resourceNames := make(map[models.ResourceType]map[primitive.ObjectID]string)
	for rtype, ids := range idsByType {
		resolve, ok := s.resolver[rtype]
		if !ok {
			continue
		}
		if names, err := resolve(ctx, ids); err == nil {
			resourceNames[rtype] = names
		}
	}

	entries := make([]Entry, len(logs))
	for i, l := range logs {
		entry := Entry{AuditLog: l}
		if ref, ok := userRefs[l.UserID]; ok {
			entry.User = &ref
		}
		if names, ok := resourceNames[l.ResourceType]; ok {
			entry.ResourceName = names[l.ResourceID]
		}
		entries[i] = entry
	}
	return entries, nil
}

func (s *AuditServiceImpl) Stats(ctx context.Context, filters Filters, claims *utils.UserClaims) (*Stats, error) {
	match, err := filters.BuildMatch(claims)
	if err != nil {
		return nil, err
	}

	total, successful, failed, uniqueUsers, err := s.Repo.BasicStats(ctx, match)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.Repo.ActionBreakdown(ctx, match)
	if err != nil {
		return nil, err
	}

	daily, err := s.Repo.DailyActivity(ctx, match, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalActions:      total,
		SuccessfulActions: successful,
		FailedActions:     failed,
		UniqueUsers:       uniqueUsers,
		ActionBreakdown:   breakdown,
		DailyActivity:     daily,
		TopUsers:          []UserCount{},
	}

	// The most-active ranking is a moderation view only
	if claims.Role.CanModerate() {
		top, err := s.Repo.TopUsers(ctx, match, 10)
		if err != nil {
			return nil, err
		}
		stats.TopUsers = top
	}

	return stats, nil
}

func (s *AuditServiceImpl) Export(ctx context.Context, filters Filters, claims *utils.UserClaims, format string) ([]byte, string, error) {
	entries, _, err := s.Query(ctx, filters, claims, exportCap, 0)
	if err != nil {
		return nil, "", err
	}

	date := time.Now().Format("2006-01-02")
	switch format {
	case "json":
		data, err := ExportJSON(entries)
		return data, fmt.Sprintf("audit-report-%s.json", date), err
	case "xlsx":
		data, err := ExportXLSX(entries)
		return data, fmt.Sprintf("audit-report-%s.xlsx", date), err
	case "", "csv":
		data, err := ExportCSV(entries)
		return data, fmt.Sprintf("audit-report-%s.csv", date), err
	default:
		return nil, "", fmt.Errorf("%w: unsupported export format %q", apperr.ErrInvalidFilter, format)
	}
}
