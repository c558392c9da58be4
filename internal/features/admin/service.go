package admin

import (
	"context"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/audit"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/file"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/user"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

type SystemStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	ActiveUsers  int64 `json:"activeUsers"`
	TotalFiles   int64 `json:"totalFiles"`
	PendingFiles int64 `json:"pendingFiles"`
	ActiveFiles  int64 `json:"activeFiles"`
	StorageUsed  int64 `json:"storageUsed"`
	ActionsToday int64 `json:"actionsToday"`
}

type Analytics struct {
	UploadTrend          []file.DailyCount  `json:"uploadTrend"`
	ActivityTrend        []audit.DailyCount `json:"activityTrend"`
	DepartmentStats      []file.GroupTotal  `json:"departmentStats"`
	CategoryDistribution []file.GroupTotal  `json:"categoryDistribution"`
}

type AdminService interface {
	Stats(ctx context.Context) (*SystemStats, error)
	Analytics(ctx context.Context) (*Analytics, error)
}

type AdminServiceImpl struct {
	Files FileStats
	Users UserStats
	Audit ActivityStats
}

// The dashboards only need the aggregation slices of each repository.
type FileStats interface {
	CountsByStatus(ctx context.Context) ([]file.StatusCount, error)
	TotalStorage(ctx context.Context) (int64, error)
	UploadTrend(ctx context.Context, since time.Time) ([]file.DailyCount, error)
	GroupTotals(ctx context.Context, field string) ([]file.GroupTotal, error)
}

type UserStats interface {
	CountByActivity(ctx context.Context) (total, active int64, err error)
}

type ActivityStats interface {
	CountSince(ctx context.Context, since time.Time) (int64, error)
	DailyActivity(ctx context.Context, match bson.M, since time.Time) ([]audit.DailyCount, error)
}

func NewAdminService(files file.FileRepository, users user.UserRepository, activity audit.AuditRepository) AdminService {
	return &AdminServiceImpl{
		Files: files,
		Users: users,
		Audit: activity,
	}
}

func (s *AdminServiceImpl) Stats(ctx context.Context) (*SystemStats, error) {
	totalUsers, activeUsers, err := s.Users.CountByActivity(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.Files.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	storage, err := s.Files.TotalStorage(ctx)
	if err != nil {
		return nil, err
	}

	actionsToday, err := s.Audit.CountSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	stats := &SystemStats{
		TotalUsers:   totalUsers,
		ActiveUsers:  activeUsers,
		StorageUsed:  storage,
		ActionsToday: actionsToday,
	}
	for _, c := range counts {
		stats.TotalFiles += c.Count
		switch c.Status {
		case models.FileStatusPendingApproval:
			stats.PendingFiles = c.Count
		case models.FileStatusActive:
			stats.ActiveFiles = c.Count
		}
	}
	return stats, nil
}

func (s *AdminServiceImpl) Analytics(ctx context.Context) (*Analytics, error) {
	since := time.Now().AddDate(0, 0, -30)

	uploads, err := s.Files.UploadTrend(ctx, since)
	if err != nil {
		return nil, err
	}

	activity, err := s.Audit.DailyActivity(ctx, bson.M{}, since)
	if err != nil {
		return nil, err
	}

	departments, err := s.Files.GroupTotals(ctx, "department")
	if err != nil {
		return nil, err
	}

	categories, err := s.Files.GroupTotals(ctx, "category")
	if err != nil {
		return nil, err
	}

	return &Analytics{
		UploadTrend:          uploads,
		ActivityTrend:        activity,
		DepartmentStats:      departments,
		CategoryDistribution: categories,
	}, nil
}
