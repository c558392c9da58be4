package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/user"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Notifications live for 30 days unless read and deleted earlier.
const notificationTTL = 30 * 24 * time.Hour

type PreferencesInput struct {
	EmailNotifications *bool   `json:"emailNotifications"`
	ApprovalAlerts     *bool   `json:"approvalAlerts"`
	SystemAlerts       *bool   `json:"systemAlerts"`
	DigestFrequency    *string `json:"digestFrequency"`
}

type NotificationService interface {
	// Notify creates a notification and pushes it to the recipient's
	// open websocket connections. Failures are logged and swallowed so
	// the triggering operation is never blocked by its side effects.
	Notify(ctx context.Context, userID primitive.ObjectID, ntype models.NotificationType, title, message string, fileID *primitive.ObjectID)
	// NotifyRoles fans Notify out to every active user holding one of
	// the given roles.
	NotifyRoles(ctx context.Context, roles []models.Role, ntype models.NotificationType, title, message string, fileID *primitive.ObjectID)

	List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit, skip int64) ([]models.Notification, int64, error)
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	SweepExpired(ctx context.Context) (int64, error)

	GetPreferences(ctx context.Context, userID primitive.ObjectID) (*models.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID primitive.ObjectID, input PreferencesInput) (*models.NotificationPreferences, error)
}

type NotificationServiceImpl struct {
	Repo     NotificationRepository
	UserRepo user.UserRepository
	Hub      *Hub
	Logger   *zap.Logger
}

func NewNotificationService(repo NotificationRepository, userRepo user.UserRepository, hub *Hub, logger *zap.Logger) NotificationService {
	return &NotificationServiceImpl{
		Repo:     repo,
		UserRepo: userRepo,
		Hub:      hub,
		Logger:   logger,
	}
}

func (s *NotificationServiceImpl) Notify(ctx context.Context, userID primitive.ObjectID, ntype models.NotificationType, title, message string, fileID *primitive.ObjectID) {
	now := time.Now()
	n := &models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      ntype,
		Title:     title,
		Message:   message,
		FileID:    fileID,
		IsRead:    false,
		CreatedAt: now,
		ExpiresAt: now.Add(notificationTTL),
	}

	if err := s.Repo.Create(ctx, n); err != nil {
		s.Logger.Warn("notification write failed",
			zap.String("userId", userID.Hex()),
			zap.String("type", string(ntype)),
			zap.Error(err))
		return
	}

	s.Hub.Push(userID.Hex(), n)
	s.maybeEmail(ctx, userID, ntype, title, message)
}

func (s *NotificationServiceImpl) NotifyRoles(ctx context.Context, roles []models.Role, ntype models.NotificationType, title, message string, fileID *primitive.ObjectID) {
	recipients, err := s.UserRepo.FindByRoles(ctx, roles)
	if err != nil {
		s.Logger.Warn("notification fanout failed", zap.Error(err))
		return
	}
	for _, recipient := range recipients {
		s.Notify(ctx, recipient.ID, ntype, title, message, fileID)
	}
}

// maybeEmail records an outbound email when the recipient's preferences
// allow it for the notification type. Actual delivery is handled by a
// separate worker draining email_logs.
func (s *NotificationServiceImpl) maybeEmail(ctx context.Context, userID primitive.ObjectID, ntype models.NotificationType, title, message string) {
	prefs, err := s.Repo.GetPreferences(ctx, userID)
	if err != nil {
		s.Logger.Warn("preference lookup failed", zap.Error(err))
		return
	}
	if !prefs.EmailNotifications {
		return
	}
	switch ntype {
	case models.NotificationFileApproved, models.NotificationFileRejected, models.NotificationApprovalRequired:
		if !prefs.ApprovalAlerts {
			return
		}
	case models.NotificationSystem:
		if !prefs.SystemAlerts {
			return
		}
	}

	usr, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return
	}
	if err := s.Repo.RecordEmail(ctx, usr.Email, title, message); err != nil {
		s.Logger.Warn("email record failed", zap.Error(err))
	}
}

func (s *NotificationServiceImpl) List(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit, skip int64) ([]models.Notification, int64, error) {
	if limit == 0 {
		limit = 20
	}
	if limit < 0 {
		return nil, 0, fmt.Errorf("%w: limit must be positive", apperr.ErrInvalidPageSize)
	}
	if skip < 0 {
		skip = 0
	}
	return s.Repo.ListByUser(ctx, userID, unreadOnly, limit, skip)
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.Repo.UnreadCount(ctx, userID)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	err := s.Repo.MarkRead(ctx, id, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: notification %s", apperr.ErrNotFound, id.Hex())
	}
	return err
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.Repo.MarkAllRead(ctx, userID)
}

func (s *NotificationServiceImpl) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	err := s.Repo.Delete(ctx, id, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: notification %s", apperr.ErrNotFound, id.Hex())
	}
	return err
}

func (s *NotificationServiceImpl) SweepExpired(ctx context.Context) (int64, error) {
	return s.Repo.DeleteExpired(ctx, time.Now())
}

func (s *NotificationServiceImpl) GetPreferences(ctx context.Context, userID primitive.ObjectID) (*models.NotificationPreferences, error) {
	return s.Repo.GetPreferences(ctx, userID)
}

func (s *NotificationServiceImpl) UpdatePreferences(ctx context.Context, userID primitive.ObjectID, input PreferencesInput) (*models.NotificationPreferences, error) {
	set := bson.M{}
	if input.EmailNotifications != nil {
		set["email_notifications"] = *input.EmailNotifications
	}
	if input.ApprovalAlerts != nil {
		set["approval_alerts"] = *input.ApprovalAlerts
	}
	if input.SystemAlerts != nil {
		set["system_alerts"] = *input.SystemAlerts
	}
	if input.DigestFrequency != nil {
		switch *input.DigestFrequency {
		case "daily", "weekly", "never":
			set["digest_frequency"] = *input.DigestFrequency
		default:
			return nil, fmt.Errorf("%w: invalid digestFrequency %q", apperr.ErrInvalidFilter, *input.DigestFrequency)
		}
	}
	if len(set) == 0 {
		return s.Repo.GetPreferences(ctx, userID)
	}
	return s.Repo.UpsertPreferences(ctx, userID, set)
}
