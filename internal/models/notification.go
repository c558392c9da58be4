package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationFileApproved     NotificationType = "file_approved"
	NotificationFileRejected     NotificationType = "file_rejected"
	NotificationApprovalRequired NotificationType = "approval_required"
	NotificationSystem           NotificationType = "system"
)

type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Type      NotificationType    `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	FileID    *primitive.ObjectID `bson:"file_id,omitempty" json:"file_id,omitempty"`
	IsRead    bool                `bson:"is_read" json:"is_read"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time           `bson:"expires_at" json:"expires_at"`
}

// NotificationPreferences defaults to everything on with a daily digest
// when a user has never saved them.
type NotificationPreferences struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"user_id" json:"user_id"`
	EmailNotifications bool               `bson:"email_notifications" json:"email_notifications"`
	ApprovalAlerts     bool               `bson:"approval_alerts" json:"approval_alerts"`
	SystemAlerts       bool               `bson:"system_alerts" json:"system_alerts"`
	DigestFrequency    string             `bson:"digest_frequency" json:"digest_frequency"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

func DefaultNotificationPreferences(userID primitive.ObjectID) NotificationPreferences {
	return NotificationPreferences{
		UserID:             userID,
		EmailNotifications: true,
		ApprovalAlerts:     true,
		SystemAlerts:       true,
		DigestFrequency:    "daily",
	}
}
