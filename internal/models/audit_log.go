package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionUpload   AuditAction = "upload"
	AuditActionDownload AuditAction = "download"
	AuditActionView     AuditAction = "view"
	AuditActionEdit     AuditAction = "edit"
	AuditActionDelete   AuditAction = "delete"
	AuditActionApprove  AuditAction = "approve"
	AuditActionReject   AuditAction = "reject"
	AuditActionShare    AuditAction = "share"
	AuditActionLogin    AuditAction = "login"
	AuditActionRegister AuditAction = "register"
)

type ResourceType string

const (
	ResourceTypeFile   ResourceType = "file"
	ResourceTypeUser   ResourceType = "user"
	ResourceTypeSystem ResourceType = "system"
)

// AuditLog is append-only. Timestamps are assigned at write time by the
// recorder, never by callers.
type AuditLog struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID     `bson:"user_id" json:"user_id"`
	Action       AuditAction            `bson:"action" json:"action"`
	ResourceType ResourceType           `bson:"resource_type" json:"resource_type"`
	ResourceID   primitive.ObjectID     `bson:"resource_id" json:"resource_id"`
	Details      map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`
	Timestamp    time.Time              `bson:"timestamp" json:"timestamp"`
	Success      bool                   `bson:"success" json:"success"`
	ErrorMessage string                 `bson:"error_message,omitempty" json:"error_message,omitempty"`
}
