package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileStatus string

const (
	FileStatusPendingApproval FileStatus = "pending_approval"
	FileStatusActive          FileStatus = "active"
	FileStatusRejected        FileStatus = "rejected"
	FileStatusArchived        FileStatus = "archived"
)

// FileMetadata is written once at upload; the checksum is never
// recomputed afterwards.
type FileMetadata struct {
	Version        int        `bson:"version" json:"version"`
	Checksum       string     `bson:"checksum" json:"checksum"`
	AccessCount    int64      `bson:"access_count" json:"access_count"`
	LastAccessedAt *time.Time `bson:"last_accessed_at,omitempty" json:"last_accessed_at,omitempty"`
}

type File struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FileName     string              `bson:"file_name" json:"file_name"` // blob store key
	OriginalName string              `bson:"original_name" json:"original_name"`
	FileType     string              `bson:"file_type" json:"file_type"`
	FileSize     int64               `bson:"file_size" json:"file_size"`
	FilePath     string              `bson:"file_path" json:"file_path"`
	UploadedBy   primitive.ObjectID  `bson:"uploaded_by" json:"uploaded_by"`
	Department   string              `bson:"department" json:"department"`
	Category     string              `bson:"category" json:"category"`
	Tags         []string            `bson:"tags" json:"tags"`
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	Status       FileStatus          `bson:"status" json:"status"`
	ApprovedBy   *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
	Metadata     FileMetadata        `bson:"metadata" json:"metadata"`
}
