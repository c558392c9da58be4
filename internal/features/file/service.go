package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/common/apperr"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/audit"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/notification"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/storage"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var moderatorRoles = []models.Role{models.RoleAdmin, models.RoleManager}

type UploadInput struct {
	OriginalName string
	ContentType  string
	Data         []byte
	Category     string
	Tags         []string
	Description  string
}

type UpdateFileInput struct {
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Category    *string  `json:"category"`
}

type FileService interface {
	Upload(ctx context.Context, claims *utils.UserClaims, input UploadInput) (*models.File, error)
	Get(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID) (*models.File, error)
	Download(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID) (*models.File, []byte, error)
	Update(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID, input UpdateFileInput) (*models.File, error)
	Delete(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID) error
	Approve(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID) (*models.File, error)
	Reject(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID, reason string) (*models.File, error)
	BulkApprove(ctx context.Context, claims *utils.UserClaims, ids []primitive.ObjectID) (int64, error)
	BulkDelete(ctx context.Context, claims *utils.UserClaims, ids []primitive.ObjectID) (int64, error)
}

// The service only needs the recording half of the audit feature and
// the dispatch half of notifications.
type auditTrail interface {
	Record(ctx context.Context, userID primitive.ObjectID, action models.AuditAction, resourceType models.ResourceType, resourceID primitive.ObjectID, details map[string]interface{}, success bool, errorMessage string)
	RecordMany(ctx context.Context, userID primitive.ObjectID, action models.AuditAction, resourceType models.ResourceType, resourceIDs []primitive.ObjectID, details map[string]interface{})
}

type notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, ntype models.NotificationType, title, message string, fileID *primitive.ObjectID)
	NotifyRoles(ctx context.Context, roles []models.Role, ntype models.NotificationType, title, message string, fileID *primitive.ObjectID)
}

type FileServiceImpl struct {
	Repo          FileRepository
	Store         storage.BlobStore
	AuditService  auditTrail
	Notifications notifier
	Logger        *zap.Logger
}

func NewFileService(repo FileRepository, store storage.BlobStore, auditService audit.AuditService, notifications notification.NotificationService, logger *zap.Logger) FileService {
	return &FileServiceImpl{
		Repo:          repo,
		Store:         store,
		AuditService:  auditService,
		Notifications: notifications,
		Logger:        logger,
	}
}

func (s *FileServiceImpl) Upload(ctx context.Context, claims *utils.UserClaims, input UploadInput) (*models.File, error) {
	caller, err := claims.ObjectID()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid caller id", apperr.ErrInvalidFilter)
	}
	if len(input.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", apperr.ErrInvalidFilter)
	}

	sum := sha256.Sum256(input.Data)
	key, err := s.Store.Put(input.OriginalName, input.Data)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	f := &models.File{
		ID:           primitive.NewObjectID(),
		FileName:     key,
		OriginalName: input.OriginalName,
		FileType:     input.ContentType,
		FileSize:     int64(len(input.Data)),
		FilePath:     key,
		UploadedBy:   caller,
		Department:   claims.Department,
		Category:     input.Category,
		Tags:         input.Tags,
		Description:  input.Description,
		Status:       models.FileStatusPendingApproval,
		CreatedAt:    now,
		UpdatedAt:    now,
		Metadata: models.FileMetadata{
			Version:  1,
			Checksum: hex.EncodeToString(sum[:]),
		},
	}

	if err := s.Repo.Insert(ctx, f); err != nil {
		// Orphaned blobs are cheaper than dangling records
		if rmErr := s.Store.Remove(key); rmErr != nil {
			s.Logger.Warn("orphan blob cleanup failed", zap.String("key", key), zap.Error(rmErr))
		}
		return nil, err
	}

	s.AuditService.Record(ctx, caller, models.AuditActionUpload, models.ResourceTypeFile, f.ID,
		map[string]interface{}{"fileName": f.OriginalName, "fileSize": f.FileSize}, true, "")

	s.Notifications.NotifyRoles(ctx, moderatorRoles, models.NotificationApprovalRequired,
		"File awaiting approval",
		fmt.Sprintf("%s uploaded %q and it needs review", claims.Email, f.OriginalName),
		&f.ID)

	return f, nil
}

// visible reports whether the caller may see the file at all. Regular
// users see active files plus everything they uploaded themselves.
func (s *FileServiceImpl) visible(claims *utils.UserClaims, f *models.File) bool {
	if claims.Role.CanModerate() {
		return true
	}
	if f.Status == models.FileStatusActive {
		return true
	}
	caller, err := claims.ObjectID()
	return err == nil && f.UploadedBy == caller
}

func (s *FileServiceImpl) load(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID) (*models.File, error) {
	f, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: file %s", apperr.ErrNotFound, id.Hex())
	}
	if err != nil {
		return nil, err
	}
	if !s.visible(claims, f) {
		return nil, fmt.Errorf("%w: file %s", apperr.ErrPermissionDenied, id.Hex())
	}
	return f, nil
}

func (s *FileServiceImpl) Get(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID) (*models.File, error) {
	f, err := s.load(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	if caller, idErr := claims.ObjectID(); idErr == nil {
		s.AuditService.Record(ctx, caller, models.AuditActionView, models.ResourceTypeFile, f.ID,
			map[string]interface{}{"fileName": f.OriginalName}, true, "")
	}
	return f, nil
}

func (s *FileServiceImpl) Download(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID) (*models.File, []byte, error) {
	f, err := s.load(ctx, claims, id)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.Store.Get(f.FileName)
	if err != nil {
		return nil, nil, err
	}

	if err := s.Repo.RecordAccess(ctx, f.ID); err != nil {
		s.Logger.Warn("access count update failed", zap.String("fileId", f.ID.Hex()), zap.Error(err))
	}

	if caller, idErr := claims.ObjectID(); idErr == nil {
		s.AuditService.Record(ctx, caller, models.AuditActionDownload, models.ResourceTypeFile, f.ID,
			map[string]interface{}{"fileName": f.OriginalName, "fileSize": f.FileSize}, true, "")
	}
	return f, data, nil
}

// canEdit allows the uploader and moderators through.
func (s *FileServiceImpl) canEdit(claims *utils.UserClaims, f *models.File) bool {
	if claims.Role.CanModerate() {
		return true
	}
	caller, err := claims.ObjectID()
	return err == nil && f.UploadedBy == caller
}

func (s *FileServiceImpl) Update(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID, input UpdateFileInput) (*models.File, error) {
	f, err := s.load(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if !s.canEdit(claims, f) {
		return nil, fmt.Errorf("%w: file %s", apperr.ErrPermissionDenied, id.Hex())
	}

	set := bson.M{}
	changed := []string{}
	if input.Description != nil {
		set["description"] = *input.Description
		changed = append(changed, "description")
	}
	if input.Tags != nil {
		set["tags"] = input.Tags
		changed = append(changed, "tags")
	}
	if input.Category != nil {
		set["category"] = *input.Category
		changed = append(changed, "category")
	}
	if len(set) == 0 {
		return f, nil
	}

	if err := s.Repo.UpdateSet(ctx, id, set); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: file %s", apperr.ErrNotFound, id.Hex())
		}
		return nil, err
	}

	if caller, idErr := claims.ObjectID(); idErr == nil {
		s.AuditService.Record(ctx, caller, models.AuditActionEdit, models.ResourceTypeFile, id,
			map[string]interface{}{"fileName": f.OriginalName, "fields": changed}, true, "")
	}
	return s.Repo.FindByID(ctx, id)
}

// Delete archives the record. Content stays in the blob store so the
// audit trail keeps pointing at something real.
func (s *FileServiceImpl) Delete(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID) error {
	f, err := s.load(ctx, claims, id)
	if err != nil {
		return err
	}
	if !s.canEdit(claims, f) {
		return fmt.Errorf("%w: file %s", apperr.ErrPermissionDenied, id.Hex())
	}

	if err := s.Repo.UpdateSet(ctx, id, bson.M{"status": models.FileStatusArchived}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: file %s", apperr.ErrNotFound, id.Hex())
		}
		return err
	}

	if caller, idErr := claims.ObjectID(); idErr == nil {
		s.AuditService.Record(ctx, caller, models.AuditActionDelete, models.ResourceTypeFile, id,
			map[string]interface{}{"fileName": f.OriginalName}, true, "")
	}
	return nil
}

func (s *FileServiceImpl) Approve(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID) (*models.File, error) {
	caller, err := claims.ObjectID()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid caller id", apperr.ErrInvalidFilter)
	}

	now := time.Now()
	err = s.Repo.Transition(ctx, id, models.FileStatusPendingApproval, bson.M{
		"status":      models.FileStatusActive,
		"approved_by": caller,
		"approved_at": now,
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, s.transitionError(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	f, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.AuditService.Record(ctx, caller, models.AuditActionApprove, models.ResourceTypeFile, id,
		map[string]interface{}{"fileName": f.OriginalName}, true, "")

	s.Notifications.Notify(ctx, f.UploadedBy, models.NotificationFileApproved,
		"File approved",
		fmt.Sprintf("Your file %q has been approved", f.OriginalName),
		&f.ID)

	return f, nil
}

func (s *FileServiceImpl) Reject(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID, reason string) (*models.File, error) {
	caller, err := claims.ObjectID()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid caller id", apperr.ErrInvalidFilter)
	}

	err = s.Repo.Transition(ctx, id, models.FileStatusPendingApproval, bson.M{
		"status": models.FileStatusRejected,
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, s.transitionError(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	f, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.AuditService.Record(ctx, caller, models.AuditActionReject, models.ResourceTypeFile, id,
		map[string]interface{}{"fileName": f.OriginalName, "reason": reason}, true, "")

	message := fmt.Sprintf("Your file %q was rejected", f.OriginalName)
	if reason != "" {
		message = fmt.Sprintf("Your file %q was rejected: %s", f.OriginalName, reason)
	}
	s.Notifications.Notify(ctx, f.UploadedBy, models.NotificationFileRejected,
		"File rejected", message, &f.ID)

	return f, nil
}

// transitionError distinguishes a missing file from one that already
// left the pending state.
func (s *FileServiceImpl) transitionError(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.Repo.FindByID(ctx, id); errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: file %s", apperr.ErrNotFound, id.Hex())
	}
	return fmt.Errorf("%w: file %s is not pending approval", apperr.ErrInvalidFilter, id.Hex())
}

// BulkApprove activates every requested file that is still pending and
// reports how many actually moved. Each record goes through the same
// status guard as single approval, so a file a concurrent moderator got
// to first is skipped, not failed, and only the ones that transitioned
// are audited and announced.
func (s *FileServiceImpl) BulkApprove(ctx context.Context, claims *utils.UserClaims, ids []primitive.ObjectID) (int64, error) {
	caller, err := claims.ObjectID()
	if err != nil {
		return 0, fmt.Errorf("%w: invalid caller id", apperr.ErrInvalidFilter)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no file ids given", apperr.ErrInvalidFilter)
	}

	pending, err := s.Repo.PendingAmong(ctx, ids)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	approved := []models.File{}
	for _, f := range pending {
		err := s.Repo.Transition(ctx, f.ID, models.FileStatusPendingApproval, bson.M{
			"status":      models.FileStatusActive,
			"approved_by": caller,
			"approved_at": now,
		})
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return int64(len(approved)), err
		}
		approved = append(approved, f)
	}
	if len(approved) == 0 {
		return 0, nil
	}

	approvedIDs := make([]primitive.ObjectID, len(approved))
	for i, f := range approved {
		approvedIDs[i] = f.ID
	}
	s.AuditService.RecordMany(ctx, caller, models.AuditActionApprove, models.ResourceTypeFile, approvedIDs,
		map[string]interface{}{"bulk": true})

	for _, f := range approved {
		s.Notifications.Notify(ctx, f.UploadedBy, models.NotificationFileApproved,
			"File approved",
			fmt.Sprintf("Your file %q has been approved", f.OriginalName),
			&f.ID)
	}

	return int64(len(approved)), nil
}

// BulkDelete archives every requested file not already archived. The
// transition is guarded on the status each record had when read, so a
// record that changed state mid-flight is left alone rather than
// audited as deleted.
func (s *FileServiceImpl) BulkDelete(ctx context.Context, claims *utils.UserClaims, ids []primitive.ObjectID) (int64, error) {
	caller, err := claims.ObjectID()
	if err != nil {
		return 0, fmt.Errorf("%w: invalid caller id", apperr.ErrInvalidFilter)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no file ids given", apperr.ErrInvalidFilter)
	}

	files, err := s.Repo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	archived := []primitive.ObjectID{}
	for _, f := range files {
		if f.Status == models.FileStatusArchived {
			continue
		}
		err := s.Repo.Transition(ctx, f.ID, f.Status, bson.M{"status": models.FileStatusArchived})
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return int64(len(archived)), err
		}
		archived = append(archived, f.ID)
	}

	if len(archived) > 0 {
		s.AuditService.RecordMany(ctx, caller, models.AuditActionDelete, models.ResourceTypeFile, archived,
			map[string]interface{}{"bulk": true})
	}
	return int64(len(archived)), nil
}
