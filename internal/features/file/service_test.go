package file

import (
	"context"
	"testing"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func claimsFor(role models.Role, id primitive.ObjectID) *utils.UserClaims {
	return &utils.UserClaims{UserID: id.Hex(), Role: role}
}

func TestVisible(t *testing.T) {
	svc := &FileServiceImpl{}
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	tests := []struct {
		name   string
		claims *utils.UserClaims
		file   *models.File
		want   bool
	}{
		{
			name:   "admin sees pending",
			claims: claimsFor(models.RoleAdmin, stranger),
			file:   &models.File{UploadedBy: owner, Status: models.FileStatusPendingApproval},
			want:   true,
		},
		{
			name:   "manager sees archived",
			claims: claimsFor(models.RoleManager, stranger),
			file:   &models.File{UploadedBy: owner, Status: models.FileStatusArchived},
			want:   true,
		},
		{
			name:   "user sees active",
			claims: claimsFor(models.RoleUser, stranger),
			file:   &models.File{UploadedBy: owner, Status: models.FileStatusActive},
			want:   true,
		},
		{
			name:   "user sees own pending upload",
			claims: claimsFor(models.RoleUser, owner),
			file:   &models.File{UploadedBy: owner, Status: models.FileStatusPendingApproval},
			want:   true,
		},
		{
			name:   "user cannot see someone else's pending upload",
			claims: claimsFor(models.RoleUser, stranger),
			file:   &models.File{UploadedBy: owner, Status: models.FileStatusPendingApproval},
			want:   false,
		},
		{
			name:   "user cannot see rejected file of others",
			claims: claimsFor(models.RoleUser, stranger),
			file:   &models.File{UploadedBy: owner, Status: models.FileStatusRejected},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.visible(tt.claims, tt.file); got != tt.want {
				t.Errorf("visible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanEdit(t *testing.T) {
	svc := &FileServiceImpl{}
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	f := &models.File{UploadedBy: owner, Status: models.FileStatusActive}

	if !svc.canEdit(claimsFor(models.RoleUser, owner), f) {
		t.Error("uploader should be able to edit")
	}
	if svc.canEdit(claimsFor(models.RoleUser, stranger), f) {
		t.Error("stranger should not be able to edit")
	}
	if !svc.canEdit(claimsFor(models.RoleManager, stranger), f) {
		t.Error("manager should be able to edit")
	}
	if !svc.canEdit(claimsFor(models.RoleAdmin, stranger), f) {
		t.Error("admin should be able to edit")
	}
}

// fakeFileRepo separates what a read sees (snapshot) from the current
// truth (files), so tests can stage a record changing state between the
// bulk read and the guarded transition.
type fakeFileRepo struct {
	snapshot []models.File
	files    map[primitive.ObjectID]*models.File
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func (r *fakeFileRepo) Insert(ctx context.Context, f *models.File) error { return nil }

func (r *fakeFileRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	if f, ok := r.files[id]; ok {
		return f, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeFileRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.File, error) {
	out := []models.File{}
	for _, f := range r.snapshot {
		if containsID(ids, f.ID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) FindNamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	return nil, nil
}

func (r *fakeFileRepo) UpdateSet(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	return nil
}

func (r *fakeFileRepo) RecordAccess(ctx context.Context, id primitive.ObjectID) error { return nil }

func (r *fakeFileRepo) Transition(ctx context.Context, id primitive.ObjectID, from models.FileStatus, set bson.M) error {
	f, ok := r.files[id]
	if !ok || f.Status != from {
		return mongo.ErrNoDocuments
	}
	if status, ok := set["status"].(models.FileStatus); ok {
		f.Status = status
	}
	return nil
}

func (r *fakeFileRepo) PendingAmong(ctx context.Context, ids []primitive.ObjectID) ([]models.File, error) {
	out := []models.File{}
	for _, f := range r.snapshot {
		if f.Status == models.FileStatusPendingApproval && containsID(ids, f.ID) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFileRepo) CountsByStatus(ctx context.Context) ([]StatusCount, error) { return nil, nil }
func (r *fakeFileRepo) TotalStorage(ctx context.Context) (int64, error)           { return 0, nil }
func (r *fakeFileRepo) UploadTrend(ctx context.Context, since time.Time) ([]DailyCount, error) {
	return nil, nil
}
func (r *fakeFileRepo) GroupTotals(ctx context.Context, field string) ([]GroupTotal, error) {
	return nil, nil
}
func (r *fakeFileRepo) EnsureIndexes(ctx context.Context) error { return nil }

type trailRecorder struct {
	bulk []primitive.ObjectID
}

func (t *trailRecorder) Record(ctx context.Context, userID primitive.ObjectID, action models.AuditAction, resourceType models.ResourceType, resourceID primitive.ObjectID, details map[string]interface{}, success bool, errorMessage string) {
}

func (t *trailRecorder) RecordMany(ctx context.Context, userID primitive.ObjectID, action models.AuditAction, resourceType models.ResourceType, resourceIDs []primitive.ObjectID, details map[string]interface{}) {
	t.bulk = append(t.bulk, resourceIDs...)
}

type notifyRecorder struct {
	users []primitive.ObjectID
}

func (n *notifyRecorder) Notify(ctx context.Context, userID primitive.ObjectID, ntype models.NotificationType, title, message string, fileID *primitive.ObjectID) {
	n.users = append(n.users, userID)
}

func (n *notifyRecorder) NotifyRoles(ctx context.Context, roles []models.Role, ntype models.NotificationType, title, message string, fileID *primitive.ObjectID) {
}

func bulkTestService(repo *fakeFileRepo) (*FileServiceImpl, *trailRecorder, *notifyRecorder) {
	trail := &trailRecorder{}
	notes := &notifyRecorder{}
	svc := &FileServiceImpl{
		Repo:          repo,
		AuditService:  trail,
		Notifications: notes,
		Logger:        zap.NewNop(),
	}
	return svc, trail, notes
}

func pendingFile(uploader primitive.ObjectID) models.File {
	return models.File{
		ID:           primitive.NewObjectID(),
		OriginalName: "doc.pdf",
		UploadedBy:   uploader,
		Status:       models.FileStatusPendingApproval,
	}
}

func TestBulkApproveAuditsOnlyTransitioned(t *testing.T) {
	uploader := primitive.NewObjectID()
	moderator := primitive.NewObjectID()

	stillPending := pendingFile(uploader)
	raced := pendingFile(uploader)
	alreadyActive := pendingFile(uploader)
	alreadyActive.Status = models.FileStatusActive

	repo := &fakeFileRepo{
		// The read saw raced as pending; by transition time another
		// moderator had approved it.
		snapshot: []models.File{stillPending, raced, alreadyActive},
		files: map[primitive.ObjectID]*models.File{
			stillPending.ID:  {ID: stillPending.ID, UploadedBy: uploader, Status: models.FileStatusPendingApproval},
			raced.ID:         {ID: raced.ID, UploadedBy: uploader, Status: models.FileStatusActive},
			alreadyActive.ID: {ID: alreadyActive.ID, UploadedBy: uploader, Status: models.FileStatusActive},
		},
	}
	svc, trail, notes := bulkTestService(repo)

	modified, err := svc.BulkApprove(context.Background(),
		claimsFor(models.RoleManager, moderator),
		[]primitive.ObjectID{stillPending.ID, raced.ID, alreadyActive.ID})
	if err != nil {
		t.Fatalf("BulkApprove: %v", err)
	}

	if modified != 1 {
		t.Errorf("modified = %d, want 1", modified)
	}
	if len(trail.bulk) != 1 || trail.bulk[0] != stillPending.ID {
		t.Errorf("audited ids = %v, want only %v", trail.bulk, stillPending.ID)
	}
	if len(notes.users) != 1 {
		t.Errorf("notified %d uploaders, want 1", len(notes.users))
	}
	if repo.files[stillPending.ID].Status != models.FileStatusActive {
		t.Errorf("pending file status = %v, want active", repo.files[stillPending.ID].Status)
	}
}

func TestBulkDeleteSkipsUnchangedRecords(t *testing.T) {
	uploader := primitive.NewObjectID()
	moderator := primitive.NewObjectID()

	active := pendingFile(uploader)
	active.Status = models.FileStatusActive
	archived := pendingFile(uploader)
	archived.Status = models.FileStatusArchived
	raced := pendingFile(uploader)
	raced.Status = models.FileStatusActive

	repo := &fakeFileRepo{
		// raced was archived by someone else after the read.
		snapshot: []models.File{active, archived, raced},
		files: map[primitive.ObjectID]*models.File{
			active.ID:   {ID: active.ID, UploadedBy: uploader, Status: models.FileStatusActive},
			archived.ID: {ID: archived.ID, UploadedBy: uploader, Status: models.FileStatusArchived},
			raced.ID:    {ID: raced.ID, UploadedBy: uploader, Status: models.FileStatusArchived},
		},
	}
	svc, trail, _ := bulkTestService(repo)

	modified, err := svc.BulkDelete(context.Background(),
		claimsFor(models.RoleManager, moderator),
		[]primitive.ObjectID{active.ID, archived.ID, raced.ID})
	if err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}

	if modified != 1 {
		t.Errorf("modified = %d, want 1", modified)
	}
	if len(trail.bulk) != 1 || trail.bulk[0] != active.ID {
		t.Errorf("audited ids = %v, want only %v", trail.bulk, active.ID)
	}
}
