package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/database"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit, skip int64) ([]models.Notification, int64, error)
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	GetPreferences(ctx context.Context, userID primitive.ObjectID) (*models.NotificationPreferences, error)
	UpsertPreferences(ctx context.Context, userID primitive.ObjectID, set bson.M) (*models.NotificationPreferences, error)

	RecordEmail(ctx context.Context, to, subject, body string) error
}

type NotificationRepositoryImpl struct {
	notifColl *mongo.Collection
	prefColl  *mongo.Collection
	emailColl *mongo.Collection
}

func NewNotificationRepository(db *database.MongodbDB) NotificationRepository {
	return &NotificationRepositoryImpl{
		notifColl: db.DB.Collection("notifications"),
		prefColl:  db.DB.Collection("notification_preferences"),
		emailColl: db.DB.Collection("email_logs"),
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, n *models.Notification) error {
	if _, err := r.notifColl.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepositoryImpl) ListByUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, limit, skip int64) ([]models.Notification, int64, error) {
	filter := bson.M{"user_id": userID}
	if unreadOnly {
		filter["is_read"] = false
	}

	total, err := r.notifColl.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.notifColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, fmt.Errorf("decode notifications: %w", err)
	}
	return notifications, total, nil
}

func (r *NotificationRepositoryImpl) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.notifColl.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead is idempotent: marking an already-read notification succeeds
// without touching the document.
func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := r.notifColl.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := r.notifColl.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *NotificationRepositoryImpl) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := r.notifColl.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.notifColl.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *NotificationRepositoryImpl) GetPreferences(ctx context.Context, userID primitive.ObjectID) (*models.NotificationPreferences, error) {
	var prefs models.NotificationPreferences
	err := r.prefColl.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prefs)
	if err == mongo.ErrNoDocuments {
		defaults := models.DefaultNotificationPreferences(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find notification preferences: %w", err)
	}
	return &prefs, nil
}

// preferenceInsertDoc builds the $setOnInsert side of the preferences
// upsert: the advertised defaults for every field the update leaves
// alone, so a first partial save does not create a document whose
// unset booleans decode as false. Mongo rejects a key that appears in
// both $set and $setOnInsert, hence the deletes.
func preferenceInsertDoc(userID primitive.ObjectID, set bson.M) bson.M {
	defaults := models.DefaultNotificationPreferences(userID)
	insert := bson.M{
		"user_id":             userID,
		"email_notifications": defaults.EmailNotifications,
		"approval_alerts":     defaults.ApprovalAlerts,
		"system_alerts":       defaults.SystemAlerts,
		"digest_frequency":    defaults.DigestFrequency,
	}
	for k := range set {
		delete(insert, k)
	}
	return insert
}

func (r *NotificationRepositoryImpl) UpsertPreferences(ctx context.Context, userID primitive.ObjectID, set bson.M) (*models.NotificationPreferences, error) {
	set["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var prefs models.NotificationPreferences
	err := r.prefColl.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": set, "$setOnInsert": preferenceInsertDoc(userID, set)},
		opts).Decode(&prefs)
	if err != nil {
		return nil, fmt.Errorf("upsert notification preferences: %w", err)
	}
	return &prefs, nil
}

func (r *NotificationRepositoryImpl) RecordEmail(ctx context.Context, to, subject, body string) error {
	doc := bson.M{
		"to":         to,
		"subject":    subject,
		"body":       body,
		"status":     "queued",
		"created_at": time.Now(),
	}
	if _, err := r.emailColl.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("record email: %w", err)
	}
	return nil
}
