package user

import (
	"context"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/database"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ManagedUser is the admin listing row: a user plus usage figures
// joined from their files and login history.
type ManagedUser struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Role        models.Role        `bson:"role" json:"role"`
	Department  string             `bson:"department,omitempty" json:"department,omitempty"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	LastLogin   *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	FileCount   int64              `bson:"file_count" json:"file_count"`
	StorageUsed int64              `bson:"storage_used" json:"storage_used"`
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindRefsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error)
	FindByRoles(ctx context.Context, roles []models.Role) ([]models.User, error)
	ListWithUsage(ctx context.Context, limit, offset int64) ([]ManagedUser, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	CountByActivity(ctx context.Context) (total, active int64, err error)
	EnsureIndexes(ctx context.Context) error
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, user)
	return err
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindRefsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserRef, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var refs []models.UserRef
	if err := cursor.All(ctx, &refs); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.UserRef, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}
	return byID, nil
}

func (r *UserRepositoryImpl) FindByRoles(ctx context.Context, roles []models.Role) ([]models.User, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{
		"role":      bson.M{"$in": roles},
		"is_active": true,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListWithUsage joins each user with their upload footprint and most
// recent login so the admin view needs a single round trip.
func (r *UserRepositoryImpl) ListWithUsage(ctx context.Context, limit, offset int64) ([]ManagedUser, int64, error) {
	total, err := r.Collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	pipeline := []bson.M{
		{"$lookup": bson.M{
			"from":         "files",
			"localField":   "_id",
			"foreignField": "uploaded_by",
			"as":           "files",
		}},
		{"$lookup": bson.M{
			"from": "audit_logs",
			"let":  bson.M{"userId": "$_id"},
			"pipeline": []bson.M{
				{"$match": bson.M{
					"$expr":  bson.M{"$eq": []string{"$user_id", "$$userId"}},
					"action": "login",
				}},
				{"$sort": bson.M{"timestamp": -1}},
				{"$limit": 1},
			},
			"as": "lastLogin",
		}},
		{"$addFields": bson.M{
			"file_count":   bson.M{"$size": "$files"},
			"storage_used": bson.M{"$sum": "$files.file_size"},
			"last_login":   bson.M{"$arrayElemAt": []interface{}{"$lastLogin.timestamp", 0}},
		}},
		{"$project": bson.M{
			"name": 1, "email": 1, "role": 1, "department": 1,
			"is_active": 1, "created_at": 1, "last_login": 1,
			"file_count": 1, "storage_used": 1,
		}},
		{"$sort": bson.M{"created_at": -1}},
		{"$skip": offset},
		{"$limit": limit},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []ManagedUser
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updated_at"] = time.Now()
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *UserRepositoryImpl) CountByActivity(ctx context.Context) (int64, int64, error) {
	total, err := r.Collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, err
	}
	active, err := r.Collection.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return 0, 0, err
	}
	return total, active, nil
}
