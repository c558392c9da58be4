package main

import (
	"context"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/database"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/file"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/user"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/logger"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	Email      string
	Name       string
	Role       models.Role
	Department string
}

var seedUsers = []seedUser{
	{Email: "admin@example.com", Name: "System Admin", Role: models.RoleAdmin, Department: "IT"},
	{Email: "manager@example.com", Name: "Department Manager", Role: models.RoleManager, Department: "Finance"},
	{Email: "user@example.com", Name: "Regular User", Role: models.RoleUser, Department: "Finance"},
}

// Seed bootstraps the demo accounts and a couple of catalog entries,
// then shuts the app back down.
func Seed(
	lc fx.Lifecycle,
	userRepo user.UserRepository,
	fileRepo file.FileRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				logger.Info("Seeding database...")

				if err := userRepo.EnsureIndexes(ctx); err != nil {
					logger.Warn("user index creation failed", zap.Error(err))
				}
				if err := fileRepo.EnsureIndexes(ctx); err != nil {
					logger.Warn("file index creation failed", zap.Error(err))
				}

				hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
				if err != nil {
					logger.Error("password hash failed", zap.Error(err))
					return
				}

				var uploader primitive.ObjectID
				for _, su := range seedUsers {
					if existing, err := userRepo.FindByEmail(ctx, su.Email); err == nil {
						logger.Info("user exists, skipping", zap.String("email", su.Email))
						if su.Role == models.RoleUser {
							uploader = existing.ID
						}
						continue
					}

					now := time.Now()
					u := &models.User{
						ID:           primitive.NewObjectID(),
						Email:        su.Email,
						PasswordHash: string(hash),
						Name:         su.Name,
						Role:         su.Role,
						Department:   su.Department,
						IsActive:     true,
						CreatedAt:    now,
						UpdatedAt:    now,
					}
					if err := userRepo.Create(ctx, u); err != nil {
						logger.Error("user seed failed", zap.String("email", su.Email), zap.Error(err))
						continue
					}
					if su.Role == models.RoleUser {
						uploader = u.ID
					}
					logger.Info("user created", zap.String("email", su.Email), zap.String("role", string(su.Role)))
				}

				if !uploader.IsZero() {
					seedFiles(ctx, fileRepo, uploader, logger)
				}

				logger.Info("Seeding complete")
			}()
			return nil
		},
	})
}

func seedFiles(ctx context.Context, fileRepo file.FileRepository, uploader primitive.ObjectID, logger *zap.Logger) {
	now := time.Now()
	samples := []*models.File{
		{
			FileName:     "q2-budget-report.pdf",
			OriginalName: "Q2 Budget Report.pdf",
			FileType:     "application/pdf",
			FileSize:     482113,
			FilePath:     "q2-budget-report.pdf",
			UploadedBy:   uploader,
			Department:   "Finance",
			Category:     "reports",
			Tags:         []string{"budget", "quarterly"},
			Description:  "Quarterly budget summary for the finance department",
			Status:       models.FileStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
			Metadata:     models.FileMetadata{Version: 1},
		},
		{
			FileName:     "travel-policy-draft.docx",
			OriginalName: "Travel Policy Draft.docx",
			FileType:     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			FileSize:     73422,
			FilePath:     "travel-policy-draft.docx",
			UploadedBy:   uploader,
			Department:   "Finance",
			Category:     "policies",
			Tags:         []string{"travel", "draft"},
			Status:       models.FileStatusPendingApproval,
			CreatedAt:    now,
			UpdatedAt:    now,
			Metadata:     models.FileMetadata{Version: 1},
		},
	}

	for _, f := range samples {
		if err := fileRepo.Insert(ctx, f); err != nil {
			logger.Error("file seed failed", zap.String("file", f.OriginalName), zap.Error(err))
			continue
		}
		logger.Info("file created", zap.String("file", f.OriginalName))
	}
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			database.NewDatabase,
			logger.NewLogger,
			user.NewUserRepository,
			file.NewFileRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
