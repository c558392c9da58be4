package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "github.com/KaushikeeBhatt/file-tracking-system/internal/common/api"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/database"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/admin"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/audit"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/auth"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/file"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/notification"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/saved_search"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/search"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/system"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/features/user"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/logger"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/middleware"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/storage"
	"github.com/KaushikeeBhatt/file-tracking-system/pkg/utils"

	_ "github.com/KaushikeeBhatt/file-tracking-system/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             64 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, userRepo user.UserRepository, fileRepo file.FileRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := userRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure user indexes: %v", err)
				}
				if err := fileRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure file indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

// @title           File Tracking System API
// @version         1.0
// @description     Departmental file tracking with approvals, search and audit reporting.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Database
			database.NewDatabase,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Blob storage
			storage.NewLocalStore,

			// Initialize Repository
			user.NewUserRepository,
			file.NewFileRepository,
			audit.NewAuditRepository,
			search.NewSearchRepository,
			saved_search.NewSavedSearchRepository,
			notification.NewNotificationRepository,

			audit.NewAuditService,
			auth.NewAuthService,
			user.NewUserService,
			file.NewFileService,
			search.NewSearchService,
			saved_search.NewSavedSearchService,
			notification.NewNotificationService,
			admin.NewAdminService,

			notification.NewHub,
			notification.NewSweeper,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r user.UserRepository) audit.UserFinder { return r },
			func(r file.FileRepository) audit.FileNamer { return r },

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			file.NewFileController,
			audit.NewAuditController,
			search.NewSearchController,
			saved_search.NewSavedSearchController,
			notification.NewNotificationController,
			admin.NewAdminController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(file.NewFileApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(search.NewSearchApi),
			AsRoute(saved_search.NewSavedSearchApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(admin.NewAdminApi),
			AsRoute(system.NewSystemApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,

			// Force the sweeper's lifecycle hooks to register
			func(*notification.Sweeper) {},
		),
	)

	app.Run()
}
