// handlers/app.go - Fiber application and route table
package handlers

import (
	"log/slog"
	"time"

	"portfolio/config"
	"portfolio/database"
	"portfolio/middleware"
	"portfolio/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// bodyLimit leaves room for a full-size image upload plus multipart framing.
const bodyLimit = services.MaxImageSize + 1<<20

type Options struct {
	Logger      *slog.Logger
	FrontendURL string
	RateLimit   config.RateLimitConfig
	// UploadDir is served at /uploads when set.
	UploadDir string
}

type Services struct {
	DB           *gorm.DB
	Auth         *services.AuthService
	Categories   *services.CategoryService
	Achievements *services.AchievementService
	Stats        *services.StatsService
}

// NewApp builds the HTTP API.
func NewApp(opts Options, svc Services) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:      "portfolio",
		ErrorHandler: newErrorHandler(log),
		BodyLimit:    bodyLimit,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())

	if opts.FrontendURL != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     opts.FrontendURL,
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowCredentials: opts.FrontendURL != "*",
		}))
	}

	if opts.UploadDir != "" {
		app.Static(services.UploadsRoute, opts.UploadDir)
	}

	app.Get("/health", healthHandler(svc.DB))

	api := app.Group("/api")
	if opts.RateLimit.Enabled {
		api.Use(middleware.RateLimit(
			middleware.NewRateLimiter(opts.RateLimit.MaxRequests, opts.RateLimit.Window),
			"Rate limit exceeded. Please try again later.",
		))
	}

	auth := &authHandler{auth: svc.Auth}
	categories := &categoryHandler{categories: svc.Categories}
	achievements := &achievementHandler{achievements: svc.Achievements}
	stats := &statsHandler{stats: svc.Stats}
	requireAuth := middleware.RequireAuth(svc.Auth)

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	credentials := []fiber.Handler{}
	if opts.RateLimit.Enabled {
		credentials = append(credentials, middleware.RateLimit(
			middleware.NewRateLimiter(opts.RateLimit.AuthMax, opts.RateLimit.AuthWindow),
			"Too many authentication attempts. Please try again later.",
		))
	}
	authGroup.Post("/register", append(credentials, auth.Register)...)
	authGroup.Post("/login", append(credentials, auth.Login)...)
	authGroup.Get("/me", requireAuth, auth.Me)
	authGroup.Put("/password", requireAuth, auth.ChangePassword)

	categoryGroup := api.Group("/categories", requireAuth)
	categoryGroup.Get("/", categories.List)
	categoryGroup.Get("/:id", categories.Get)
	categoryGroup.Post("/", categories.Create)
	categoryGroup.Put("/:id", categories.Update)
	categoryGroup.Delete("/:id", categories.Delete)

	achievementGroup := api.Group("/achievements", requireAuth)
	achievementGroup.Get("/", achievements.List)
	achievementGroup.Get("/:id", achievements.Get)
	achievementGroup.Post("/", achievements.Create)
	achievementGroup.Put("/:id", achievements.Update)
	achievementGroup.Delete("/:id", achievements.Delete)
	achievementGroup.Post("/:id/image", achievements.UploadImage)
	achievementGroup.Delete("/:id/image", achievements.RemoveImage)

	achievementGroup.Post("/:id/milestones", achievements.AddMilestone)
	achievementGroup.Put("/:id/milestones/:mid", achievements.UpdateMilestone)
	achievementGroup.Patch("/:id/milestones/:mid/toggle", achievements.ToggleMilestone)
	achievementGroup.Delete("/:id/milestones/:mid", achievements.DeleteMilestone)

	api.Get("/stats", requireAuth, stats.Summary)

	return app
}

// GET /health
func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			if err := database.Ping(c.UserContext(), db); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
				})
			}
		}
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	}
}
