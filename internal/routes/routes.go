package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/talash/backend/internal/config"
	"github.com/talash/backend/internal/handlers"
	"github.com/talash/backend/internal/middleware"
	"github.com/talash/backend/internal/models"
	"github.com/talash/backend/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	itemHandler *handlers.ItemHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
) {
	// General rate limiter: 60 req/min per IP
	app.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	app.Get("/health", healthHandler.Check)

	// Stored item images
	app.Static("/uploads", cfg.UploadDir)

	requireAuth := middleware.RequireAuth(authService)
	optionalAuth := middleware.OptionalAuth(authService)
	adminOnly := middleware.AdminRequired()

	// Auth — stricter rate limit: 10 req/min per IP
	auth := app.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Get("/verify-token", authHandler.VerifyToken)
	auth.Post("/logout", authHandler.Logout)

	// Item reports. /mine routes register before /:id so they match first.
	items := app.Group("/items")
	for _, kind := range []models.ItemKind{models.KindFound, models.KindLost} {
		group := items.Group("/" + string(kind))
		group.Post("/", requireAuth, itemHandler.Submit(kind))
		group.Get("/", optionalAuth, itemHandler.List(kind))
		group.Get("/mine", requireAuth, itemHandler.ListMine(kind))
		group.Get("/:id", optionalAuth, itemHandler.Get(kind))
		group.Post("/:id/claim", requireAuth, itemHandler.Claim(kind))
	}

	// Admin: signup and login stay public (the key and role checks happen
	// inside), everything else requires a resolved admin caller.
	admin := app.Group("/admin")
	admin.Post("/signup", adminHandler.Signup)
	admin.Post("/login", adminHandler.Login)

	admin.Get("/dashboard", requireAuth, adminOnly, adminHandler.Dashboard)
	admin.Post("/items/found", requireAuth, adminOnly, adminHandler.AddFound)

	admin.Post("/items/:id/approve", requireAuth, adminOnly, adminHandler.Approve(models.KindFound))
	admin.Post("/items/:id/reject", requireAuth, adminOnly, adminHandler.Reject(models.KindFound))
	admin.Post("/lost-items/:id/approve", requireAuth, adminOnly, adminHandler.Approve(models.KindLost))
	admin.Post("/lost-items/:id/reject", requireAuth, adminOnly, adminHandler.Reject(models.KindLost))

	// Fixed moderation review listings
	for path, status := range map[string]string{
		"pending": "pending", "approved": "approved", "rejected": "rejected", "all": "all",
	} {
		admin.Get("/items/"+path, requireAuth, adminOnly, adminHandler.ListByStatus(models.KindFound, status))
		admin.Get("/lost-items/"+path, requireAuth, adminOnly, adminHandler.ListByStatus(models.KindLost, status))
	}
}
