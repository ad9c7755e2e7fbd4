package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/endikaluq/geolink/internal/core/domain"
	"github.com/endikaluq/geolink/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", domain.APIVersion)
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1. Mediation calls wait on the GMLC, so creation and update
	// get a longer per-request timeout than the reads.
	geolocations := app.Group("/v1/accounts/:account/geolocations")
	geolocations.Post("/immediate",
		timeout.NewWithContext(CreateGeolocationHandler(deps, domain.ImmediateType), 30*time.Second))
	geolocations.Post("/notification",
		timeout.NewWithContext(CreateGeolocationHandler(deps, domain.NotificationType), 30*time.Second))
	geolocations.Get("/",
		timeout.NewWithContext(ListGeolocationsHandler(deps), 15*time.Second))
	geolocations.Get("/:sid",
		timeout.NewWithContext(GetGeolocationHandler(deps), 15*time.Second))
	geolocations.Post("/:sid",
		timeout.NewWithContext(UpdateGeolocationHandler(deps, false), 30*time.Second))
	geolocations.Put("/:sid",
		timeout.NewWithContext(UpdateGeolocationHandler(deps, true), 30*time.Second))
	geolocations.Delete("/:sid",
		timeout.NewWithContext(DeleteGeolocationHandler(deps), 15*time.Second))

	// Legacy CamelCase paths kept for early integrators, marked deprecated.
	legacy := app.Group("/v1/Accounts/:account/Geolocation", DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/Accounts/:account/Geolocation",
			SunsetDate:  time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/accounts/{account}/geolocations",
		},
	}))
	legacy.Post("/Immediate",
		timeout.NewWithContext(CreateGeolocationHandler(deps, domain.ImmediateType), 30*time.Second))
	legacy.Post("/Notification",
		timeout.NewWithContext(CreateGeolocationHandler(deps, domain.NotificationType), 30*time.Second))
	legacy.Get("/:sid",
		timeout.NewWithContext(GetGeolocationHandler(deps), 15*time.Second))
	legacy.Post("/:sid",
		timeout.NewWithContext(UpdateGeolocationHandler(deps, false), 30*time.Second))
	legacy.Put("/:sid",
		timeout.NewWithContext(UpdateGeolocationHandler(deps, true), 30*time.Second))
	legacy.Delete("/:sid",
		timeout.NewWithContext(DeleteGeolocationHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket notification relay
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/notifications", websocket.New(NotificationsHandler(deps.NATS)))
}
