package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"screenshop/docs"
	"screenshop/internal/service"
)

// Deps carries what the routes need. DB and Metrics are optional.
type Deps struct {
	DB         *sql.DB
	Generation service.GenerationService
	Sessions   service.SessionService
	Metrics    *prometheus.Registry
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	api := app.Group("/api")

	api.Post("/generate", Generate(d.Generation))
	api.Post("/archive", BuildArchive())
	api.Get("/generations", ListGenerations(d.Generation))
	api.Get("/generations/:id", GetGeneration(d.Generation))
	api.Get("/generations/:id/archive", GenerationArchive(d.Generation))

	sessions := api.Group("/sessions")
	sessions.Post("/", CreateSession(d.Sessions))
	sessions.Get("/:id", GetSession(d.Sessions))
	sessions.Delete("/:id", DeleteSession(d.Sessions))
	sessions.Post("/:id/screenshots", UploadScreenshots(d.Sessions))
	sessions.Patch("/:id/screenshots/:index", SetScreenshotHint(d.Sessions))
	sessions.Delete("/:id/screenshots/:index", RemoveScreenshot(d.Sessions))
	sessions.Get("/:id/screenshots/:index/preview", ScreenshotPreview(d.Sessions))
	sessions.Post("/:id/generate", GenerateSession(d.Sessions))
	sessions.Get("/:id/archive", SessionArchive(d.Sessions))
	sessions.Post("/:id/reset", ResetSession(d.Sessions))
}
