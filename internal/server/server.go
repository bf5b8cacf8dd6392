package server

import (
	"log"

	"ux-collector-be/internal/bootstrap"
	"ux-collector-be/internal/config"
	"ux-collector-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "ux-collector",
		BodyLimit:    cfg.App.BodyLimitMB * 1024 * 1024,
		ErrorHandler: serverutils.ErrorHandler(container.Logger),
	})

	// CORS goes first so that every response, including errors and preflight, carries the headers
	app.Use(serverutils.CORS(serverutils.CORSConfig{
		AllowOrigins: cfg.App.CorsAllowedOrigins,
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	c.CollectController.RegisterRoutes(app)
	c.MaintenanceController.RegisterRoutes(app)
}
