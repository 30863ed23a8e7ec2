package server

import (
	"site-lock-system/internal/handler"
	"site-lock-system/internal/middleware"
	obsmiddleware "site-lock-system/internal/observability/middleware"
	"site-lock-system/internal/service"
	"site-lock-system/internal/util"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps holds the request-scoped collaborators the route tree needs.
// Everything is constructed by the caller and injected; the server owns
// no globals.
type Deps struct {
	DB       *gorm.DB
	Log      *logrus.Logger
	Tokens   *util.TokenManager
	Keys     *service.KeyService
	Activity *service.ActivityService
	Feed     *service.Feed
}

// NewApp builds the Fiber application with the full route tree.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(obsmiddleware.Metrics())
	app.Use(cors.New())

	statusHandler := handler.NewStatusHandler(deps.Keys)
	userHandler := handler.NewUserHandler(deps.DB, deps.Tokens, deps.Log)
	keyHandler := handler.NewKeyHandler(deps.Keys)
	logHandler := handler.NewLogHandler(deps.Keys, deps.Activity, deps.Feed)

	// Public surface: the status check for embedded gates, the gate
	// script itself, and metrics.
	app.Get("/api/check-status", statusHandler.HandleCheckStatus)
	app.Options("/api/check-status", statusHandler.HandlePreflight)
	app.Get("/embed.js", handler.HandleEmbedScript)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1")

	users := api.Group("/users")
	users.Post("/register", userHandler.HandleRegister)
	users.Post("/login", userHandler.HandleLogin)
	users.Get("/info", middleware.Auth(deps.Tokens), userHandler.HandleUserInfo)

	api.Get("/logs", middleware.Auth(deps.Tokens), logHandler.HandleUserLogs)

	keys := api.Group("/keys")
	keys.Use(middleware.Auth(deps.Tokens))
	keys.Get("/", keyHandler.HandleListKeys)
	keys.Post("/", keyHandler.HandleCreateKey)
	keys.Get("/:id", keyHandler.HandleGetKey)
	keys.Put("/:id/lock", keyHandler.HandleSetLock)
	keys.Put("/:id/name", keyHandler.HandleRenameKey)
	keys.Post("/:id/rotate", keyHandler.HandleRotateKey)
	keys.Delete("/:id", keyHandler.HandleDeleteKey)
	keys.Get("/:id/logs", logHandler.HandleKeyLogs)
	keys.Get("/:id/logs/stream", logHandler.HandleKeyLogStream)

	return app
}
