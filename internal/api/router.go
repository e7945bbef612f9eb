package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/metrics"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/ws"
)

// multipart framing on top of the largest accepted image
const formOverhead = 1 << 20

type Dependencies struct {
	FaceService       handler.FaceService
	Store             handler.Pinger
	Hub               *ws.Hub
	Metrics           *metrics.Manager
	MaxUploadBytes    int64
	IdentifyRateLimit int
	CORSAllowOrigins  string
	Version           string
}

type Router struct {
	app         *fiber.App
	logger      *slog.Logger
	deps        *Dependencies
	rateLimiter *middleware.RateLimiter
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	if deps == nil {
		deps = &Dependencies{}
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = handler.DefaultMaxImageSize
	}
	if deps.CORSAllowOrigins == "" {
		deps.CORSAllowOrigins = "*"
	}

	// request strings are kept after the handler returns (store keys, ws feed, metric labels)
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "PontoFace API",
		BodyLimit:    int(deps.MaxUploadBytes) + formOverhead,
		Immutable:    true,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))

	var observer middleware.RequestObserver
	if r.deps.Metrics != nil {
		observer = r.deps.Metrics
	}
	r.app.Use(middleware.Logger(r.logger, observer))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.deps.CORSAllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	healthHandler := handler.NewHealthHandler(r.deps.Store, r.deps.Version)
	r.app.Get("/", healthHandler.Home)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps.Metrics != nil {
		r.app.Get("/metrics", adaptor.HTTPHandler(r.deps.Metrics.Handler()))
	}

	if r.deps.FaceService != nil {
		faceHandler := handler.NewFaceHandler(r.deps.FaceService, r.logger, r.deps.MaxUploadBytes)

		r.rateLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Max:    r.deps.IdentifyRateLimit,
			Window: time.Minute,
		})
		limited := r.rateLimiter.Handler()

		r.app.Post("/register-face", faceHandler.Register)
		r.app.Post("/update-face", faceHandler.Update)
		r.app.Post("/delete-face", faceHandler.Delete)
		r.app.Get("/profiles", faceHandler.List)

		// identification routes are rate limited per client IP
		r.app.Post("/check-user", limited, faceHandler.CheckUser)
		r.app.Post("/clockin", limited, faceHandler.ClockIn)
		r.app.Post("/clockout", limited, faceHandler.ClockOut)
	}

	if r.deps.Hub != nil {
		r.app.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.deps.Hub))
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until timeout elapses.
func (r *Router) Shutdown(timeout time.Duration) error {
	if r.rateLimiter != nil {
		r.rateLimiter.Stop()
	}

	return r.app.ShutdownWithTimeout(timeout)
}
