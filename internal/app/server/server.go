package server

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sifan077/slugurl/config"
	"github.com/sifan077/slugurl/internal/app/service"
	inthttp "github.com/sifan077/slugurl/internal/http/handler"
	"github.com/sifan077/slugurl/internal/http/middleware"
	"go.uber.org/zap"
)

// Dependencies bundles what the HTTP server needs to serve requests.
type Dependencies struct {
	Logger *zap.Logger
	Links  service.LinkService

	// Redis backs the rate limiter; nil disables it.
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with all routes registered.
func New(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "slugurl",
		DisableStartupMessage: true,
		ErrorHandler:          inthttp.ErrorHandler,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           60 * time.Second,
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// Test runs req through the app without a network listener.
func (s *Server) Test(req *http.Request) (*http.Response, error) {
	return s.app.Test(req, -1)
}

func (s *Server) registerRoutes() {
	log := s.deps.Logger

	s.app.Use(middleware.Recovery(log))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(log))
	s.app.Use(middleware.CORS())

	apiHandler := inthttp.NewAPIHandler(inthttp.APIDeps{
		Logger:      log,
		LinkService: s.deps.Links,
	})
	redirectHandler := inthttp.NewRedirectHandler(inthttp.RedirectDeps{
		Logger:      log,
		LinkService: s.deps.Links,
	})

	// Health probes are exempt from rate limiting.
	redirectHandler.RegisterHealth(s.app)

	if s.deps.Redis != nil && s.deps.RateLimit.Enabled {
		s.app.Use(middleware.RateLimit(s.deps.Redis, s.deps.RateLimit, log))
	}

	// The API group goes before the catch-all slug route.
	apiHandler.Register(s.app)
	redirectHandler.Register(s.app)
}
