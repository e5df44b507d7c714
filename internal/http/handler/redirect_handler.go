package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/slugurl/internal/app/service"
	"go.uber.org/zap"
)

// RedirectDeps groups dependencies required by the public routes.
type RedirectDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
}

// RedirectHandler serves the health probe and short link redirects.
type RedirectHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
}

// NewRedirectHandler creates a redirect handler with the provided dependencies.
func NewRedirectHandler(deps RedirectDeps) *RedirectHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedirectHandler{
		logger:      logger,
		linkService: deps.LinkService,
	}
}

// RegisterHealth wires the health probe. It is split from Register so the
// probe can sit ahead of the rate limiter.
func (h *RedirectHandler) RegisterHealth(router fiber.Router) {
	router.Get("/health", h.Health)
}

// Register wires the catch-all slug route. It must be registered last.
func (h *RedirectHandler) Register(router fiber.Router) {
	router.Get("/:slug", h.Redirect)
}

// Health handles GET /health
func (h *RedirectHandler) Health(c *fiber.Ctx) error {
	if err := h.linkService.HealthCheck(c.UserContext()); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Redirect handles GET /:slug
func (h *RedirectHandler) Redirect(c *fiber.Ctx) error {
	slug := c.Params("slug")

	link, err := h.linkService.ResolveLink(c.UserContext(), slug)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.logger.Debug("redirecting",
		zap.String("slug", slug),
		zap.Int64("visit_count", link.VisitCount),
	)

	// Browsers cache 301s; ask them not to so every visit is counted.
	c.Set(fiber.HeaderCacheControl, "private, no-store")
	return c.Redirect(link.Target, fiber.StatusMovedPermanently)
}
