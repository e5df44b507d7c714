package handler

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/slugurl/internal/app/model"
	"github.com/sifan077/slugurl/internal/app/service"
	"go.uber.org/zap"
)

// APIDeps groups dependencies required by API handlers.
type APIDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
}

// APIHandler implements the JSON management endpoints.
type APIHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
	validate    *validator.Validate
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger:      logger,
		linkService: deps.LinkService,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register wires API routes onto the provided router.
func (h *APIHandler) Register(router fiber.Router) {
	api := router.Group("/api")
	{
		v0 := api.Group("/v0")
		{
			v0.Post("/urls", h.CreateLink)
			v0.Get("/urls/:slug", h.GetLink)
		}
	}
}

// CreateLinkRequest represents the request body for creating a link.
type CreateLinkRequest struct {
	Target string `json:"target" validate:"required,url"`
}

// LinkResponse is the JSON view of a short link.
type LinkResponse struct {
	ID         int64     `json:"id"`
	Slug       string    `json:"slug"`
	Target     string    `json:"target"`
	VisitCount int64     `json:"visitCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newLinkResponse(link *model.ShortLink) LinkResponse {
	return LinkResponse{
		ID:         link.ID,
		Slug:       link.Slug,
		Target:     link.Target,
		VisitCount: link.VisitCount,
		CreatedAt:  link.CreatedAt,
		UpdatedAt:  link.UpdatedAt,
	}
}

// CreateLink handles POST /api/v0/urls
func (h *APIHandler) CreateLink(c *fiber.Ctx) error {
	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "invalid_request", "Request body must be a JSON object with a target field")
	}

	if err := h.validate.Struct(req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "invalid_url", "URL is not valid")
	}

	link, err := h.linkService.CreateLink(c.UserContext(), service.CreateLinkInput{Target: req.Target})
	if err != nil {
		return writeServiceError(c, err)
	}

	h.logger.Info("short link created",
		zap.String("slug", link.Slug),
		zap.String("target", link.Target),
	)
	return c.Status(fiber.StatusCreated).JSON(newLinkResponse(link))
}

// GetLink handles GET /api/v0/urls/:slug without counting a visit.
func (h *APIHandler) GetLink(c *fiber.Ctx) error {
	link, err := h.linkService.GetLink(c.UserContext(), c.Params("slug"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(newLinkResponse(link))
}
