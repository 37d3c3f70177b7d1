package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	"github.com/allisson/authz/internal/access/http/dto"
	accessUseCase "github.com/allisson/authz/internal/access/usecase"
	"github.com/allisson/authz/internal/httputil"
)

// CapabilityHandler handles HTTP requests for the capability catalog and the
// per-user evaluation endpoints.
type CapabilityHandler struct {
	catalogUseCase   accessUseCase.CatalogUseCase
	evaluatorUseCase accessUseCase.EvaluatorUseCase
	logger           *slog.Logger
}

// NewCapabilityHandler creates a new capability handler with required dependencies.
func NewCapabilityHandler(
	catalogUseCase accessUseCase.CatalogUseCase,
	evaluatorUseCase accessUseCase.EvaluatorUseCase,
	logger *slog.Logger,
) *CapabilityHandler {
	return &CapabilityHandler{
		catalogUseCase:   catalogUseCase,
		evaluatorUseCase: evaluatorUseCase,
		logger:           logger,
	}
}

// ListHandler retrieves the full capability catalog.
// GET /v1/capabilities
func (h *CapabilityHandler) ListHandler(c *gin.Context) {
	capabilities, err := h.catalogUseCase.List(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCapabilitiesToListResponse(capabilities))
}

// CategoriesHandler retrieves the distinct capability categories.
// GET /v1/capabilities/categories
func (h *CapabilityHandler) CategoriesHandler(c *gin.Context) {
	categories, err := h.catalogUseCase.Categories(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CategoriesResponse{Data: categories})
}

// ListByCategoryHandler retrieves the capabilities of one category.
// GET /v1/capabilities/category/:category
func (h *CapabilityHandler) ListByCategoryHandler(c *gin.Context) {
	category := c.Param("category")
	if category == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("category cannot be empty"), h.logger)
		return
	}

	capabilities, err := h.catalogUseCase.ListByCategory(c.Request.Context(), category)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCapabilitiesToListResponse(capabilities))
}

// SearchHandler searches the catalog by keyword across key, name and description.
// GET /v1/capabilities/search?q=keyword
func (h *CapabilityHandler) SearchHandler(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("q parameter cannot be empty"), h.logger)
		return
	}

	capabilities, err := h.catalogUseCase.Search(c.Request.Context(), keyword)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCapabilitiesToListResponse(capabilities))
}

// GetHandler retrieves a single capability by key.
// GET /v1/capabilities/:key
func (h *CapabilityHandler) GetHandler(c *gin.Context) {
	capability, err := h.catalogUseCase.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCapabilityToResponse(capability))
}

// UserEffectiveHandler resolves a user's full capability set within an organization.
// GET /v1/capabilities/user/:id?organization_id=UUID
func (h *CapabilityHandler) UserEffectiveHandler(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid user id: must be a UUID"), h.logger)
		return
	}

	organizationID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid organization_id parameter: must be a UUID"),
			h.logger,
		)
		return
	}

	effective, err := h.evaluatorUseCase.GetEffective(c.Request.Context(), userID, organizationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEffectiveToResponse(userID, organizationID, effective))
}

// UserCheckHandler checks one capability for a user within an organization.
// GET /v1/capabilities/user/:id/check/:key?organization_id=UUID&required_level=view
// The required level defaults to view. A check error is reported as a plain
// deny so callers always fail closed.
func (h *CapabilityHandler) UserCheckHandler(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid user id: must be a UUID"), h.logger)
		return
	}

	organizationID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid organization_id parameter: must be a UUID"),
			h.logger,
		)
		return
	}

	capabilityKey := c.Param("key")

	required, err := accessDomain.ParseAccessLevel(c.DefaultQuery("required_level", "view"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid required_level parameter: must be one of none, view, limited, full"),
			h.logger,
		)
		return
	}

	allowed, err := h.evaluatorUseCase.Check(c.Request.Context(), userID, organizationID, capabilityKey, required)
	if err != nil {
		h.logger.Error("capability check failed",
			slog.String("user_id", userID.String()),
			slog.String("capability_key", capabilityKey),
			slog.Any("error", err))
		allowed = false
	}

	c.JSON(http.StatusOK, dto.CheckResponse{
		Allowed:       allowed,
		CapabilityKey: capabilityKey,
		RequiredLevel: required,
	})
}

// SeedHandler inserts the built-in capabilities that are not already present.
// POST /v1/capabilities/seed - guarded by SeedTokenMiddleware.
func (h *CapabilityHandler) SeedHandler(c *gin.Context) {
	inserted, err := h.catalogUseCase.Seed(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SeedResponse{Inserted: inserted})
}
