package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	"github.com/allisson/authz/internal/access/http/dto"
	accessUseCase "github.com/allisson/authz/internal/access/usecase"
	"github.com/allisson/authz/internal/httputil"
	customValidation "github.com/allisson/authz/internal/validation"
)

// TemplateHandler handles HTTP requests for role templates and merge previews.
type TemplateHandler struct {
	templateUseCase accessUseCase.TemplateUseCase
	logger          *slog.Logger
}

// NewTemplateHandler creates a new template handler with required dependencies.
func NewTemplateHandler(templateUseCase accessUseCase.TemplateUseCase, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		templateUseCase: templateUseCase,
		logger:          logger,
	}
}

// ListHandler retrieves every stored template, built-ins first.
// GET /v1/templates
func (h *TemplateHandler) ListHandler(c *gin.Context) {
	templates, err := h.templateUseCase.ListTemplates(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTemplatesToListResponse(templates))
}

// GetHandler retrieves a single template by key.
// GET /v1/templates/:key
func (h *TemplateHandler) GetHandler(c *gin.Context) {
	template, err := h.templateUseCase.GetTemplate(c.Request.Context(), c.Param("key"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTemplateToResponse(template))
}

// PreviewHandler resolves the requested templates and returns the merged and
// customized capability map without persisting anything.
// POST /v1/templates/preview
func (h *TemplateHandler) PreviewHandler(c *gin.Context) {
	var req dto.PreviewTemplatesRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	strategy := accessDomain.MergeStrategyUnion
	if req.MergeStrategy != "" {
		parsed, err := accessDomain.ParseMergeStrategy(req.MergeStrategy)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		strategy = parsed
	}

	preview, err := h.templateUseCase.Preview(c.Request.Context(), req.TemplateKeys, strategy, req.Customizations)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.PreviewResponse{Capabilities: preview})
}
