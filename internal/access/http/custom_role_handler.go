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
	customValidation "github.com/allisson/authz/internal/validation"
)

// CustomRoleHandler handles HTTP requests for custom role lifecycle management.
type CustomRoleHandler struct {
	customRoleUseCase accessUseCase.CustomRoleUseCase
	grantUseCase      accessUseCase.GrantUseCase
	logger            *slog.Logger
}

// NewCustomRoleHandler creates a new custom role handler with required dependencies.
func NewCustomRoleHandler(
	customRoleUseCase accessUseCase.CustomRoleUseCase,
	grantUseCase accessUseCase.GrantUseCase,
	logger *slog.Logger,
) *CustomRoleHandler {
	return &CustomRoleHandler{
		customRoleUseCase: customRoleUseCase,
		grantUseCase:      grantUseCase,
		logger:            logger,
	}
}

// parseRoleID extracts and validates the role id path parameter. It writes
// the error response itself so callers can simply return on failure.
func (h *CustomRoleHandler) parseRoleID(c *gin.Context) (uuid.UUID, bool) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid role id: must be a UUID"), h.logger)
		return uuid.Nil, false
	}
	return roleID, true
}

// actor returns the requesting user's id for created_by/granted_by attribution.
func actor(c *gin.Context) *uuid.UUID {
	subject, ok := GetSubject(c.Request.Context())
	if !ok || subject == nil {
		return nil
	}
	userID := subject.UserID
	return &userID
}

// ListHandler retrieves custom roles with pagination support.
// GET /v1/custom-roles?offset=0&limit=50
func (h *CustomRoleHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	roles, err := h.customRoleUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCustomRolesToListResponse(roles))
}

// CreateHandler creates a custom role from an explicit capability map.
// POST /v1/custom-roles
// Returns 201 Created with the stored role.
func (h *CustomRoleHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateCustomRoleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	role, err := h.customRoleUseCase.CreateFromScratch(c.Request.Context(), &accessDomain.CreateCustomRoleInput{
		Name:         req.Name,
		Description:  req.Description,
		Capabilities: req.Capabilities,
		CreatedBy:    actor(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCustomRoleToResponse(role))
}

// CreateFromTemplatesHandler creates a custom role by merging templates and
// applying customization overrides.
// POST /v1/custom-roles/from-template
// Returns 201 Created with the stored role.
func (h *CustomRoleHandler) CreateFromTemplatesHandler(c *gin.Context) {
	var req dto.CreateFromTemplatesRequest

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

	role, err := h.customRoleUseCase.CreateFromTemplates(c.Request.Context(), &accessDomain.CreateFromTemplatesInput{
		Name:           req.Name,
		Description:    req.Description,
		TemplateKeys:   req.TemplateKeys,
		Strategy:       strategy,
		Customizations: req.Customizations,
		CreatedBy:      actor(c),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCustomRoleToResponse(role))
}

// GetHandler retrieves a custom role by id. System roles respond 404 so the
// management surface never reveals which role keys exist.
// GET /v1/custom-roles/:id
func (h *CustomRoleHandler) GetHandler(c *gin.Context) {
	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	role, err := h.customRoleUseCase.Get(c.Request.Context(), roleID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCustomRoleToResponse(role))
}

// UpdateHandler applies a partial patch to a custom role. A present
// capabilities map replaces the entire grant set.
// PUT /v1/custom-roles/:id
func (h *CustomRoleHandler) UpdateHandler(c *gin.Context) {
	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	var req dto.UpdateCustomRoleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	role, err := h.customRoleUseCase.Update(c.Request.Context(), roleID, &accessDomain.UpdateCustomRoleInput{
		Name:         req.Name,
		Description:  req.Description,
		Capabilities: req.Capabilities,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCustomRoleToResponse(role))
}

// DeleteHandler deletes a custom role. Deletion is refused with 409 while
// active assignments still reference the role.
// DELETE /v1/custom-roles/:id
// Returns 204 No Content.
func (h *CustomRoleHandler) DeleteHandler(c *gin.Context) {
	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	if err := h.customRoleUseCase.Delete(c.Request.Context(), roleID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// CloneHandler snapshots an existing custom role into a new one.
// POST /v1/custom-roles/:id/clone
// Returns 201 Created with the clone.
func (h *CustomRoleHandler) CloneHandler(c *gin.Context) {
	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	var req dto.CloneRoleRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	role, err := h.customRoleUseCase.Clone(c.Request.Context(), roleID, req.Name, actor(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCustomRoleToResponse(role))
}

// ListCapabilitiesHandler retrieves the resolved grant set of a custom role.
// GET /v1/custom-roles/:id/capabilities
func (h *CustomRoleHandler) ListCapabilitiesHandler(c *gin.Context) {
	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	role, err := h.customRoleUseCase.Get(c.Request.Context(), roleID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RoleCapabilitiesResponse{Data: role.Capabilities})
}

// AddCapabilityHandler adds or replaces a single capability grant on a custom role.
// POST /v1/custom-roles/:id/capabilities
// Returns 201 Created with the stored grant.
func (h *CustomRoleHandler) AddCapabilityHandler(c *gin.Context) {
	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	var req dto.AddCapabilityRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	level, err := accessDomain.ParseAccessLevel(req.AccessLevel)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	grant, err := h.customRoleUseCase.AddCapability(
		c.Request.Context(),
		roleID,
		req.CapabilityKey,
		level,
		req.Constraints,
		actor(c),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapGrantToResponse(grant))
}

// RemoveCapabilityHandler removes a single capability grant from a custom role.
// Removing an absent grant is a no-op, not an error.
// DELETE /v1/custom-roles/:id/capabilities/:key
// Returns 204 No Content.
func (h *CustomRoleHandler) RemoveCapabilityHandler(c *gin.Context) {
	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	if _, err := h.customRoleUseCase.RemoveCapability(c.Request.Context(), roleID, c.Param("key")); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// BulkCapabilitiesHandler applies a batch of grants to a custom role. Each
// entry is committed independently; failures are collected in the response.
// POST /v1/custom-roles/:id/capabilities/bulk
func (h *CustomRoleHandler) BulkCapabilitiesHandler(c *gin.Context) {
	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	var req dto.BulkGrantRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Resolve the role through the custom-role surface first so system roles
	// and absent ids respond 404 before any grant is attempted.
	if _, err := h.customRoleUseCase.Get(c.Request.Context(), roleID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	items := make([]accessDomain.BulkGrantItem, 0, len(req.Grants))
	for _, grant := range req.Grants {
		level, err := accessDomain.ParseAccessLevel(grant.AccessLevel)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		items = append(items, accessDomain.BulkGrantItem{
			CapabilityKey: grant.CapabilityKey,
			AccessLevel:   level,
			Constraints:   grant.Constraints,
		})
	}

	result, err := h.grantUseCase.BulkGrant(c.Request.Context(), roleID, items, actor(c))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBulkGrantToResponse(result))
}

// ImpactAnalysisHandler reports how many users and organizations currently
// depend on the role. Always computed live.
// GET /v1/custom-roles/:id/impact-analysis
func (h *CustomRoleHandler) ImpactAnalysisHandler(c *gin.Context) {
	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	analysis, err := h.customRoleUseCase.ImpactAnalysis(c.Request.Context(), roleID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapImpactAnalysisToResponse(analysis))
}

// SaveAsTemplateHandler snapshots a custom role's current grants into an
// immutable promoted template.
// POST /v1/custom-roles/:id/save-as-template
// Returns 201 Created with the stored template.
func (h *CustomRoleHandler) SaveAsTemplateHandler(c *gin.Context) {
	roleID, ok := h.parseRoleID(c)
	if !ok {
		return
	}

	var req dto.SaveAsTemplateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	template, err := h.customRoleUseCase.SaveAsTemplate(
		c.Request.Context(),
		roleID,
		req.TemplateKey,
		req.Name,
		req.Description,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTemplateToResponse(template))
}
