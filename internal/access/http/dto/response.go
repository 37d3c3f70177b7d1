package dto

import (
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/authz/internal/access/domain"
)

// CapabilityResponse represents a catalog capability in API responses.
type CapabilityResponse struct {
	Key              string                     `json:"key"`
	Category         string                     `json:"category"`
	Name             string                     `json:"name"`
	Description      string                     `json:"description,omitempty"`
	AllowedLevels    []accessDomain.AccessLevel `json:"allowed_levels"`
	IsSystemCritical bool                       `json:"is_system_critical"`
	CreatedAt        time.Time                  `json:"created_at"`
}

// MapCapabilityToResponse converts a domain capability to an API response.
func MapCapabilityToResponse(capability *accessDomain.Capability) CapabilityResponse {
	return CapabilityResponse{
		Key:              capability.Key,
		Category:         capability.Category,
		Name:             capability.Name,
		Description:      capability.Description,
		AllowedLevels:    capability.AllowedLevels,
		IsSystemCritical: capability.IsSystemCritical,
		CreatedAt:        capability.CreatedAt,
	}
}

// ListCapabilitiesResponse represents a list of capabilities in API responses.
type ListCapabilitiesResponse struct {
	Data []CapabilityResponse `json:"data"`
}

// MapCapabilitiesToListResponse converts a slice of domain capabilities to a list response.
func MapCapabilitiesToListResponse(capabilities []*accessDomain.Capability) ListCapabilitiesResponse {
	data := make([]CapabilityResponse, 0, len(capabilities))
	for _, capability := range capabilities {
		data = append(data, MapCapabilityToResponse(capability))
	}

	return ListCapabilitiesResponse{
		Data: data,
	}
}

// CategoriesResponse represents the distinct capability categories.
type CategoriesResponse struct {
	Data []string `json:"data"`
}

// EffectiveCapabilityResponse is one entry of a resolved capability set.
type EffectiveCapabilityResponse struct {
	AccessLevel accessDomain.AccessLevel `json:"access_level"`
	Constraints map[string]any           `json:"constraints,omitempty"`
}

// EffectiveCapabilitiesResponse represents a user's resolved capability set
// within an organization.
type EffectiveCapabilitiesResponse struct {
	UserID         string                                 `json:"user_id"`
	OrganizationID string                                 `json:"organization_id"`
	Capabilities   map[string]EffectiveCapabilityResponse `json:"capabilities"`
}

// MapEffectiveToResponse converts a resolved capability set to an API response.
func MapEffectiveToResponse(
	userID, organizationID uuid.UUID,
	effective map[string]accessDomain.EffectiveCapability,
) EffectiveCapabilitiesResponse {
	capabilities := make(map[string]EffectiveCapabilityResponse, len(effective))
	for key, entry := range effective {
		capabilities[key] = EffectiveCapabilityResponse{
			AccessLevel: entry.AccessLevel,
			Constraints: entry.Constraints,
		}
	}

	return EffectiveCapabilitiesResponse{
		UserID:         userID.String(),
		OrganizationID: organizationID.String(),
		Capabilities:   capabilities,
	}
}

// CheckResponse represents the outcome of a single capability check.
type CheckResponse struct {
	Allowed       bool                     `json:"allowed"`
	CapabilityKey string                   `json:"capability_key"`
	RequiredLevel accessDomain.AccessLevel `json:"required_level"`
}

// SeedResponse represents the outcome of a seed run.
type SeedResponse struct {
	Inserted int `json:"inserted"`
}

// TemplateResponse represents a role template in API responses.
type TemplateResponse struct {
	TemplateKey  string                              `json:"template_key"`
	Name         string                              `json:"name"`
	Description  string                              `json:"description,omitempty"`
	Capabilities map[string]accessDomain.AccessLevel `json:"capabilities"`
	IsBuiltin    bool                                `json:"is_builtin"`
	CreatedAt    time.Time                           `json:"created_at"`
}

// MapTemplateToResponse converts a domain template to an API response.
func MapTemplateToResponse(template *accessDomain.Template) TemplateResponse {
	return TemplateResponse{
		TemplateKey:  template.TemplateKey,
		Name:         template.Name,
		Description:  template.Description,
		Capabilities: template.Capabilities,
		IsBuiltin:    template.IsBuiltin,
		CreatedAt:    template.CreatedAt,
	}
}

// ListTemplatesResponse represents a list of templates in API responses.
type ListTemplatesResponse struct {
	Data []TemplateResponse `json:"data"`
}

// MapTemplatesToListResponse converts a slice of domain templates to a list response.
func MapTemplatesToListResponse(templates []*accessDomain.Template) ListTemplatesResponse {
	data := make([]TemplateResponse, 0, len(templates))
	for _, template := range templates {
		data = append(data, MapTemplateToResponse(template))
	}

	return ListTemplatesResponse{
		Data: data,
	}
}

// PreviewResponse represents the merged capability map of a template preview.
type PreviewResponse struct {
	Capabilities map[string]accessDomain.AccessLevel `json:"capabilities"`
}

// CustomRoleResponse represents a custom role in API responses.
type CustomRoleResponse struct {
	ID              string                              `json:"id"`
	RoleKey         string                              `json:"role_key"`
	Name            string                              `json:"name"`
	Description     string                              `json:"description,omitempty"`
	IsTemplate      bool                                `json:"is_template"`
	TemplateSources []string                            `json:"template_sources"`
	Capabilities    map[string]accessDomain.AccessLevel `json:"capabilities"`
	CreatedAt       time.Time                           `json:"created_at"`
}

// MapCustomRoleToResponse converts a domain custom role to an API response.
func MapCustomRoleToResponse(role *accessDomain.CustomRole) CustomRoleResponse {
	return CustomRoleResponse{
		ID:              role.ID.String(),
		RoleKey:         role.RoleKey,
		Name:            role.Name,
		Description:     role.Description,
		IsTemplate:      role.Meta.IsTemplate,
		TemplateSources: role.Meta.TemplateSources,
		Capabilities:    role.Capabilities,
		CreatedAt:       role.CreatedAt,
	}
}

// ListCustomRolesResponse represents a paginated list of custom roles.
type ListCustomRolesResponse struct {
	Data []CustomRoleResponse `json:"data"`
}

// MapCustomRolesToListResponse converts a slice of domain custom roles to a list response.
func MapCustomRolesToListResponse(roles []*accessDomain.CustomRole) ListCustomRolesResponse {
	data := make([]CustomRoleResponse, 0, len(roles))
	for _, role := range roles {
		data = append(data, MapCustomRoleToResponse(role))
	}

	return ListCustomRolesResponse{
		Data: data,
	}
}

// RoleCapabilitiesResponse represents the resolved grant set of one role.
type RoleCapabilitiesResponse struct {
	Data map[string]accessDomain.AccessLevel `json:"data"`
}

// GrantResponse represents a capability grant in API responses.
type GrantResponse struct {
	RoleID        string                   `json:"role_id"`
	CapabilityKey string                   `json:"capability_key"`
	AccessLevel   accessDomain.AccessLevel `json:"access_level"`
	Constraints   map[string]any           `json:"constraints,omitempty"`
	GrantedAt     time.Time                `json:"granted_at"`
	GrantedBy     *string                  `json:"granted_by,omitempty"`
}

// MapGrantToResponse converts a domain grant to an API response.
func MapGrantToResponse(grant *accessDomain.Grant) GrantResponse {
	response := GrantResponse{
		RoleID:        grant.RoleID.String(),
		CapabilityKey: grant.CapabilityKey,
		AccessLevel:   grant.AccessLevel,
		Constraints:   grant.Constraints,
		GrantedAt:     grant.GrantedAt,
	}
	if grant.GrantedBy != nil {
		grantedBy := grant.GrantedBy.String()
		response.GrantedBy = &grantedBy
	}

	return response
}

// BulkGrantFailureResponse reports one failed entry of a bulk grant.
type BulkGrantFailureResponse struct {
	CapabilityKey string `json:"capability_key"`
	Error         string `json:"error"`
}

// BulkGrantResponse represents the structured outcome of a bulk grant.
type BulkGrantResponse struct {
	Succeeded []GrantResponse            `json:"succeeded"`
	Failed    []BulkGrantFailureResponse `json:"failed"`
}

// MapBulkGrantToResponse converts a domain bulk grant result to an API response.
func MapBulkGrantToResponse(result *accessDomain.BulkGrantResult) BulkGrantResponse {
	succeeded := make([]GrantResponse, 0, len(result.Succeeded))
	for _, grant := range result.Succeeded {
		succeeded = append(succeeded, MapGrantToResponse(grant))
	}

	failed := make([]BulkGrantFailureResponse, 0, len(result.Failed))
	for _, failure := range result.Failed {
		failed = append(failed, BulkGrantFailureResponse{
			CapabilityKey: failure.CapabilityKey,
			Error:         failure.Err.Error(),
		})
	}

	return BulkGrantResponse{
		Succeeded: succeeded,
		Failed:    failed,
	}
}

// OrgImpactResponse is the per-organization slice of an impact analysis.
type OrgImpactResponse struct {
	OrganizationID string `json:"organization_id"`
	UserCount      int    `json:"user_count"`
}

// ImpactAnalysisResponse reports how many users and organizations a role
// mutation would affect.
type ImpactAnalysisResponse struct {
	RoleID                string              `json:"role_id"`
	TotalUsersAffected    int                 `json:"total_users_affected"`
	OrganizationsAffected int                 `json:"organizations_affected"`
	Breakdown             []OrgImpactResponse `json:"breakdown"`
}

// MapImpactAnalysisToResponse converts a domain impact analysis to an API response.
func MapImpactAnalysisToResponse(analysis *accessDomain.ImpactAnalysis) ImpactAnalysisResponse {
	breakdown := make([]OrgImpactResponse, 0, len(analysis.Breakdown))
	for _, impact := range analysis.Breakdown {
		breakdown = append(breakdown, OrgImpactResponse{
			OrganizationID: impact.OrganizationID.String(),
			UserCount:      impact.UserCount,
		})
	}

	return ImpactAnalysisResponse{
		RoleID:                analysis.RoleID.String(),
		TotalUsersAffected:    analysis.TotalUsersAffected,
		OrganizationsAffected: analysis.OrganizationsAffected,
		Breakdown:             breakdown,
	}
}
