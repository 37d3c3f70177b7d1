// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"fmt"

	validation "github.com/jellydator/validation"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	customValidation "github.com/allisson/authz/internal/validation"
)

// capabilityKeysRule validates every key of a capability map. String rules
// skip empty values, so Required is chained to reject empty keys. Levels are
// validated during JSON binding by AccessLevel.UnmarshalJSON.
func capabilityKeysRule(value any) error {
	capabilities, ok := value.(map[string]accessDomain.AccessLevel)
	if !ok {
		return nil
	}
	for key := range capabilities {
		if err := validation.Validate(key, validation.Required, customValidation.CapabilityKey); err != nil {
			return fmt.Errorf("capability %q: %w", key, err)
		}
	}
	return nil
}

// overrideKeysRule validates every key of a customization override map.
func overrideKeysRule(value any) error {
	overrides, ok := value.(map[string]accessDomain.Override)
	if !ok {
		return nil
	}
	for key := range overrides {
		if err := validation.Validate(key, validation.Required, customValidation.CapabilityKey); err != nil {
			return fmt.Errorf("customization %q: %w", key, err)
		}
	}
	return nil
}

// CreateCustomRoleRequest contains the parameters for creating a custom role
// from an explicit capability map.
type CreateCustomRoleRequest struct {
	Name         string                              `json:"name"`
	Description  string                              `json:"description"`
	Capabilities map[string]accessDomain.AccessLevel `json:"capabilities"`
}

// Validate checks if the create custom role request is valid.
func (r *CreateCustomRoleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Capabilities, validation.By(capabilityKeysRule)),
	)
}

// CreateFromTemplatesRequest contains the parameters for creating a custom
// role by merging templates. An empty merge strategy defaults to union.
type CreateFromTemplatesRequest struct {
	Name           string                           `json:"name"`
	Description    string                           `json:"description"`
	TemplateKeys   []string                         `json:"template_keys"`
	MergeStrategy  string                           `json:"merge_strategy"`
	Customizations map[string]accessDomain.Override `json:"customizations"`
}

// Validate checks if the create from templates request is valid.
func (r *CreateFromTemplatesRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.TemplateKeys,
			validation.Required,
			validation.Each(customValidation.NotBlank),
		),
		validation.Field(&r.MergeStrategy, customValidation.MergeStrategyName),
		validation.Field(&r.Customizations, validation.By(overrideKeysRule)),
	)
}

// UpdateCustomRoleRequest is a partial patch for a custom role. A present
// capabilities map replaces the entire grant set.
type UpdateCustomRoleRequest struct {
	Name         *string                             `json:"name"`
	Description  *string                             `json:"description"`
	Capabilities map[string]accessDomain.AccessLevel `json:"capabilities"`
}

// Validate checks if the update custom role request is valid.
func (r *UpdateCustomRoleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, customValidation.NotBlank, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 500)),
		validation.Field(&r.Capabilities, validation.By(capabilityKeysRule)),
	)
}

// CloneRoleRequest contains the parameters for cloning a custom role.
type CloneRoleRequest struct {
	Name string `json:"name"`
}

// Validate checks if the clone role request is valid.
func (r *CloneRoleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 100),
		),
	)
}

// AddCapabilityRequest contains the parameters for adding a single
// capability grant to a custom role.
type AddCapabilityRequest struct {
	CapabilityKey string         `json:"capability_key"`
	AccessLevel   string         `json:"access_level"`
	Constraints   map[string]any `json:"constraints"`
}

// Validate checks if the add capability request is valid.
func (r *AddCapabilityRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CapabilityKey, validation.Required, customValidation.CapabilityKey),
		validation.Field(&r.AccessLevel, validation.Required, customValidation.AccessLevelName),
	)
}

// BulkGrantItemRequest is one entry of a bulk grant request.
type BulkGrantItemRequest struct {
	CapabilityKey string         `json:"capability_key"`
	AccessLevel   string         `json:"access_level"`
	Constraints   map[string]any `json:"constraints"`
}

// Validate checks if the bulk grant item is valid.
func (r BulkGrantItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CapabilityKey, validation.Required, customValidation.CapabilityKey),
		validation.Field(&r.AccessLevel, validation.Required, customValidation.AccessLevelName),
	)
}

// BulkGrantRequest contains the entries for a bulk grant. Shape errors fail
// the whole request; semantic errors (unknown capability, disallowed level)
// are reported per item in the response instead.
type BulkGrantRequest struct {
	Grants []BulkGrantItemRequest `json:"grants"`
}

// Validate checks if the bulk grant request is valid.
func (r *BulkGrantRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Grants, validation.Required, validation.Length(1, 100)),
	)
}

// PreviewTemplatesRequest contains the parameters for a merge preview. An
// empty merge strategy defaults to union.
type PreviewTemplatesRequest struct {
	TemplateKeys   []string                         `json:"template_keys"`
	MergeStrategy  string                           `json:"merge_strategy"`
	Customizations map[string]accessDomain.Override `json:"customizations"`
}

// Validate checks if the preview request is valid.
func (r *PreviewTemplatesRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TemplateKeys,
			validation.Required,
			validation.Each(customValidation.NotBlank),
		),
		validation.Field(&r.MergeStrategy, customValidation.MergeStrategyName),
		validation.Field(&r.Customizations, validation.By(overrideKeysRule)),
	)
}

// SaveAsTemplateRequest contains the parameters for promoting a custom role
// into a template.
type SaveAsTemplateRequest struct {
	TemplateKey string `json:"template_key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks if the save as template request is valid.
func (r *SaveAsTemplateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TemplateKey,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			validation.Length(1, 100),
		),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 100),
		),
		validation.Field(&r.Description, validation.Length(0, 500)),
	)
}
