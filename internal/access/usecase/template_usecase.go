package usecase

import (
	"context"
	"time"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	"github.com/allisson/authz/internal/database"
)

// templateUseCase implements the TemplateUseCase interface.
type templateUseCase struct {
	txManager    database.TxManager
	templateRepo TemplateRepository
}

// SeedBuiltins inserts the built-in templates that are missing from storage.
// Existing rows are never mutated, so reseeding after a deploy is safe.
func (t *templateUseCase) SeedBuiltins(ctx context.Context) (int, error) {
	var inserted int

	err := t.txManager.WithTx(ctx, func(txCtx context.Context) error {
		now := time.Now().UTC()
		for _, template := range accessDomain.BuiltinTemplates() {
			template.CreatedAt = now
			ok, err := t.templateRepo.CreateIfMissing(txCtx, &template)
			if err != nil {
				return err
			}
			if ok {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// ListTemplates retrieves all templates, built-in and promoted.
func (t *templateUseCase) ListTemplates(ctx context.Context) ([]*accessDomain.Template, error) {
	return t.templateRepo.List(ctx)
}

// GetTemplate retrieves a template by key.
func (t *templateUseCase) GetTemplate(ctx context.Context, templateKey string) (*accessDomain.Template, error) {
	return t.templateRepo.Get(ctx, templateKey)
}

// Preview resolves the template keys, merges them with the strategy, and
// applies the customization overrides. Nothing is persisted; this backs the
// role-builder preview flow.
func (t *templateUseCase) Preview(
	ctx context.Context,
	templateKeys []string,
	strategy accessDomain.MergeStrategy,
	customizations map[string]accessDomain.Override,
) (map[string]accessDomain.AccessLevel, error) {
	templates, err := t.resolveTemplates(ctx, templateKeys)
	if err != nil {
		return nil, err
	}

	merged := accessDomain.MergeTemplates(templates, strategy)
	return accessDomain.ApplyCustomizations(merged, customizations), nil
}

// resolveTemplates loads each template key, failing on the first unknown key.
func (t *templateUseCase) resolveTemplates(
	ctx context.Context,
	templateKeys []string,
) ([]*accessDomain.Template, error) {
	templates := make([]*accessDomain.Template, 0, len(templateKeys))
	for _, key := range templateKeys {
		template, err := t.templateRepo.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, nil
}

// NewTemplateUseCase creates a new template use case instance.
func NewTemplateUseCase(txManager database.TxManager, templateRepo TemplateRepository) TemplateUseCase {
	return &templateUseCase{
		txManager:    txManager,
		templateRepo: templateRepo,
	}
}
