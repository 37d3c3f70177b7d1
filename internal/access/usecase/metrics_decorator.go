package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	"github.com/allisson/authz/internal/metrics"
)

// record emits the operation counter and duration histogram for one call.
func record(ctx context.Context, m metrics.BusinessMetrics, domain, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

// evaluatorUseCaseWithMetrics decorates EvaluatorUseCase with metrics
// instrumentation. Check is the hot path, so its latency distribution is the
// one worth watching.
type evaluatorUseCaseWithMetrics struct {
	next    EvaluatorUseCase
	metrics metrics.BusinessMetrics
}

// NewEvaluatorUseCaseWithMetrics wraps an EvaluatorUseCase with metrics recording.
func NewEvaluatorUseCaseWithMetrics(useCase EvaluatorUseCase, m metrics.BusinessMetrics) EvaluatorUseCase {
	return &evaluatorUseCaseWithMetrics{next: useCase, metrics: m}
}

func (e *evaluatorUseCaseWithMetrics) Check(
	ctx context.Context,
	userID, organizationID uuid.UUID,
	capabilityKey string,
	required accessDomain.AccessLevel,
) (bool, error) {
	start := time.Now()
	allowed, err := e.next.Check(ctx, userID, organizationID, capabilityKey, required)
	record(ctx, e.metrics, "evaluator", "check", start, err)
	return allowed, err
}

func (e *evaluatorUseCaseWithMetrics) GetEffective(
	ctx context.Context,
	userID, organizationID uuid.UUID,
) (map[string]accessDomain.EffectiveCapability, error) {
	start := time.Now()
	effective, err := e.next.GetEffective(ctx, userID, organizationID)
	record(ctx, e.metrics, "evaluator", "get_effective", start, err)
	return effective, err
}

// catalogUseCaseWithMetrics decorates CatalogUseCase with metrics instrumentation.
type catalogUseCaseWithMetrics struct {
	next    CatalogUseCase
	metrics metrics.BusinessMetrics
}

// NewCatalogUseCaseWithMetrics wraps a CatalogUseCase with metrics recording.
func NewCatalogUseCaseWithMetrics(useCase CatalogUseCase, m metrics.BusinessMetrics) CatalogUseCase {
	return &catalogUseCaseWithMetrics{next: useCase, metrics: m}
}

func (c *catalogUseCaseWithMetrics) Seed(ctx context.Context) (int, error) {
	start := time.Now()
	inserted, err := c.next.Seed(ctx)
	record(ctx, c.metrics, "catalog", "seed", start, err)
	return inserted, err
}

func (c *catalogUseCaseWithMetrics) Get(ctx context.Context, key string) (*accessDomain.Capability, error) {
	start := time.Now()
	capability, err := c.next.Get(ctx, key)
	record(ctx, c.metrics, "catalog", "get", start, err)
	return capability, err
}

func (c *catalogUseCaseWithMetrics) List(ctx context.Context) ([]*accessDomain.Capability, error) {
	start := time.Now()
	capabilities, err := c.next.List(ctx)
	record(ctx, c.metrics, "catalog", "list", start, err)
	return capabilities, err
}

func (c *catalogUseCaseWithMetrics) ListByCategory(
	ctx context.Context,
	category string,
) ([]*accessDomain.Capability, error) {
	start := time.Now()
	capabilities, err := c.next.ListByCategory(ctx, category)
	record(ctx, c.metrics, "catalog", "list_by_category", start, err)
	return capabilities, err
}

func (c *catalogUseCaseWithMetrics) Categories(ctx context.Context) ([]string, error) {
	start := time.Now()
	categories, err := c.next.Categories(ctx)
	record(ctx, c.metrics, "catalog", "categories", start, err)
	return categories, err
}

func (c *catalogUseCaseWithMetrics) Search(ctx context.Context, keyword string) ([]*accessDomain.Capability, error) {
	start := time.Now()
	capabilities, err := c.next.Search(ctx, keyword)
	record(ctx, c.metrics, "catalog", "search", start, err)
	return capabilities, err
}

// customRoleUseCaseWithMetrics decorates CustomRoleUseCase with metrics instrumentation.
type customRoleUseCaseWithMetrics struct {
	next    CustomRoleUseCase
	metrics metrics.BusinessMetrics
}

// NewCustomRoleUseCaseWithMetrics wraps a CustomRoleUseCase with metrics recording.
func NewCustomRoleUseCaseWithMetrics(useCase CustomRoleUseCase, m metrics.BusinessMetrics) CustomRoleUseCase {
	return &customRoleUseCaseWithMetrics{next: useCase, metrics: m}
}

func (c *customRoleUseCaseWithMetrics) CreateFromScratch(
	ctx context.Context,
	input *accessDomain.CreateCustomRoleInput,
) (*accessDomain.CustomRole, error) {
	start := time.Now()
	role, err := c.next.CreateFromScratch(ctx, input)
	record(ctx, c.metrics, "custom_role", "create", start, err)
	return role, err
}

func (c *customRoleUseCaseWithMetrics) CreateFromTemplates(
	ctx context.Context,
	input *accessDomain.CreateFromTemplatesInput,
) (*accessDomain.CustomRole, error) {
	start := time.Now()
	role, err := c.next.CreateFromTemplates(ctx, input)
	record(ctx, c.metrics, "custom_role", "create_from_templates", start, err)
	return role, err
}

func (c *customRoleUseCaseWithMetrics) Clone(
	ctx context.Context,
	sourceID uuid.UUID,
	newName string,
	createdBy *uuid.UUID,
) (*accessDomain.CustomRole, error) {
	start := time.Now()
	role, err := c.next.Clone(ctx, sourceID, newName, createdBy)
	record(ctx, c.metrics, "custom_role", "clone", start, err)
	return role, err
}

func (c *customRoleUseCaseWithMetrics) Update(
	ctx context.Context,
	roleID uuid.UUID,
	patch *accessDomain.UpdateCustomRoleInput,
) (*accessDomain.CustomRole, error) {
	start := time.Now()
	role, err := c.next.Update(ctx, roleID, patch)
	record(ctx, c.metrics, "custom_role", "update", start, err)
	return role, err
}

func (c *customRoleUseCaseWithMetrics) AddCapability(
	ctx context.Context,
	roleID uuid.UUID,
	capabilityKey string,
	level accessDomain.AccessLevel,
	constraints map[string]any,
	grantedBy *uuid.UUID,
) (*accessDomain.Grant, error) {
	start := time.Now()
	grant, err := c.next.AddCapability(ctx, roleID, capabilityKey, level, constraints, grantedBy)
	record(ctx, c.metrics, "custom_role", "add_capability", start, err)
	return grant, err
}

func (c *customRoleUseCaseWithMetrics) RemoveCapability(
	ctx context.Context,
	roleID uuid.UUID,
	capabilityKey string,
) (bool, error) {
	start := time.Now()
	existed, err := c.next.RemoveCapability(ctx, roleID, capabilityKey)
	record(ctx, c.metrics, "custom_role", "remove_capability", start, err)
	return existed, err
}

func (c *customRoleUseCaseWithMetrics) Delete(ctx context.Context, roleID uuid.UUID) error {
	start := time.Now()
	err := c.next.Delete(ctx, roleID)
	record(ctx, c.metrics, "custom_role", "delete", start, err)
	return err
}

func (c *customRoleUseCaseWithMetrics) ImpactAnalysis(
	ctx context.Context,
	roleID uuid.UUID,
) (*accessDomain.ImpactAnalysis, error) {
	start := time.Now()
	analysis, err := c.next.ImpactAnalysis(ctx, roleID)
	record(ctx, c.metrics, "custom_role", "impact_analysis", start, err)
	return analysis, err
}

func (c *customRoleUseCaseWithMetrics) SaveAsTemplate(
	ctx context.Context,
	roleID uuid.UUID,
	templateKey, name, description string,
) (*accessDomain.Template, error) {
	start := time.Now()
	template, err := c.next.SaveAsTemplate(ctx, roleID, templateKey, name, description)
	record(ctx, c.metrics, "custom_role", "save_as_template", start, err)
	return template, err
}

func (c *customRoleUseCaseWithMetrics) Get(ctx context.Context, roleID uuid.UUID) (*accessDomain.CustomRole, error) {
	start := time.Now()
	role, err := c.next.Get(ctx, roleID)
	record(ctx, c.metrics, "custom_role", "get", start, err)
	return role, err
}

func (c *customRoleUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*accessDomain.CustomRole, error) {
	start := time.Now()
	roles, err := c.next.List(ctx, offset, limit)
	record(ctx, c.metrics, "custom_role", "list", start, err)
	return roles, err
}
