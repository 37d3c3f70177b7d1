package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accessDomain "github.com/allisson/authz/internal/access/domain"
)

type mockCatalogUseCase struct {
	mock.Mock
}

func (m *mockCatalogUseCase) Seed(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockCatalogUseCase) Get(ctx context.Context, key string) (*accessDomain.Capability, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.Capability), args.Error(1)
}

func (m *mockCatalogUseCase) List(ctx context.Context) ([]*accessDomain.Capability, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accessDomain.Capability), args.Error(1)
}

func (m *mockCatalogUseCase) ListByCategory(ctx context.Context, category string) ([]*accessDomain.Capability, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accessDomain.Capability), args.Error(1)
}

func (m *mockCatalogUseCase) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockCatalogUseCase) Search(ctx context.Context, keyword string) ([]*accessDomain.Capability, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accessDomain.Capability), args.Error(1)
}

type mockTemplateUseCase struct {
	mock.Mock
}

func (m *mockTemplateUseCase) SeedBuiltins(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockTemplateUseCase) ListTemplates(ctx context.Context) ([]*accessDomain.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accessDomain.Template), args.Error(1)
}

func (m *mockTemplateUseCase) GetTemplate(ctx context.Context, templateKey string) (*accessDomain.Template, error) {
	args := m.Called(ctx, templateKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.Template), args.Error(1)
}

func (m *mockTemplateUseCase) Preview(
	ctx context.Context,
	templateKeys []string,
	strategy accessDomain.MergeStrategy,
	customizations map[string]accessDomain.Override,
) (map[string]accessDomain.AccessLevel, error) {
	args := m.Called(ctx, templateKeys, strategy, customizations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]accessDomain.AccessLevel), args.Error(1)
}

type mockCustomRoleUseCase struct {
	mock.Mock
}

func (m *mockCustomRoleUseCase) CreateFromScratch(
	ctx context.Context,
	input *accessDomain.CreateCustomRoleInput,
) (*accessDomain.CustomRole, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.CustomRole), args.Error(1)
}

func (m *mockCustomRoleUseCase) CreateFromTemplates(
	ctx context.Context,
	input *accessDomain.CreateFromTemplatesInput,
) (*accessDomain.CustomRole, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.CustomRole), args.Error(1)
}

func (m *mockCustomRoleUseCase) Clone(
	ctx context.Context,
	sourceID uuid.UUID,
	newName string,
	createdBy *uuid.UUID,
) (*accessDomain.CustomRole, error) {
	args := m.Called(ctx, sourceID, newName, createdBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.CustomRole), args.Error(1)
}

func (m *mockCustomRoleUseCase) Update(
	ctx context.Context,
	roleID uuid.UUID,
	patch *accessDomain.UpdateCustomRoleInput,
) (*accessDomain.CustomRole, error) {
	args := m.Called(ctx, roleID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.CustomRole), args.Error(1)
}

func (m *mockCustomRoleUseCase) AddCapability(
	ctx context.Context,
	roleID uuid.UUID,
	capabilityKey string,
	level accessDomain.AccessLevel,
	constraints map[string]any,
	grantedBy *uuid.UUID,
) (*accessDomain.Grant, error) {
	args := m.Called(ctx, roleID, capabilityKey, level, constraints, grantedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.Grant), args.Error(1)
}

func (m *mockCustomRoleUseCase) RemoveCapability(
	ctx context.Context,
	roleID uuid.UUID,
	capabilityKey string,
) (bool, error) {
	args := m.Called(ctx, roleID, capabilityKey)
	return args.Bool(0), args.Error(1)
}

func (m *mockCustomRoleUseCase) Delete(ctx context.Context, roleID uuid.UUID) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *mockCustomRoleUseCase) ImpactAnalysis(
	ctx context.Context,
	roleID uuid.UUID,
) (*accessDomain.ImpactAnalysis, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.ImpactAnalysis), args.Error(1)
}

func (m *mockCustomRoleUseCase) SaveAsTemplate(
	ctx context.Context,
	roleID uuid.UUID,
	templateKey, name, description string,
) (*accessDomain.Template, error) {
	args := m.Called(ctx, roleID, templateKey, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.Template), args.Error(1)
}

func (m *mockCustomRoleUseCase) Get(ctx context.Context, roleID uuid.UUID) (*accessDomain.CustomRole, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accessDomain.CustomRole), args.Error(1)
}

func (m *mockCustomRoleUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*accessDomain.CustomRole, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accessDomain.CustomRole), args.Error(1)
}
