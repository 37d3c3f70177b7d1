package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	accessDomain "github.com/allisson/authz/internal/access/domain"
)

// fakeTxManager runs the function directly, so transactional code paths are
// exercised without a database.
type fakeTxManager struct {
	beginErr error
}

func (f *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(ctx)
}

type mockCapabilityRepository struct {
	mock.Mock
}

func (m *mockCapabilityRepository) CreateIfMissing(ctx context.Context, capability *accessDomain.Capability) (bool, error) {
	args := m.Called(ctx, capability)
	return args.Bool(0), args.Error(1)
}

func (m *mockCapabilityRepository) Get(ctx context.Context, key string) (*accessDomain.Capability, error) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.(*accessDomain.Capability), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCapabilityRepository) List(ctx context.Context) ([]*accessDomain.Capability, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*accessDomain.Capability), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCapabilityRepository) ListByCategory(ctx context.Context, category string) ([]*accessDomain.Capability, error) {
	args := m.Called(ctx, category)
	if v := args.Get(0); v != nil {
		return v.([]*accessDomain.Capability), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCapabilityRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCapabilityRepository) Search(ctx context.Context, keyword string) ([]*accessDomain.Capability, error) {
	args := m.Called(ctx, keyword)
	if v := args.Get(0); v != nil {
		return v.([]*accessDomain.Capability), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRoleRepository struct {
	mock.Mock
}

func (m *mockRoleRepository) Create(ctx context.Context, role *accessDomain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepository) Get(ctx context.Context, roleID uuid.UUID) (*accessDomain.Role, error) {
	args := m.Called(ctx, roleID)
	if v := args.Get(0); v != nil {
		return v.(*accessDomain.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRoleRepository) GetByKey(ctx context.Context, roleKey string) (*accessDomain.Role, error) {
	args := m.Called(ctx, roleKey)
	if v := args.Get(0); v != nil {
		return v.(*accessDomain.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRoleRepository) UpdateDetails(ctx context.Context, role *accessDomain.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *mockRoleRepository) Delete(ctx context.Context, roleID uuid.UUID) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *mockRoleRepository) ListCustom(ctx context.Context, offset, limit int) ([]*accessDomain.Role, error) {
	args := m.Called(ctx, offset, limit)
	if v := args.Get(0); v != nil {
		return v.([]*accessDomain.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRoleRepository) CreateMeta(ctx context.Context, meta *accessDomain.CustomRoleMeta) error {
	args := m.Called(ctx, meta)
	return args.Error(0)
}

func (m *mockRoleRepository) GetMeta(ctx context.Context, roleID uuid.UUID) (*accessDomain.CustomRoleMeta, error) {
	args := m.Called(ctx, roleID)
	if v := args.Get(0); v != nil {
		return v.(*accessDomain.CustomRoleMeta), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRoleRepository) SetMetaIsTemplate(ctx context.Context, roleID uuid.UUID, isTemplate bool) error {
	args := m.Called(ctx, roleID, isTemplate)
	return args.Error(0)
}

type mockGrantRepository struct {
	mock.Mock
}

func (m *mockGrantRepository) Upsert(ctx context.Context, grant *accessDomain.Grant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *mockGrantRepository) Get(ctx context.Context, roleID uuid.UUID, capabilityKey string) (*accessDomain.Grant, error) {
	args := m.Called(ctx, roleID, capabilityKey)
	if v := args.Get(0); v != nil {
		return v.(*accessDomain.Grant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGrantRepository) Delete(ctx context.Context, roleID uuid.UUID, capabilityKey string) (bool, error) {
	args := m.Called(ctx, roleID, capabilityKey)
	return args.Bool(0), args.Error(1)
}

func (m *mockGrantRepository) DeleteAllForRole(ctx context.Context, roleID uuid.UUID) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *mockGrantRepository) ListByRole(ctx context.Context, roleID uuid.UUID) ([]*accessDomain.Grant, error) {
	args := m.Called(ctx, roleID)
	if v := args.Get(0); v != nil {
		return v.([]*accessDomain.Grant), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAssignmentRepository struct {
	mock.Mock
}

func (m *mockAssignmentRepository) GetActive(ctx context.Context, userID, organizationID uuid.UUID) (*accessDomain.Assignment, error) {
	args := m.Called(ctx, userID, organizationID)
	if v := args.Get(0); v != nil {
		return v.(*accessDomain.Assignment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAssignmentRepository) CountByRole(ctx context.Context, roleID uuid.UUID) (int, error) {
	args := m.Called(ctx, roleID)
	return args.Int(0), args.Error(1)
}

func (m *mockAssignmentRepository) BreakdownByRole(ctx context.Context, roleID uuid.UUID) ([]accessDomain.OrgImpact, error) {
	args := m.Called(ctx, roleID)
	if v := args.Get(0); v != nil {
		return v.([]accessDomain.OrgImpact), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTemplateRepository struct {
	mock.Mock
}

func (m *mockTemplateRepository) CreateIfMissing(ctx context.Context, template *accessDomain.Template) (bool, error) {
	args := m.Called(ctx, template)
	return args.Bool(0), args.Error(1)
}

func (m *mockTemplateRepository) Create(ctx context.Context, template *accessDomain.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockTemplateRepository) Get(ctx context.Context, templateKey string) (*accessDomain.Template, error) {
	args := m.Called(ctx, templateKey)
	if v := args.Get(0); v != nil {
		return v.(*accessDomain.Template), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTemplateRepository) List(ctx context.Context) ([]*accessDomain.Template, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*accessDomain.Template), args.Error(1)
	}
	return nil, args.Error(1)
}
