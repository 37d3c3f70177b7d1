package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	apperrors "github.com/allisson/authz/internal/errors"
)

func TestCatalogUseCase_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("FreshDatabaseInsertsEverything", func(t *testing.T) {
		capabilityRepo := &mockCapabilityRepository{}
		capabilityRepo.On("CreateIfMissing", mock.Anything, mock.MatchedBy(func(capability *accessDomain.Capability) bool {
			return capability != nil && capability.Key != "" && !capability.CreatedAt.IsZero()
		})).Return(true, nil)

		uc := NewCatalogUseCase(&fakeTxManager{}, capabilityRepo)
		inserted, err := uc.Seed(ctx)

		require.NoError(t, err)
		assert.Equal(t, len(accessDomain.BuiltinCapabilities()), inserted)
	})

	t.Run("SecondRunInsertsNothing", func(t *testing.T) {
		capabilityRepo := &mockCapabilityRepository{}
		capabilityRepo.On("CreateIfMissing", mock.Anything, mock.Anything).Return(false, nil)

		uc := NewCatalogUseCase(&fakeTxManager{}, capabilityRepo)
		inserted, err := uc.Seed(ctx)

		require.NoError(t, err)
		assert.Zero(t, inserted)
	})

	t.Run("RepositoryErrorAbortsSeed", func(t *testing.T) {
		capabilityRepo := &mockCapabilityRepository{}
		seedErr := apperrors.New("insert failed")
		capabilityRepo.On("CreateIfMissing", mock.Anything, mock.Anything).Return(false, seedErr)

		uc := NewCatalogUseCase(&fakeTxManager{}, capabilityRepo)
		inserted, err := uc.Seed(ctx)

		assert.Zero(t, inserted)
		assert.ErrorIs(t, err, seedErr)
	})
}

func TestCatalogUseCase_Search(t *testing.T) {
	capabilityRepo := &mockCapabilityRepository{}
	capabilityRepo.On("Search", mock.Anything, "vehicle").
		Return([]*accessDomain.Capability{{Key: "vehicle.view"}}, nil)

	uc := NewCatalogUseCase(&fakeTxManager{}, capabilityRepo)
	capabilities, err := uc.Search(context.Background(), "vehicle")

	require.NoError(t, err)
	require.Len(t, capabilities, 1)
	assert.Equal(t, "vehicle.view", capabilities[0].Key)
}
