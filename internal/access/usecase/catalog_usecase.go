package usecase

import (
	"context"
	"time"

	accessDomain "github.com/allisson/authz/internal/access/domain"
	"github.com/allisson/authz/internal/database"
)

// catalogUseCase implements the CatalogUseCase interface.
type catalogUseCase struct {
	txManager      database.TxManager
	capabilityRepo CapabilityRepository
}

// Seed inserts the built-in capabilities that are missing from the catalog.
// Runs inside a single transaction so a partial seed never becomes visible.
func (c *catalogUseCase) Seed(ctx context.Context) (int, error) {
	var inserted int

	err := c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		now := time.Now().UTC()
		for _, capability := range accessDomain.BuiltinCapabilities() {
			capability.CreatedAt = now
			ok, err := c.capabilityRepo.CreateIfMissing(txCtx, &capability)
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

// Get retrieves a capability by key.
func (c *catalogUseCase) Get(ctx context.Context, key string) (*accessDomain.Capability, error) {
	return c.capabilityRepo.Get(ctx, key)
}

// List retrieves the full catalog ordered by category and key.
func (c *catalogUseCase) List(ctx context.Context) ([]*accessDomain.Capability, error) {
	return c.capabilityRepo.List(ctx)
}

// ListByCategory retrieves the capabilities of one category.
func (c *catalogUseCase) ListByCategory(
	ctx context.Context,
	category string,
) ([]*accessDomain.Capability, error) {
	return c.capabilityRepo.ListByCategory(ctx, category)
}

// Categories retrieves the distinct catalog categories.
func (c *catalogUseCase) Categories(ctx context.Context) ([]string, error) {
	return c.capabilityRepo.Categories(ctx)
}

// Search retrieves capabilities matching the keyword in key, name, or
// description, case-insensitive.
func (c *catalogUseCase) Search(ctx context.Context, keyword string) ([]*accessDomain.Capability, error) {
	return c.capabilityRepo.Search(ctx, keyword)
}

// NewCatalogUseCase creates a new catalog use case instance.
func NewCatalogUseCase(txManager database.TxManager, capabilityRepo CapabilityRepository) CatalogUseCase {
	return &catalogUseCase{
		txManager:      txManager,
		capabilityRepo: capabilityRepo,
	}
}
