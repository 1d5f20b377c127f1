package trade

import (
	"context"

	"github.com/optica/backend/internal/domain/shared"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// Create inserts the header and assigns its ID
	Create(ctx context.Context, sale *Sale) error

	// CreateLine inserts one sale line
	CreateLine(ctx context.Context, line *SaleLine) error

	// UpdateTotals writes the money columns of an existing header
	UpdateTotals(ctx context.Context, sale *Sale) error

	// FindByID loads a sale with client, seller and lines (with products)
	FindByID(ctx context.Context, id int64) (*Sale, error)

	// FindAll lists sales newest first, with the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, int64, error)

	// FindRecent returns the latest limit sales with their client
	FindRecent(ctx context.Context, limit int) ([]Sale, error)
}

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *Purchase) error
	CreateLine(ctx context.Context, line *PurchaseLine) error
	UpdateTotals(ctx context.Context, purchase *Purchase) error

	// FindByID loads a purchase with supplier and lines (with products)
	FindByID(ctx context.Context, id int64) (*Purchase, error)

	// FindAll lists purchases newest first, with the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]Purchase, int64, error)
}
