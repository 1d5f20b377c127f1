package catalog

import (
	"context"

	"github.com/optica/backend/internal/domain/shared"
)

// StatusFilter selects products by their active flag
type StatusFilter string

const (
	StatusActive  StatusFilter = "active"
	StatusDeleted StatusFilter = "deleted"
	StatusAll     StatusFilter = "all"
)

// IsValid checks if the status filter is known
func (s StatusFilter) IsValid() bool {
	switch s {
	case StatusActive, StatusDeleted, StatusAll:
		return true
	}
	return false
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	shared.Filter
	Status StatusFilter
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindByIDForUpdate loads a product and holds an exclusive row lock on it
	// until the surrounding transaction ends. Only meaningful inside a TransactionScope.
	FindByIDForUpdate(ctx context.Context, id int64) (*Product, error)

	// FindAll lists products matching the filter, with the total match count
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, int64, error)

	// FindLowStock lists active products at or below threshold units
	FindLowStock(ctx context.Context, threshold int) ([]Product, error)

	// StockSummary returns the active product count and their summed quantity
	StockSummary(ctx context.Context) (products int64, units int64, err error)

	// Create inserts a new product
	Create(ctx context.Context, product *Product) error

	// UpdateColumns writes only the named columns of product
	UpdateColumns(ctx context.Context, product *Product, columns []string) error

	// UpdateStatus sets the active flag without touching any other column
	UpdateStatus(ctx context.Context, id int64, active bool) error

	// UpdateQuantity writes only the stock level
	UpdateQuantity(ctx context.Context, id int64, quantity int) error

	// IsReferenced reports whether any sale or purchase line points at the product
	IsReferenced(ctx context.Context, id int64) (bool, error)

	// Delete removes the product row
	Delete(ctx context.Context, id int64) error
}
