package partner

import (
	"context"

	"github.com/optica/backend/internal/domain/shared"
)

// ClientRepository defines the interface for client persistence
type ClientRepository interface {
	FindByID(ctx context.Context, id int64) (*Client, error)
	FindByRUT(ctx context.Context, rut string) (*Client, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Client, int64, error)
	Create(ctx context.Context, client *Client) error

	// GetOrCreateByRUT returns the client holding client.RUT, inserting client
	// when none exists. The boolean reports whether a row was inserted.
	GetOrCreateByRUT(ctx context.Context, client *Client) (*Client, bool, error)
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, id int64) (*Supplier, error)
	FindAll(ctx context.Context, activeOnly bool) ([]Supplier, error)
	ExistsByCodeOrRUT(ctx context.Context, code, rut string) (bool, error)
	Create(ctx context.Context, supplier *Supplier) error
	Save(ctx context.Context, supplier *Supplier) error

	// IsReferenced reports whether any purchase points at the supplier
	IsReferenced(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}
