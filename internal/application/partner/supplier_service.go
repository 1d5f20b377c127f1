package partner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/optica/backend/internal/domain/partner"
	"github.com/optica/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrSupplierAlreadyExists is returned when the code or RUT is taken
var ErrSupplierAlreadyExists = shared.NewDomainError("SUPPLIER_ALREADY_EXISTS", "A supplier with this code or RUT already exists")

// SupplierService handles supplier business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, logger *zap.Logger) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo, logger: logger, now: time.Now}
}

// Create registers a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*partner.Supplier, error) {
	supplier, err := partner.NewSupplier(req.toDraft(), s.now())
	if err != nil {
		return nil, err
	}

	exists, err := s.supplierRepo.ExistsByCodeOrRUT(ctx, supplier.Code, supplier.RUT)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSupplierAlreadyExists
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrSupplierAlreadyExists
		}
		return nil, err
	}

	s.logger.Info("Supplier registered",
		zap.Int64("supplier_id", supplier.ID),
		zap.String("code", supplier.Code),
	)
	return supplier, nil
}

// GetByID retrieves a supplier
func (s *SupplierService) GetByID(ctx context.Context, id int64) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, fmt.Sprintf("Supplier %d not found", id))
		}
		return nil, err
	}
	return supplier, nil
}

// List retrieves suppliers ordered by legal name
func (s *SupplierService) List(ctx context.Context, activeOnly bool) ([]partner.Supplier, error) {
	return s.supplierRepo.FindAll(ctx, activeOnly)
}

// Update applies an allow-listed partial update
func (s *SupplierService) Update(ctx context.Context, id int64, patch partner.SupplierPatch) (*partner.Supplier, error) {
	supplier, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.ApplyPatch(patch, s.now()); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Delete removes a supplier without purchases, and deactivates one with purchases on file.
func (s *SupplierService) Delete(ctx context.Context, id int64) (shared.DeletionOutcome, error) {
	supplier, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	referenced, err := s.supplierRepo.IsReferenced(ctx, id)
	if err != nil {
		return "", err
	}
	if referenced {
		supplier.Deactivate(s.now())
		if err := s.supplierRepo.Save(ctx, supplier); err != nil {
			return "", err
		}
		s.logger.Info("Supplier deactivated instead of deleted", zap.Int64("supplier_id", id))
		return shared.DeletionDeactivated, nil
	}

	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return "", err
	}
	return shared.DeletionHardDeleted, nil
}
