package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	apptrade "github.com/optica/backend/internal/application/trade"
	"github.com/optica/backend/internal/domain/catalog"
	"github.com/optica/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	scope       apptrade.TransactionScope
	logger      *zap.Logger
	now         func() time.Time
}

// NewProductService creates a new ProductService. Edits run inside scope so
// they serialize with sales and purchases on the product row lock.
func NewProductService(productRepo catalog.ProductRepository, scope apptrade.TransactionScope, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		scope:       scope,
		logger:      logger,
		now:         time.Now,
	}
}

// Create creates a new product with derived costs
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	product, err := catalog.NewProduct(catalog.ProductDraft{
		Name:        req.Name,
		Distributor: req.Distributor,
		Brand:       req.Brand,
		Material:    req.Material,
		FrameType:   req.FrameType,
		Code:        req.Code,
		Diameter1:   req.Diameter1,
		Diameter2:   req.Diameter2,
		Color:       req.Color,
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		Description: req.Description,
	}, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID retrieves a product
func (s *ProductService) GetByID(ctx context.Context, id int64) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	return product, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, f ProductListFilter) (shared.Paginated[catalog.Product], error) {
	status := catalog.StatusFilter(f.Status)
	if status == "" {
		status = catalog.StatusActive
	}
	if !status.IsValid() {
		return shared.Paginated[catalog.Product]{}, shared.NewDomainError(shared.ErrValidation.Code, fmt.Sprintf("Unknown status filter %q", f.Status))
	}
	base := shared.Filter{Page: f.Page, PageSize: f.PageSize, Search: f.Search, OrderBy: f.Sort, OrderDir: f.Order}.Normalize()

	products, total, err := s.productRepo.FindAll(ctx, catalog.ProductFilter{Filter: base, Status: status})
	if err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}
	return shared.NewPaginated(products, total, base.Page, base.PageSize), nil
}

// Update applies an allow-listed partial update
func (s *ProductService) Update(ctx context.Context, id int64, patch catalog.ProductPatch) (*catalog.Product, error) {
	if patch.IsEmpty() {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, "No fields to update")
	}
	var updated *catalog.Product
	err := s.scope.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		repo := repos.ProductRepo()
		product, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return wrapNotFound(err, id)
		}
		if err := product.ApplyPatch(patch); err != nil {
			return err
		}
		if err := repo.UpdateColumns(ctx, product, patch.Columns()); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a product that no document references, and deactivates
// one that sale or purchase lines still point at.
func (s *ProductService) Delete(ctx context.Context, id int64) (shared.DeletionOutcome, error) {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return "", wrapNotFound(err, id)
	}

	referenced, err := s.productRepo.IsReferenced(ctx, id)
	if err != nil {
		return "", err
	}
	if !referenced {
		err = s.productRepo.Delete(ctx, id)
		if err == nil {
			s.logger.Info("Product deleted", zap.Int64("product_id", id))
			return shared.DeletionHardDeleted, nil
		}
		// A line written after the reference check still blocks the delete
		if !errors.Is(err, shared.ErrReferenced) {
			return "", err
		}
	}

	if err := s.productRepo.UpdateStatus(ctx, id, false); err != nil {
		return "", err
	}
	s.logger.Info("Product deactivated instead of deleted", zap.Int64("product_id", id))
	return shared.DeletionDeactivated, nil
}

// Restore reactivates a deactivated product
func (s *ProductService) Restore(ctx context.Context, id int64) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	if product.Active {
		return product, nil
	}
	if err := s.productRepo.UpdateStatus(ctx, id, true); err != nil {
		return nil, err
	}
	product.Restore()
	return product, nil
}

func wrapNotFound(err error, id int64) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(shared.ErrNotFound.Code, fmt.Sprintf("Product %d not found", id))
	}
	return err
}

// LowStock lists active products at or below threshold units
func (s *ProductService) LowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	if threshold < 0 {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, "Threshold cannot be negative")
	}
	return s.productRepo.FindLowStock(ctx, threshold)
}
