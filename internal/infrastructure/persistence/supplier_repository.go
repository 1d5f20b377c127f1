package persistence

import (
	"context"

	"github.com/optica/backend/internal/domain/partner"
	"github.com/optica/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by its ID
func (r *GormSupplierRepository) FindByID(ctx context.Context, id int64) (*partner.Supplier, error) {
	var supplier partner.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "proveedor_id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &supplier, nil
}

// FindAll lists suppliers by legal name
func (r *GormSupplierRepository) FindAll(ctx context.Context, activeOnly bool) ([]partner.Supplier, error) {
	query := r.db.WithContext(ctx).Model(&partner.Supplier{})
	if activeOnly {
		query = query.Where("estado = ?", true)
	}
	var suppliers []partner.Supplier
	if err := query.Order("razon_social ASC, proveedor_id ASC").Find(&suppliers).Error; err != nil {
		return nil, translateError(err)
	}
	return suppliers, nil
}

// ExistsByCodeOrRUT checks whether either identifier is already registered
func (r *GormSupplierRepository) ExistsByCodeOrRUT(ctx context.Context, code, rut string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Supplier{}).
		Where("codigo_proveedor = ? OR rut = ?", code, partner.NormalizeRUT(rut)).
		Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Create inserts a new supplier
func (r *GormSupplierRepository) Create(ctx context.Context, supplier *partner.Supplier) error {
	return translateError(r.db.WithContext(ctx).Create(supplier).Error)
}

// Save updates every column of an existing supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return translateError(r.db.WithContext(ctx).Save(supplier).Error)
}

// IsReferenced reports whether any purchase points at the supplier
func (r *GormSupplierRepository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table("compras").Where("proveedor_id = ?", id).Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Delete deletes a supplier
func (r *GormSupplierRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&partner.Supplier{}, "proveedor_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
