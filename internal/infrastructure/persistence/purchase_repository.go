package persistence

import (
	"context"

	"github.com/optica/backend/internal/domain/shared"
	"github.com/optica/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// Create inserts the header without touching its associations
func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *trade.Purchase) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(purchase).Error)
}

// CreateLine inserts one purchase line
func (r *GormPurchaseRepository) CreateLine(ctx context.Context, line *trade.PurchaseLine) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error)
}

// UpdateTotals writes the money columns of an existing header
func (r *GormPurchaseRepository) UpdateTotals(ctx context.Context, purchase *trade.Purchase) error {
	columns := append([]string{"total_pagar", "updated_at"}, totalColumns...)
	result := r.db.WithContext(ctx).Model(purchase).Select(columns).Updates(purchase)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID loads a purchase with supplier and lines
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id int64) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("detalle_id ASC") }).
		Preload("Lines.Product").
		First(&purchase, "compra_id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &purchase, nil
}

// FindAll lists purchases newest first
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Purchase, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.Purchase{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	f := filter.Normalize()
	var purchases []trade.Purchase
	if err := query.Preload("Supplier").
		Order("created_at DESC, compra_id DESC").
		Offset(f.Offset()).Limit(f.PageSize).
		Find(&purchases).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return purchases, total, nil
}

var _ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
