package persistence

import (
	"context"

	"github.com/optica/backend/internal/domain/shared"
	"github.com/optica/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// totalColumns are the money columns shared by sale and purchase headers
var totalColumns = []string{
	"subtotal_general", "subtotal_tarifa_15", "subtotal_tarifa_5", "subtotal_tarifa_0",
	"descuento_total", "iva_15", "iva_5", "abono", "saldo",
}

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create inserts the header without touching its associations
func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error)
}

// CreateLine inserts one sale line
func (r *GormSaleRepository) CreateLine(ctx context.Context, line *trade.SaleLine) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error)
}

// UpdateTotals writes the money columns of an existing header
func (r *GormSaleRepository) UpdateTotals(ctx context.Context, sale *trade.Sale) error {
	columns := append([]string{"total"}, totalColumns...)
	result := r.db.WithContext(ctx).Model(sale).Select(columns).Updates(sale)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID loads a sale with client, seller and lines
func (r *GormSaleRepository) FindByID(ctx context.Context, id int64) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Seller").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("detalle_id ASC") }).
		Preload("Lines.Product").
		First(&sale, "venta_id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &sale, nil
}

// FindAll lists sales newest first
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.Sale{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	f := filter.Normalize()
	var sales []trade.Sale
	if err := query.Preload("Client").Preload("Seller").
		Order("fecha_venta DESC, venta_id DESC").
		Offset(f.Offset()).Limit(f.PageSize).
		Find(&sales).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return sales, total, nil
}

// FindRecent returns the latest limit sales with their client
func (r *GormSaleRepository) FindRecent(ctx context.Context, limit int) ([]trade.Sale, error) {
	var sales []trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Order("fecha_venta DESC, venta_id DESC").
		Limit(limit).
		Find(&sales).Error; err != nil {
		return nil, translateError(err)
	}
	return sales, nil
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)
