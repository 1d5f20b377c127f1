package persistence

import (
	"context"
	"strings"

	"github.com/optica/backend/internal/domain/catalog"
	"github.com/optica/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "producto_id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindByIDForUpdate loads a product with SELECT ... FOR UPDATE
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	query := r.db.WithContext(ctx)
	// SQLite locks the whole database on write and has no row-lock syntax
	if query.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	if err := query.First(&product, "producto_id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindAll lists products matching the filter, newest ID first
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	f := filter.Normalize()
	var products []catalog.Product
	if err := query.Order(productOrder(f)).
		Offset(f.Offset()).Limit(f.PageSize).
		Find(&products).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return products, total, nil
}

// productOrder builds the ORDER BY clause; newest ID first unless asked otherwise
func productOrder(f shared.Filter) string {
	field := ValidateSortField(f.OrderBy, ProductSortFields, "producto_id")
	order := field + " " + ValidateSortOrder(f.OrderDir)
	if field != "producto_id" {
		order += ", producto_id DESC"
	}
	return order
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	switch filter.Status {
	case catalog.StatusDeleted:
		query = query.Where("estado = ?", false)
	case catalog.StatusAll:
	default:
		query = query.Where("estado = ?", true)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(nombre) LIKE ? OR LOWER(codigo) LIKE ? OR LOWER(marca) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	return query
}

// FindLowStock lists active products at or below threshold units, scarcest first
func (r *GormProductRepository) FindLowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("estado = ? AND cantidad <= ?", true, threshold).
		Order("cantidad ASC, producto_id ASC").
		Find(&products).Error; err != nil {
		return nil, translateError(err)
	}
	return products, nil
}

// StockSummary counts active products and sums their stock
func (r *GormProductRepository) StockSummary(ctx context.Context) (int64, int64, error) {
	var row struct {
		Products int64
		Units    int64
	}
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Select("COUNT(*) AS products, COALESCE(SUM(cantidad), 0) AS units").
		Where("estado = ?", true).
		Scan(&row).Error; err != nil {
		return 0, 0, translateError(err)
	}
	return row.Products, row.Units, nil
}

// Create inserts a new product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Create(product).Error)
}

// UpdateColumns writes only the named columns, so concurrent stock changes
// survive an edit that does not include cantidad
func (r *GormProductRepository) UpdateColumns(ctx context.Context, product *catalog.Product, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(product).Select(columns).Updates(product)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateStatus sets estado only
func (r *GormProductRepository) UpdateStatus(ctx context.Context, id int64, active bool) error {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("producto_id = ?", id).
		Update("estado", active)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateQuantity writes only the stock level
func (r *GormProductRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("producto_id = ?", id).
		Update("cantidad", quantity)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// IsReferenced reports whether any sale or purchase line points at the product
func (r *GormProductRepository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	var sales, purchases int64
	db := r.db.WithContext(ctx)
	if err := db.Table("detalle_ventas").Where("producto_id = ?", id).Count(&sales).Error; err != nil {
		return false, translateError(err)
	}
	if sales > 0 {
		return true, nil
	}
	if err := db.Table("compras_detalle").Where("producto_id = ?", id).Count(&purchases).Error; err != nil {
		return false, translateError(err)
	}
	return purchases > 0, nil
}

// Delete removes the product row
func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "producto_id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
