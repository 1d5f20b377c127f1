package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/optica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	// taxFactor turns a net unit cost into the tax-inclusive cost.
	taxFactor = decimal.RequireFromString("1.15")
	// Markups applied to the tax-inclusive cost for the two list prices.
	primaryMarkup   = decimal.NewFromInt(3)
	secondaryMarkup = decimal.NewFromInt(2)
)

// Product is a stock-keeping item (frames, lenses, accessories).
// Quantity is the shared stock level decremented by sales and incremented by purchases.
type Product struct {
	ID           int64           `gorm:"column:producto_id;primaryKey;autoIncrement" json:"producto_id"`
	RegisteredAt *time.Time      `gorm:"column:fecha" json:"fecha,omitempty"`
	Name         string          `gorm:"column:nombre;type:varchar(200);not null" json:"nombre"`
	Distributor  string          `gorm:"column:distribuidor;type:varchar(200)" json:"distribuidor"`
	Brand        string          `gorm:"column:marca;type:varchar(100)" json:"marca"`
	Material     string          `gorm:"column:material;type:varchar(100)" json:"material"`
	FrameType    string          `gorm:"column:tipo_armazon;type:varchar(100)" json:"tipo_armazon"`
	Code         string          `gorm:"column:codigo;type:varchar(50)" json:"codigo"`
	Diameter1    string          `gorm:"column:diametro_1;type:varchar(50)" json:"diametro_1"`
	Diameter2    string          `gorm:"column:diametro_2;type:varchar(50)" json:"diametro_2"`
	Color        string          `gorm:"column:color;type:varchar(100)" json:"color"`
	Quantity     int             `gorm:"column:cantidad;not null;default:0" json:"cantidad"`
	UnitCost     decimal.Decimal `gorm:"column:costo_unitario;type:numeric(12,2);not null;default:0" json:"costo_unitario"`
	TotalCost    decimal.Decimal `gorm:"column:costo_total;type:numeric(12,2);not null;default:0" json:"costo_total"`
	SalePrice1   decimal.Decimal `gorm:"column:costo_venta_1;type:numeric(12,2);not null;default:0" json:"costo_venta_1"`
	SalePrice2   decimal.Decimal `gorm:"column:costo_venta_2;type:numeric(12,2);not null;default:0" json:"costo_venta_2"`
	Description  string          `gorm:"column:descripcion;type:text" json:"descripcion"`
	Active       bool            `gorm:"column:estado;not null;default:true" json:"estado"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "productos"
}

// ProductDraft carries the user-supplied fields of a new product
type ProductDraft struct {
	Name        string
	Distributor string
	Brand       string
	Material    string
	FrameType   string
	Code        string
	Diameter1   string
	Diameter2   string
	Color       string
	Quantity    int
	UnitCost    decimal.Decimal
	Description string
}

// NewProduct validates a draft and derives the cost fields
func NewProduct(d ProductDraft, now time.Time) (*Product, error) {
	name := strings.TrimSpace(d.Name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateStockAndCost(d.Quantity, d.UnitCost); err != nil {
		return nil, err
	}

	p := &Product{
		RegisteredAt: &now,
		Name:         name,
		Distributor:  d.Distributor,
		Brand:        d.Brand,
		Material:     d.Material,
		FrameType:    d.FrameType,
		Code:         strings.TrimSpace(d.Code),
		Diameter1:    d.Diameter1,
		Diameter2:    d.Diameter2,
		Color:        d.Color,
		Quantity:     d.Quantity,
		UnitCost:     d.UnitCost,
		Description:  d.Description,
		Active:       true,
	}
	p.recomputeCosts()
	return p, nil
}

// ComputeCosts derives the tax-inclusive cost and both list prices from a unit cost
func ComputeCosts(unitCost decimal.Decimal) (total, salePrice1, salePrice2 decimal.Decimal) {
	total = unitCost.Mul(taxFactor)
	return total.Round(2), total.Mul(primaryMarkup).Round(2), total.Mul(secondaryMarkup).Round(2)
}

func (p *Product) recomputeCosts() {
	p.UnitCost = p.UnitCost.Round(2)
	p.TotalCost, p.SalePrice1, p.SalePrice2 = ComputeCosts(p.UnitCost)
}

// SalePrice is the unit price charged at the counter: the primary list
// price when set, otherwise the raw unit cost.
func (p *Product) SalePrice() decimal.Decimal {
	if p.SalePrice1.IsPositive() {
		return p.SalePrice1.Round(2)
	}
	return p.UnitCost.Round(2)
}

// HasStock reports whether qty units can be taken from stock
func (p *Product) HasStock(qty int) bool {
	return p.Quantity >= qty
}

// DecreaseStock takes qty units out of stock
func (p *Product) DecreaseStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !p.HasStock(qty) {
		return shared.NewDomainError(shared.ErrInsufficientStock.Code,
			fmt.Sprintf("Insufficient stock for %s: available %d, requested %d", p.Name, p.Quantity, qty))
	}
	p.Quantity -= qty
	return nil
}

// IncreaseStock puts qty units into stock
func (p *Product) IncreaseStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	p.Quantity += qty
	return nil
}

// Restore returns a deactivated product to the active catalog
func (p *Product) Restore() {
	p.Active = true
}

// ProductPatch lists the fields a product update may touch.
// Nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	Distributor *string
	Brand       *string
	Material    *string
	FrameType   *string
	Code        *string
	Diameter1   *string
	Diameter2   *string
	Color       *string
	Quantity    *int
	UnitCost    *decimal.Decimal
	Description *string
	Active      *bool
}

// IsEmpty reports whether the patch changes nothing
func (pp ProductPatch) IsEmpty() bool {
	return pp == ProductPatch{}
}

// Columns lists the productos columns a patch writes. cantidad appears only
// when the patch sets Quantity, so other edits never overwrite stock.
func (pp ProductPatch) Columns() []string {
	var cols []string
	add := func(set bool, names ...string) {
		if set {
			cols = append(cols, names...)
		}
	}
	add(pp.Name != nil, "nombre")
	add(pp.Distributor != nil, "distribuidor")
	add(pp.Brand != nil, "marca")
	add(pp.Material != nil, "material")
	add(pp.FrameType != nil, "tipo_armazon")
	add(pp.Code != nil, "codigo")
	add(pp.Diameter1 != nil, "diametro_1")
	add(pp.Diameter2 != nil, "diametro_2")
	add(pp.Color != nil, "color")
	add(pp.Quantity != nil, "cantidad")
	add(pp.UnitCost != nil, "costo_unitario", "costo_total", "costo_venta_1", "costo_venta_2")
	add(pp.Description != nil, "descripcion")
	add(pp.Active != nil, "estado")
	return cols
}

// ApplyPatch validates and applies a patch; costs follow the unit cost
func (p *Product) ApplyPatch(pp ProductPatch) error {
	name, qty, cost := p.Name, p.Quantity, p.UnitCost
	if pp.Name != nil {
		name = strings.TrimSpace(*pp.Name)
	}
	if pp.Quantity != nil {
		qty = *pp.Quantity
	}
	if pp.UnitCost != nil {
		cost = *pp.UnitCost
	}
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateStockAndCost(qty, cost); err != nil {
		return err
	}

	p.Name, p.Quantity, p.UnitCost = name, qty, cost
	setString(&p.Distributor, pp.Distributor)
	setString(&p.Brand, pp.Brand)
	setString(&p.Material, pp.Material)
	setString(&p.FrameType, pp.FrameType)
	setString(&p.Code, pp.Code)
	setString(&p.Diameter1, pp.Diameter1)
	setString(&p.Diameter2, pp.Diameter2)
	setString(&p.Color, pp.Color)
	setString(&p.Description, pp.Description)
	if pp.Active != nil {
		p.Active = *pp.Active
	}
	p.recomputeCosts()
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateStockAndCost(qty int, unitCost decimal.Decimal) error {
	if qty < 0 || unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity and unit cost must not be negative")
	}
	return nil
}
