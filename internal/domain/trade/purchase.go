package trade

import (
	"time"

	"github.com/optica/backend/internal/domain/catalog"
	"github.com/optica/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// PurchaseStatusDraft is the default status of a new purchase
const PurchaseStatusDraft = "borrador"

// Purchase is the header of a supplier invoice that replenishes stock
type Purchase struct {
	ID              int64           `gorm:"column:compra_id;primaryKey;autoIncrement"`
	SupplierID      int64           `gorm:"column:proveedor_id;not null;index"`
	InvoiceNumber   string          `gorm:"column:numero_factura;type:varchar(50)"`
	TaxID           string          `gorm:"column:ruc_ci;type:varchar(20)"`
	OrderDate       *time.Time      `gorm:"column:fecha_pedido;type:date"`
	PaymentDate     *time.Time      `gorm:"column:fecha_pago;type:date"`
	PaymentForm     string          `gorm:"column:forma_pago;type:varchar(50)"`
	PaymentTerm     string          `gorm:"column:plazo_pago;type:varchar(50)"`
	Notes           string          `gorm:"column:notas;type:text"`
	SubtotalGeneral decimal.Decimal `gorm:"column:subtotal_general;type:numeric(12,2);not null;default:0"`
	Subtotal15      decimal.Decimal `gorm:"column:subtotal_tarifa_15;type:numeric(12,2);not null;default:0"`
	Subtotal5       decimal.Decimal `gorm:"column:subtotal_tarifa_5;type:numeric(12,2);not null;default:0"`
	Subtotal0       decimal.Decimal `gorm:"column:subtotal_tarifa_0;type:numeric(12,2);not null;default:0"`
	DiscountTotal   decimal.Decimal `gorm:"column:descuento_total;type:numeric(12,2);not null;default:0"`
	Tax15           decimal.Decimal `gorm:"column:iva_15;type:numeric(12,2);not null;default:0"`
	Tax5            decimal.Decimal `gorm:"column:iva_5;type:numeric(12,2);not null;default:0"`
	TotalDue        decimal.Decimal `gorm:"column:total_pagar;type:numeric(12,2);not null;default:0"`
	PartialPayment  decimal.Decimal `gorm:"column:abono;type:numeric(12,2);not null;default:0"`
	BalanceDue      decimal.Decimal `gorm:"column:saldo;type:numeric(12,2);not null;default:0"`
	PreparedByCode  string          `gorm:"column:elaborado_codigo;type:varchar(50)"`
	PreparedByName  string          `gorm:"column:elaborado_nombre;type:varchar(150)"`
	ApprovedByCode  string          `gorm:"column:autorizado_codigo;type:varchar(50)"`
	ApprovedByName  string          `gorm:"column:autorizado_nombre;type:varchar(150)"`
	ReceivedByCode  string          `gorm:"column:recibido_codigo;type:varchar(50)"`
	ReceivedByName  string          `gorm:"column:recibido_nombre;type:varchar(150)"`
	Status          string          `gorm:"column:estado;type:varchar(20)"`
	CreatedAt       *time.Time      `gorm:"column:created_at"`
	UpdatedAt       *time.Time      `gorm:"column:updated_at"`

	Supplier *partner.Supplier `gorm:"foreignKey:SupplierID;references:ID"`
	Lines    []PurchaseLine    `gorm:"foreignKey:PurchaseID;references:ID"`
}

// TableName returns the table name for GORM
func (Purchase) TableName() string {
	return "compras"
}

// PurchaseHeader carries the caller-supplied header fields of a purchase
type PurchaseHeader struct {
	SupplierID     int64
	InvoiceNumber  string
	TaxID          string
	OrderDate      *time.Time
	PaymentDate    *time.Time
	PaymentForm    string
	PaymentTerm    string
	Notes          string
	PartialPayment decimal.Decimal
	PreparedByCode string
	PreparedByName string
	ApprovedByCode string
	ApprovedByName string
	ReceivedByCode string
	ReceivedByName string
	Status         string
}

// NewPurchase creates a purchase header with zeroed totals
func NewPurchase(h PurchaseHeader, now time.Time) *Purchase {
	status := h.Status
	if status == "" {
		status = PurchaseStatusDraft
	}
	return &Purchase{
		SupplierID:     h.SupplierID,
		InvoiceNumber:  h.InvoiceNumber,
		TaxID:          h.TaxID,
		OrderDate:      h.OrderDate,
		PaymentDate:    h.PaymentDate,
		PaymentForm:    h.PaymentForm,
		PaymentTerm:    h.PaymentTerm,
		Notes:          h.Notes,
		PartialPayment: Round2(h.PartialPayment),
		PreparedByCode: h.PreparedByCode,
		PreparedByName: h.PreparedByName,
		ApprovedByCode: h.ApprovedByCode,
		ApprovedByName: h.ApprovedByName,
		ReceivedByCode: h.ReceivedByCode,
		ReceivedByName: h.ReceivedByName,
		Status:         status,
		CreatedAt:      &now,
		UpdatedAt:      &now,
	}
}

// ApplyTotals copies the aggregated totals onto the header
func (p *Purchase) ApplyTotals(t Totals, now time.Time) {
	p.SubtotalGeneral = t.SubtotalGeneral
	p.Subtotal15 = t.Subtotal15
	p.Subtotal5 = t.Subtotal5
	p.Subtotal0 = t.Subtotal0
	p.DiscountTotal = t.DiscountTotal
	p.Tax15 = t.Tax15
	p.Tax5 = t.Tax5
	p.TotalDue = t.GrandTotal
	p.PartialPayment = t.PartialPayment
	p.BalanceDue = t.BalanceDue
	p.UpdatedAt = &now
}

// PurchaseLine is one product received within a purchase
type PurchaseLine struct {
	ID          int64           `gorm:"column:detalle_id;primaryKey;autoIncrement"`
	PurchaseID  int64           `gorm:"column:compra_id;not null;index"`
	ProductID   int64           `gorm:"column:producto_id;not null;index"`
	Brand       string          `gorm:"column:marca;type:varchar(100)"`
	Code        string          `gorm:"column:codigo;type:varchar(100)"`
	Description string          `gorm:"column:descripcion;type:text"`
	Quantity    int             `gorm:"column:cantidad;not null;default:0"`
	UnitPrice   decimal.Decimal `gorm:"column:precio_unitario;type:numeric(12,2);not null;default:0"`
	TaxRate     decimal.Decimal `gorm:"column:tarifa_iva;type:numeric(5,4);not null;default:0"`
	Discount    decimal.Decimal `gorm:"column:descuento;type:numeric(12,2);not null;default:0"`
	LineTotal   decimal.Decimal `gorm:"column:valor_total;type:numeric(12,2);not null;default:0"`
	CreatedAt   *time.Time      `gorm:"column:created_at"`
	UpdatedAt   *time.Time      `gorm:"column:updated_at"`

	Product *catalog.Product `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseLine) TableName() string {
	return "compras_detalle"
}

// NewPurchaseLine builds the stored form of a received line.
// Brand and code fall back to the product's own values.
func NewPurchaseLine(purchaseID int64, product *catalog.Product, qty int, unitPrice decimal.Decimal, amounts LineAmounts, brand, code, description string, now time.Time) *PurchaseLine {
	if brand == "" {
		brand = product.Brand
	}
	if code == "" {
		code = product.Code
	}
	return &PurchaseLine{
		PurchaseID:  purchaseID,
		ProductID:   product.ID,
		Brand:       brand,
		Code:        code,
		Description: description,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		TaxRate:     amounts.TaxRate,
		Discount:    amounts.Discount,
		LineTotal:   amounts.Total,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
}
