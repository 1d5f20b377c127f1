package trade

import (
	"time"

	"github.com/optica/backend/internal/domain/catalog"
	"github.com/optica/backend/internal/domain/identity"
	"github.com/optica/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// SaleStatusCompleted is the only status a counter sale is ever written with
const SaleStatusCompleted = "completada"

// Sale is the header of a point-of-sale transaction
type Sale struct {
	ID              int64           `gorm:"column:venta_id;primaryKey;autoIncrement"`
	ClientID        *int64          `gorm:"column:cliente_id"`
	UserID          *int64          `gorm:"column:usuario_id"`
	SoldAt          *time.Time      `gorm:"column:fecha_venta"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	Discount        decimal.Decimal `gorm:"column:descuento;type:numeric(12,2);not null;default:0"`
	PaymentMethod   string          `gorm:"column:metodo_pago;type:varchar(50)"`
	Notes           string          `gorm:"column:observaciones;type:text"`
	Status          string          `gorm:"column:estado;type:varchar(20)"`
	InvoiceNumber   string          `gorm:"column:numero_factura;type:varchar(50)"`
	City            string          `gorm:"column:ciudad;type:varchar(100)"`
	SubtotalGeneral decimal.Decimal `gorm:"column:subtotal_general;type:numeric(12,2);not null;default:0"`
	Subtotal15      decimal.Decimal `gorm:"column:subtotal_tarifa_15;type:numeric(12,2);not null;default:0"`
	Subtotal5       decimal.Decimal `gorm:"column:subtotal_tarifa_5;type:numeric(12,2);not null;default:0"`
	Subtotal0       decimal.Decimal `gorm:"column:subtotal_tarifa_0;type:numeric(12,2);not null;default:0"`
	DiscountTotal   decimal.Decimal `gorm:"column:descuento_total;type:numeric(12,2);not null;default:0"`
	Tax15           decimal.Decimal `gorm:"column:iva_15;type:numeric(12,2);not null;default:0"`
	Tax5            decimal.Decimal `gorm:"column:iva_5;type:numeric(12,2);not null;default:0"`
	PartialPayment  decimal.Decimal `gorm:"column:abono;type:numeric(12,2);not null;default:0"`
	BalanceDue      decimal.Decimal `gorm:"column:saldo;type:numeric(12,2);not null;default:0"`

	Client *partner.Client `gorm:"foreignKey:ClientID;references:ID"`
	Seller *identity.User  `gorm:"foreignKey:UserID;references:ID"`
	Lines  []SaleLine      `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "ventas"
}

// SaleHeader carries the caller-supplied header fields of a sale
type SaleHeader struct {
	ClientID      *int64
	UserID        int64
	PaymentMethod string
	Notes         string
	Discount      decimal.Decimal
	InvoiceNumber string
	City          string
}

// NewSale creates a completed sale header with zeroed totals.
// Totals are filled in by ApplyTotals once every line is stored.
func NewSale(h SaleHeader, now time.Time) *Sale {
	var userID *int64
	if h.UserID > 0 {
		id := h.UserID
		userID = &id
	}
	return &Sale{
		ClientID:      h.ClientID,
		UserID:        userID,
		SoldAt:        &now,
		Total:         decimal.Zero,
		Discount:      Round2(h.Discount),
		PaymentMethod: h.PaymentMethod,
		Notes:         h.Notes,
		Status:        SaleStatusCompleted,
		InvoiceNumber: h.InvoiceNumber,
		City:          h.City,
	}
}

// ApplyTotals copies the aggregated totals onto the header
func (s *Sale) ApplyTotals(t Totals) {
	s.SubtotalGeneral = t.SubtotalGeneral
	s.Subtotal15 = t.Subtotal15
	s.Subtotal5 = t.Subtotal5
	s.Subtotal0 = t.Subtotal0
	s.DiscountTotal = t.DiscountTotal
	s.Tax15 = t.Tax15
	s.Tax5 = t.Tax5
	s.Total = t.GrandTotal
	s.PartialPayment = t.PartialPayment
	s.BalanceDue = t.BalanceDue
}

// SaleLine is one product sold within a sale
type SaleLine struct {
	ID            int64           `gorm:"column:detalle_id;primaryKey;autoIncrement"`
	SaleID        int64           `gorm:"column:venta_id;not null;index"`
	ProductID     int64           `gorm:"column:producto_id;not null;index"`
	Quantity      int             `gorm:"column:cantidad;not null"`
	UnitPrice     decimal.Decimal `gorm:"column:precio_unitario;type:numeric(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	TaxRate       decimal.Decimal `gorm:"column:tarifa_iva;type:numeric(5,4);not null;default:0"`
	Discount      decimal.Decimal `gorm:"column:descuento;type:numeric(12,2);not null;default:0"`
	LineTotal     decimal.Decimal `gorm:"column:valor_total;type:numeric(12,2);not null;default:0"`
	PrimaryCode   string          `gorm:"column:codigo_principal;type:varchar(100)"`
	AuxiliaryCode string          `gorm:"column:codigo_auxiliar;type:varchar(100)"`

	Product *catalog.Product `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "detalle_ventas"
}

// NewSaleLine builds the stored form of a priced line
func NewSaleLine(saleID int64, product *catalog.Product, qty int, unitPrice decimal.Decimal, amounts LineAmounts, primaryCode, auxiliaryCode string) *SaleLine {
	if primaryCode == "" {
		primaryCode = product.Code
	}
	return &SaleLine{
		SaleID:        saleID,
		ProductID:     product.ID,
		Quantity:      qty,
		UnitPrice:     unitPrice,
		Subtotal:      amounts.Base,
		TaxRate:       amounts.TaxRate,
		Discount:      amounts.Discount,
		LineTotal:     amounts.Total,
		PrimaryCode:   primaryCode,
		AuxiliaryCode: auxiliaryCode,
	}
}

// Amounts rebuilds the computed money fields of a stored line
func (l *SaleLine) Amounts() LineAmounts {
	return ComputeLine(LineInput{
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		TaxRate:   l.TaxRate,
		Discount:  l.Discount,
	})
}
