package partner

import (
	"strings"
	"time"

	"github.com/optica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultPaymentTerms is used when a supplier is registered without terms
const DefaultPaymentTerms = "Contado"

// Supplier is a vendor that purchases are booked against
type Supplier struct {
	ID                  int64           `gorm:"column:proveedor_id;primaryKey;autoIncrement" json:"proveedor_id"`
	Code                string          `gorm:"column:codigo_proveedor;type:varchar(20);not null;uniqueIndex" json:"codigo_proveedor"`
	LegalName           string          `gorm:"column:razon_social;type:varchar(255);not null" json:"razon_social"`
	TradeName           string          `gorm:"column:nombre_comercial;type:varchar(255)" json:"nombre_comercial"`
	RUT                 string          `gorm:"column:rut;type:varchar(12);not null;uniqueIndex" json:"rut"`
	Address             string          `gorm:"column:direccion;type:text" json:"direccion"`
	Phone               string          `gorm:"column:telefono;type:varchar(20)" json:"telefono"`
	Email               string          `gorm:"column:email;type:varchar(254)" json:"email"`
	Website             string          `gorm:"column:sitio_web;type:varchar(255)" json:"sitio_web"`
	ProductCategories   string          `gorm:"column:categoria_productos;type:text" json:"categoria_productos"`
	PaymentTerms        string          `gorm:"column:condiciones_pago;type:varchar(50);not null;default:'Contado'" json:"condiciones_pago"`
	PaymentDays         int             `gorm:"column:plazo_pago_dias;not null;default:0" json:"plazo_pago_dias"`
	VolumeDiscount      decimal.Decimal `gorm:"column:descuento_volumen;type:numeric(5,2);not null;default:0" json:"descuento_volumen"`
	RepresentativeName  string          `gorm:"column:representante_nombre;type:varchar(255)" json:"representante_nombre"`
	RepresentativePhone string          `gorm:"column:representante_telefono;type:varchar(20)" json:"representante_telefono"`
	RepresentativeEmail string          `gorm:"column:representante_email;type:varchar(254)" json:"representante_email"`
	Notes               string          `gorm:"column:observaciones;type:text" json:"observaciones"`
	Active              bool            `gorm:"column:estado;not null;default:true" json:"estado"`
	RegisteredAt        *time.Time      `gorm:"column:fecha_registro" json:"fecha_registro,omitempty"`
	UpdatedAt           *time.Time      `gorm:"column:fecha_actualizacion" json:"fecha_actualizacion,omitempty"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "proveedores"
}

// SupplierDraft carries the fields of a new supplier
type SupplierDraft struct {
	Code                string
	LegalName           string
	TradeName           string
	RUT                 string
	Address             string
	Phone               string
	Email               string
	Website             string
	ProductCategories   string
	PaymentTerms        string
	PaymentDays         int
	VolumeDiscount      decimal.Decimal
	RepresentativeName  string
	RepresentativePhone string
	RepresentativeEmail string
	Notes               string
}

// NewSupplier validates a draft and creates an active supplier
func NewSupplier(d SupplierDraft, now time.Time) (*Supplier, error) {
	s := &Supplier{
		Code:                strings.TrimSpace(d.Code),
		LegalName:           strings.TrimSpace(d.LegalName),
		TradeName:           d.TradeName,
		RUT:                 NormalizeRUT(d.RUT),
		Address:             d.Address,
		Phone:               d.Phone,
		Email:               d.Email,
		Website:             d.Website,
		ProductCategories:   d.ProductCategories,
		PaymentTerms:        strings.TrimSpace(d.PaymentTerms),
		PaymentDays:         d.PaymentDays,
		VolumeDiscount:      d.VolumeDiscount,
		RepresentativeName:  d.RepresentativeName,
		RepresentativePhone: d.RepresentativePhone,
		RepresentativeEmail: d.RepresentativeEmail,
		Notes:               d.Notes,
		Active:              true,
		RegisteredAt:        &now,
		UpdatedAt:           &now,
	}
	if s.PaymentTerms == "" {
		s.PaymentTerms = DefaultPaymentTerms
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Supplier) validate() error {
	if s.Code == "" || len(s.Code) > 20 {
		return shared.NewDomainError("INVALID_CODE", "Supplier code is required and cannot exceed 20 characters")
	}
	if s.LegalName == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier legal name is required")
	}
	if s.RUT == "" || len(s.RUT) > 12 {
		return shared.NewDomainError("INVALID_RUT", "Supplier RUT is required and cannot exceed 12 characters")
	}
	if s.PaymentDays < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment days cannot be negative")
	}
	if s.VolumeDiscount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Volume discount cannot be negative")
	}
	return nil
}

// SupplierPatch lists the fields a supplier update may touch
type SupplierPatch struct {
	LegalName           *string
	TradeName           *string
	Address             *string
	Phone               *string
	Email               *string
	Website             *string
	ProductCategories   *string
	PaymentTerms        *string
	PaymentDays         *int
	VolumeDiscount      *decimal.Decimal
	RepresentativeName  *string
	RepresentativePhone *string
	RepresentativeEmail *string
	Notes               *string
	Active              *bool
}

// ApplyPatch validates and applies a patch. Code and RUT are immutable.
func (s *Supplier) ApplyPatch(p SupplierPatch, now time.Time) error {
	next := *s
	assign(&next.LegalName, p.LegalName)
	assign(&next.TradeName, p.TradeName)
	assign(&next.Address, p.Address)
	assign(&next.Phone, p.Phone)
	assign(&next.Email, p.Email)
	assign(&next.Website, p.Website)
	assign(&next.ProductCategories, p.ProductCategories)
	assign(&next.PaymentTerms, p.PaymentTerms)
	assign(&next.PaymentDays, p.PaymentDays)
	assign(&next.VolumeDiscount, p.VolumeDiscount)
	assign(&next.RepresentativeName, p.RepresentativeName)
	assign(&next.RepresentativePhone, p.RepresentativePhone)
	assign(&next.RepresentativeEmail, p.RepresentativeEmail)
	assign(&next.Notes, p.Notes)
	assign(&next.Active, p.Active)
	next.LegalName = strings.TrimSpace(next.LegalName)
	if err := next.validate(); err != nil {
		return err
	}
	next.UpdatedAt = &now
	*s = next
	return nil
}

// Deactivate marks the supplier inactive
func (s *Supplier) Deactivate(now time.Time) {
	s.Active = false
	s.UpdatedAt = &now
}

func assign[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
