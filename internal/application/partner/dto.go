package partner

import (
	"time"

	"github.com/optica/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateClientRequest represents a request to register a client
type CreateClientRequest struct {
	FirstNames string     `json:"nombres" binding:"required,max=100"`
	LastName1  string     `json:"ap_pat" binding:"required,max=100"`
	LastName2  string     `json:"ap_mat" binding:"max=100"`
	RUT        string     `json:"rut" binding:"required,max=20"`
	Email      string     `json:"email" binding:"omitempty,email,max=254"`
	Phone      string     `json:"telefono" binding:"max=20"`
	Address    string     `json:"direccion"`
	BirthDate  *time.Time `json:"fecha_nacimiento"`
}

func (r CreateClientRequest) toData() partner.ClientData {
	return partner.ClientData{
		FirstNames: r.FirstNames,
		LastName1:  r.LastName1,
		LastName2:  r.LastName2,
		RUT:        r.RUT,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		BirthDate:  r.BirthDate,
	}
}

// ClientListFilter narrows a client listing
type ClientListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateSupplierRequest represents a request to register a supplier
type CreateSupplierRequest struct {
	Code                string          `json:"codigo_proveedor" binding:"required,max=20"`
	LegalName           string          `json:"razon_social" binding:"required,max=255"`
	TradeName           string          `json:"nombre_comercial" binding:"max=255"`
	RUT                 string          `json:"rut" binding:"required,max=12"`
	Address             string          `json:"direccion"`
	Phone               string          `json:"telefono" binding:"max=20"`
	Email               string          `json:"email" binding:"omitempty,email,max=254"`
	Website             string          `json:"sitio_web" binding:"max=255"`
	ProductCategories   string          `json:"categoria_productos"`
	PaymentTerms        string          `json:"condiciones_pago" binding:"max=50"`
	PaymentDays         int             `json:"plazo_pago_dias" binding:"gte=0"`
	VolumeDiscount      decimal.Decimal `json:"descuento_volumen" binding:"gte=0"`
	RepresentativeName  string          `json:"representante_nombre" binding:"max=255"`
	RepresentativePhone string          `json:"representante_telefono" binding:"max=20"`
	RepresentativeEmail string          `json:"representante_email" binding:"omitempty,email,max=254"`
	Notes               string          `json:"observaciones"`
}

func (r CreateSupplierRequest) toDraft() partner.SupplierDraft {
	return partner.SupplierDraft{
		Code:                r.Code,
		LegalName:           r.LegalName,
		TradeName:           r.TradeName,
		RUT:                 r.RUT,
		Address:             r.Address,
		Phone:               r.Phone,
		Email:               r.Email,
		Website:             r.Website,
		ProductCategories:   r.ProductCategories,
		PaymentTerms:        r.PaymentTerms,
		PaymentDays:         r.PaymentDays,
		VolumeDiscount:      r.VolumeDiscount,
		RepresentativeName:  r.RepresentativeName,
		RepresentativePhone: r.RepresentativePhone,
		RepresentativeEmail: r.RepresentativeEmail,
		Notes:               r.Notes,
	}
}

// UpdateSupplierRequest represents a partial supplier update.
// Code and RUT cannot be changed.
type UpdateSupplierRequest struct {
	LegalName           *string          `json:"razon_social" binding:"omitempty,max=255"`
	TradeName           *string          `json:"nombre_comercial" binding:"omitempty,max=255"`
	Address             *string          `json:"direccion"`
	Phone               *string          `json:"telefono" binding:"omitempty,max=20"`
	Email               *string          `json:"email" binding:"omitempty,email,max=254"`
	Website             *string          `json:"sitio_web" binding:"omitempty,max=255"`
	ProductCategories   *string          `json:"categoria_productos"`
	PaymentTerms        *string          `json:"condiciones_pago" binding:"omitempty,max=50"`
	PaymentDays         *int             `json:"plazo_pago_dias" binding:"omitempty,gte=0"`
	VolumeDiscount      *decimal.Decimal `json:"descuento_volumen"`
	RepresentativeName  *string          `json:"representante_nombre" binding:"omitempty,max=255"`
	RepresentativePhone *string          `json:"representante_telefono" binding:"omitempty,max=20"`
	RepresentativeEmail *string          `json:"representante_email" binding:"omitempty,email,max=254"`
	Notes               *string          `json:"observaciones"`
	Active              *bool            `json:"estado"`
}

// ToPatch converts the request into the domain allow-list
func (r UpdateSupplierRequest) ToPatch() partner.SupplierPatch {
	return partner.SupplierPatch{
		LegalName:           r.LegalName,
		TradeName:           r.TradeName,
		Address:             r.Address,
		Phone:               r.Phone,
		Email:               r.Email,
		Website:             r.Website,
		ProductCategories:   r.ProductCategories,
		PaymentTerms:        r.PaymentTerms,
		PaymentDays:         r.PaymentDays,
		VolumeDiscount:      r.VolumeDiscount,
		RepresentativeName:  r.RepresentativeName,
		RepresentativePhone: r.RepresentativePhone,
		RepresentativeEmail: r.RepresentativeEmail,
		Notes:               r.Notes,
		Active:              r.Active,
	}
}
