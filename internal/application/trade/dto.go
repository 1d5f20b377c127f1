package trade

import (
	"time"

	"github.com/optica/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// ==================== Sale DTOs ====================

// CartItem is one entry of a point-of-sale cart
type CartItem struct {
	ProductID     int64           `json:"producto_id" binding:"required,gt=0"`
	Quantity      int             `json:"cantidad"`
	TaxRate       decimal.Decimal `json:"tarifa_iva" binding:"gte=0,lt=1"`
	Discount      decimal.Decimal `json:"descuento" binding:"gte=0"`
	PrimaryCode   string          `json:"codigo_principal" binding:"max=100"`
	AuxiliaryCode string          `json:"codigo_auxiliar" binding:"max=100"`
}

// SaleClientInput identifies the buyer; an empty RUT means an anonymous sale
type SaleClientInput struct {
	RUT        string `json:"rut" binding:"max=20"`
	FirstNames string `json:"nombres" binding:"max=100"`
	LastName1  string `json:"ap_pat" binding:"max=100"`
	LastName2  string `json:"ap_mat" binding:"max=100"`
	Phone      string `json:"telefono" binding:"max=20"`
	Email      string `json:"email" binding:"omitempty,email"`
	Address    string `json:"direccion"`
}

// RegisterSaleRequest represents a request to register a sale from a cart
type RegisterSaleRequest struct {
	Items          []CartItem       `json:"items" binding:"required,min=1,dive"`
	Client         *SaleClientInput `json:"cliente"`
	PaymentMethod  string           `json:"metodo_pago" binding:"max=50"`
	Notes          string           `json:"observaciones"`
	Discount       decimal.Decimal  `json:"descuento" binding:"gte=0"`
	InvoiceNumber  string           `json:"numero_factura" binding:"max=50"`
	City           string           `json:"ciudad" binding:"max=100"`
	PartialPayment decimal.Decimal  `json:"abono" binding:"gte=0"`
}

// RegisterSaleResult is returned after a sale is committed or replayed
type RegisterSaleResult struct {
	SaleID   int64 `json:"venta_id"`
	Replayed bool  `json:"replayed"`
}

// SaleLineResponse represents a sale line in API responses
type SaleLineResponse struct {
	ID            int64           `json:"detalle_id"`
	ProductID     int64           `json:"producto_id"`
	ProductName   string          `json:"producto_nombre,omitempty"`
	Quantity      int             `json:"cantidad"`
	UnitPrice     decimal.Decimal `json:"precio_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tarifa_iva"`
	Discount      decimal.Decimal `json:"descuento"`
	LineTotal     decimal.Decimal `json:"valor_total"`
	PrimaryCode   string          `json:"codigo_principal"`
	AuxiliaryCode string          `json:"codigo_auxiliar"`
}

// PartyResponse is the compact form of a client or user attached to a document
type PartyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
	RUT  string `json:"rut,omitempty"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID              int64              `json:"venta_id"`
	ClientID        *int64             `json:"cliente_id"`
	UserID          *int64             `json:"usuario_id"`
	Client          *PartyResponse     `json:"cliente,omitempty"`
	Seller          *PartyResponse     `json:"usuario,omitempty"`
	SoldAt          *time.Time         `json:"fecha_venta"`
	PaymentMethod   string             `json:"metodo_pago"`
	Notes           string             `json:"observaciones"`
	Status          string             `json:"estado"`
	InvoiceNumber   string             `json:"numero_factura"`
	City            string             `json:"ciudad"`
	Discount        decimal.Decimal    `json:"descuento"`
	SubtotalGeneral decimal.Decimal    `json:"subtotal_general"`
	Subtotal15      decimal.Decimal    `json:"subtotal_tarifa_15"`
	Subtotal5       decimal.Decimal    `json:"subtotal_tarifa_5"`
	Subtotal0       decimal.Decimal    `json:"subtotal_tarifa_0"`
	DiscountTotal   decimal.Decimal    `json:"descuento_total"`
	Tax15           decimal.Decimal    `json:"iva_15"`
	Tax5            decimal.Decimal    `json:"iva_5"`
	Total           decimal.Decimal    `json:"total"`
	PartialPayment  decimal.Decimal    `json:"abono"`
	BalanceDue      decimal.Decimal    `json:"saldo"`
	Lines           []SaleLineResponse `json:"detalles"`
}

// ReceiptResponse is a sale plus display strings for the printed receipt
type ReceiptResponse struct {
	Sale      SaleResponse      `json:"venta"`
	Formatted map[string]string `json:"formateado"`
}

// ToSaleResponse converts a domain sale to a response DTO
func ToSaleResponse(s *trade.Sale) SaleResponse {
	resp := SaleResponse{
		ID:              s.ID,
		ClientID:        s.ClientID,
		UserID:          s.UserID,
		SoldAt:          s.SoldAt,
		PaymentMethod:   s.PaymentMethod,
		Notes:           s.Notes,
		Status:          s.Status,
		InvoiceNumber:   s.InvoiceNumber,
		City:            s.City,
		Discount:        s.Discount,
		SubtotalGeneral: s.SubtotalGeneral,
		Subtotal15:      s.Subtotal15,
		Subtotal5:       s.Subtotal5,
		Subtotal0:       s.Subtotal0,
		DiscountTotal:   s.DiscountTotal,
		Tax15:           s.Tax15,
		Tax5:            s.Tax5,
		Total:           s.Total,
		PartialPayment:  s.PartialPayment,
		BalanceDue:      s.BalanceDue,
		Lines:           make([]SaleLineResponse, 0, len(s.Lines)),
	}
	if s.Client != nil {
		resp.Client = &PartyResponse{ID: s.Client.ID, Name: s.Client.FullName(), RUT: s.Client.RUT}
	}
	if s.Seller != nil {
		resp.Seller = &PartyResponse{ID: s.Seller.ID, Name: s.Seller.FullName()}
	}
	for _, l := range s.Lines {
		line := SaleLineResponse{
			ID:            l.ID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			Subtotal:      l.Subtotal,
			TaxRate:       l.TaxRate,
			Discount:      l.Discount,
			LineTotal:     l.LineTotal,
			PrimaryCode:   l.PrimaryCode,
			AuxiliaryCode: l.AuxiliaryCode,
		}
		if l.Product != nil {
			line.ProductName = l.Product.Name
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp
}

// ==================== Purchase DTOs ====================

// PurchaseItemInput is one received product
type PurchaseItemInput struct {
	ProductID   int64           `json:"producto_id" binding:"required,gt=0"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario" binding:"gte=0"`
	TaxRate     decimal.Decimal `json:"tarifa_iva" binding:"gte=0,lt=1"`
	Discount    decimal.Decimal `json:"descuento" binding:"gte=0"`
	Brand       string          `json:"marca" binding:"max=100"`
	Code        string          `json:"codigo" binding:"max=100"`
	Description string          `json:"descripcion"`
}

// CreatePurchaseRequest represents a request to book a supplier purchase
type CreatePurchaseRequest struct {
	SupplierID     int64               `json:"proveedor_id" binding:"required,gt=0"`
	Items          []PurchaseItemInput `json:"items" binding:"required,min=1,dive"`
	InvoiceNumber  string              `json:"numero_factura" binding:"max=50"`
	TaxID          string              `json:"ruc_ci" binding:"max=20"`
	OrderDate      *time.Time          `json:"fecha_pedido"`
	PaymentDate    *time.Time          `json:"fecha_pago"`
	PaymentForm    string              `json:"forma_pago" binding:"max=50"`
	PaymentTerm    string              `json:"plazo_pago" binding:"max=50"`
	Notes          string              `json:"notas"`
	PartialPayment decimal.Decimal     `json:"abono" binding:"gte=0"`
	PreparedByCode string              `json:"elaborado_codigo" binding:"max=50"`
	PreparedByName string              `json:"elaborado_nombre" binding:"max=150"`
	ApprovedByCode string              `json:"autorizado_codigo" binding:"max=50"`
	ApprovedByName string              `json:"autorizado_nombre" binding:"max=150"`
	ReceivedByCode string              `json:"recibido_codigo" binding:"max=50"`
	ReceivedByName string              `json:"recibido_nombre" binding:"max=150"`
	Status         string              `json:"estado" binding:"max=20"`
}

// PurchaseLineResponse represents a purchase line in API responses
type PurchaseLineResponse struct {
	ID          int64           `json:"detalle_id"`
	ProductID   int64           `json:"producto_id"`
	ProductName string          `json:"producto_nombre,omitempty"`
	Brand       string          `json:"marca"`
	Code        string          `json:"codigo"`
	Description string          `json:"descripcion"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	TaxRate     decimal.Decimal `json:"tarifa_iva"`
	Discount    decimal.Decimal `json:"descuento"`
	LineTotal   decimal.Decimal `json:"valor_total"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID              int64                  `json:"compra_id"`
	SupplierID      int64                  `json:"proveedor_id"`
	SupplierName    string                 `json:"proveedor_nombre,omitempty"`
	InvoiceNumber   string                 `json:"numero_factura"`
	TaxID           string                 `json:"ruc_ci"`
	OrderDate       *time.Time             `json:"fecha_pedido"`
	PaymentDate     *time.Time             `json:"fecha_pago"`
	PaymentForm     string                 `json:"forma_pago"`
	PaymentTerm     string                 `json:"plazo_pago"`
	Notes           string                 `json:"notas"`
	SubtotalGeneral decimal.Decimal        `json:"subtotal_general"`
	Subtotal15      decimal.Decimal        `json:"subtotal_tarifa_15"`
	Subtotal5       decimal.Decimal        `json:"subtotal_tarifa_5"`
	Subtotal0       decimal.Decimal        `json:"subtotal_tarifa_0"`
	DiscountTotal   decimal.Decimal        `json:"descuento_total"`
	Tax15           decimal.Decimal        `json:"iva_15"`
	Tax5            decimal.Decimal        `json:"iva_5"`
	TotalDue        decimal.Decimal        `json:"total_pagar"`
	PartialPayment  decimal.Decimal        `json:"abono"`
	BalanceDue      decimal.Decimal        `json:"saldo"`
	PreparedByCode  string                 `json:"elaborado_codigo"`
	PreparedByName  string                 `json:"elaborado_nombre"`
	ApprovedByCode  string                 `json:"autorizado_codigo"`
	ApprovedByName  string                 `json:"autorizado_nombre"`
	ReceivedByCode  string                 `json:"recibido_codigo"`
	ReceivedByName  string                 `json:"recibido_nombre"`
	Status          string                 `json:"estado"`
	CreatedAt       *time.Time             `json:"created_at"`
	Lines           []PurchaseLineResponse `json:"detalles"`
}

// ToPurchaseResponse converts a domain purchase to a response DTO
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:              p.ID,
		SupplierID:      p.SupplierID,
		InvoiceNumber:   p.InvoiceNumber,
		TaxID:           p.TaxID,
		OrderDate:       p.OrderDate,
		PaymentDate:     p.PaymentDate,
		PaymentForm:     p.PaymentForm,
		PaymentTerm:     p.PaymentTerm,
		Notes:           p.Notes,
		SubtotalGeneral: p.SubtotalGeneral,
		Subtotal15:      p.Subtotal15,
		Subtotal5:       p.Subtotal5,
		Subtotal0:       p.Subtotal0,
		DiscountTotal:   p.DiscountTotal,
		Tax15:           p.Tax15,
		Tax5:            p.Tax5,
		TotalDue:        p.TotalDue,
		PartialPayment:  p.PartialPayment,
		BalanceDue:      p.BalanceDue,
		PreparedByCode:  p.PreparedByCode,
		PreparedByName:  p.PreparedByName,
		ApprovedByCode:  p.ApprovedByCode,
		ApprovedByName:  p.ApprovedByName,
		ReceivedByCode:  p.ReceivedByCode,
		ReceivedByName:  p.ReceivedByName,
		Status:          p.Status,
		CreatedAt:       p.CreatedAt,
		Lines:           make([]PurchaseLineResponse, 0, len(p.Lines)),
	}
	if p.Supplier != nil {
		resp.SupplierName = p.Supplier.LegalName
	}
	for _, l := range p.Lines {
		line := PurchaseLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Brand:       l.Brand,
			Code:        l.Code,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			Discount:    l.Discount,
			LineTotal:   l.LineTotal,
		}
		if l.Product != nil {
			line.ProductName = l.Product.Name
		}
		resp.Lines = append(resp.Lines, line)
	}
	return resp
}
