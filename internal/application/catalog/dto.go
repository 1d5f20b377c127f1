package catalog

import (
	"github.com/optica/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string          `json:"nombre" binding:"required,min=1,max=200"`
	Distributor string          `json:"distribuidor" binding:"max=200"`
	Brand       string          `json:"marca" binding:"max=100"`
	Material    string          `json:"material" binding:"max=100"`
	FrameType   string          `json:"tipo_armazon" binding:"max=100"`
	Code        string          `json:"codigo" binding:"max=50"`
	Diameter1   string          `json:"diametro_1" binding:"max=50"`
	Diameter2   string          `json:"diametro_2" binding:"max=50"`
	Color       string          `json:"color" binding:"max=100"`
	Quantity    int             `json:"cantidad" binding:"gte=0"`
	UnitCost    decimal.Decimal `json:"costo_unitario" binding:"gte=0"`
	Description string          `json:"descripcion"`
}

// UpdateProductRequest represents a partial product update.
// Only the fields listed here may be changed.
type UpdateProductRequest struct {
	Name        *string          `json:"nombre" binding:"omitempty,min=1,max=200"`
	Distributor *string          `json:"distribuidor" binding:"omitempty,max=200"`
	Brand       *string          `json:"marca" binding:"omitempty,max=100"`
	Material    *string          `json:"material" binding:"omitempty,max=100"`
	FrameType   *string          `json:"tipo_armazon" binding:"omitempty,max=100"`
	Code        *string          `json:"codigo" binding:"omitempty,max=50"`
	Diameter1   *string          `json:"diametro_1" binding:"omitempty,max=50"`
	Diameter2   *string          `json:"diametro_2" binding:"omitempty,max=50"`
	Color       *string          `json:"color" binding:"omitempty,max=100"`
	Quantity    *int             `json:"cantidad" binding:"omitempty,gte=0"`
	UnitCost    *decimal.Decimal `json:"costo_unitario"`
	Description *string          `json:"descripcion"`
	Active      *bool            `json:"estado"`
}

// ToPatch converts the request into the domain allow-list
func (r UpdateProductRequest) ToPatch() catalog.ProductPatch {
	return catalog.ProductPatch{
		Name:        r.Name,
		Distributor: r.Distributor,
		Brand:       r.Brand,
		Material:    r.Material,
		FrameType:   r.FrameType,
		Code:        r.Code,
		Diameter1:   r.Diameter1,
		Diameter2:   r.Diameter2,
		Color:       r.Color,
		Quantity:    r.Quantity,
		UnitCost:    r.UnitCost,
		Description: r.Description,
		Active:      r.Active,
	}
}

// ProductListFilter narrows a product listing
type ProductListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=active deleted all"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Sort     string `form:"sort" binding:"omitempty,max=30"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// DeleteProductResponse reports what a delete did
type DeleteProductResponse struct {
	ProductID int64  `json:"producto_id"`
	Outcome   string `json:"resultado"`
}
