package handler

import (
	"github.com/gin-gonic/gin"
	apppartner "github.com/optica/backend/internal/application/partner"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	BaseHandler
	clientService *apppartner.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *apppartner.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List returns a page of clients
// GET /api/v1/clients
func (h *ClientHandler) List(c *gin.Context) {
	var filter apppartner.ClientListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	page, err := h.clientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Get returns one record
// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	client, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Create registers a client
// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req apppartner.CreateClientRequest
	if !h.BindJSON(c, &req) {
		return
	}
	client, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// SupplierHandler handles supplier-related HTTP requests
type SupplierHandler struct {
	BaseHandler
	supplierService *apppartner.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *apppartner.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

type supplierListQuery struct {
	ActiveOnly bool `form:"active_only"`
}

// List returns a page of suppliers
// GET /api/v1/suppliers?active_only=true
func (h *SupplierHandler) List(c *gin.Context) {
	var q supplierListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	suppliers, err := h.supplierService.List(c.Request.Context(), q.ActiveOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// Get returns one record
// GET /api/v1/suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.supplierService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Create registers a supplier
// POST /api/v1/suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req apppartner.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// Update applies a partial update
// PATCH /api/v1/suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req apppartner.UpdateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.Update(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Delete deletes or deactivates a record
// DELETE /api/v1/suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	outcome, err := h.supplierService.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"proveedor_id": id, "resultado": outcome.String()})
}
