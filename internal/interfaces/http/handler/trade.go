package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apptrade "github.com/optica/backend/internal/application/trade"
	"github.com/optica/backend/internal/interfaces/http/dto"
	"github.com/optica/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader lets clients retry POST /sales safely
const (
	IdempotencyKeyHeader = "Idempotency-Key"
	maxIdempotencyKeyLen = 128
)

// SaleHandler handles point-of-sale HTTP requests
type SaleHandler struct {
	BaseHandler
	saleService *apptrade.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *apptrade.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Register commits a cart as a sale. A repeated Idempotency-Key returns the
// first sale with 200 instead of 201.
// POST /api/v1/sales
func (h *SaleHandler) Register(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		h.ErrorWithCode(c, dto.ErrCodeValidation, "Idempotency-Key is too long")
		return
	}

	var req apptrade.RegisterSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	result, err := h.saleService.RegisterFromCartIdempotent(ctx, key, middleware.GetJWTUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	sale, err := h.saleService.GetByID(ctx, result.SaleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Replayed {
		c.Header("Idempotent-Replayed", "true")
		c.JSON(http.StatusOK, dto.NewSuccessResponse(sale))
		return
	}
	h.Created(c, sale)
}

// List returns sales newest first
// GET /api/v1/sales
func (h *SaleHandler) List(c *gin.Context) {
	var q listParams
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.saleService.List(c.Request.Context(), q.filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Get returns one record
// GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	sale, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Receipt returns the printable receipt
// GET /api/v1/sales/:id/receipt
func (h *SaleHandler) Receipt(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.saleService.Receipt(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// PurchaseHandler handles supplier purchase HTTP requests
type PurchaseHandler struct {
	BaseHandler
	purchaseService *apptrade.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *apptrade.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// Create records a supplier purchase and restocks its products
// POST /api/v1/purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req apptrade.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	purchase, err := h.purchaseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, purchase)
}

// GET /api/v1/purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	var q listParams
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.purchaseService.List(c.Request.Context(), q.filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Get returns one record
// GET /api/v1/purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	purchase, err := h.purchaseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}
