package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/optica/backend/internal/domain/partner"
	"github.com/optica/backend/internal/domain/shared"
	"github.com/optica/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PurchaseService books supplier purchases and replenishes stock
type PurchaseService struct {
	scope        TransactionScope
	purchaseRepo trade.PurchaseRepository
	supplierRepo partner.SupplierRepository
	metrics      Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	scope TransactionScope,
	purchaseRepo trade.PurchaseRepository,
	supplierRepo partner.SupplierRepository,
	logger *zap.Logger,
) *PurchaseService {
	return &PurchaseService{
		scope:        scope,
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		metrics:      noopMetrics{},
		logger:       logger,
		now:          time.Now,
	}
}

// SetMetrics sets the business metrics sink
func (s *PurchaseService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Create books a purchase. Lines are priced with the same per-line rounding
// as sales; stock for each line is incremented inside the same transaction.
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	items := make([]PurchaseItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			continue
		}
		if item.UnitPrice.IsNegative() || item.Discount.IsNegative() {
			return nil, shared.NewDomainError(shared.ErrValidation.Code, fmt.Sprintf("Price and discount cannot be negative for product %d", item.ProductID))
		}
		if item.TaxRate.IsNegative() || item.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, shared.NewDomainError(shared.ErrValidation.Code, fmt.Sprintf("Invalid tax rate %s for product %d", item.TaxRate, item.ProductID))
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, "Purchase has no items with a positive quantity")
	}
	if req.PartialPayment.IsNegative() {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, "Partial payment cannot be negative")
	}

	supplier, err := s.supplierRepo.FindByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, fmt.Sprintf("Supplier %d not found", req.SupplierID))
		}
		return nil, err
	}

	productIDs := make([]int64, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	var purchase *trade.Purchase
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := lockProducts(ctx, repos.ProductRepo(), productIDs)
		if err != nil {
			return err
		}

		now := s.now()
		purchase = trade.NewPurchase(trade.PurchaseHeader{
			SupplierID:     supplier.ID,
			InvoiceNumber:  req.InvoiceNumber,
			TaxID:          req.TaxID,
			OrderDate:      req.OrderDate,
			PaymentDate:    req.PaymentDate,
			PaymentForm:    req.PaymentForm,
			PaymentTerm:    req.PaymentTerm,
			Notes:          req.Notes,
			PartialPayment: req.PartialPayment,
			PreparedByCode: req.PreparedByCode,
			PreparedByName: req.PreparedByName,
			ApprovedByCode: req.ApprovedByCode,
			ApprovedByName: req.ApprovedByName,
			ReceivedByCode: req.ReceivedByCode,
			ReceivedByName: req.ReceivedByName,
			Status:         req.Status,
		}, now)
		if err := repos.PurchaseRepo().Create(ctx, purchase); err != nil {
			return err
		}

		amounts := make([]trade.LineAmounts, 0, len(items))
		for _, item := range items {
			product := locked[item.ProductID]
			price := trade.Round2(item.UnitPrice)
			line := trade.ComputeLine(trade.LineInput{
				Quantity:  item.Quantity,
				UnitPrice: price,
				TaxRate:   item.TaxRate,
				Discount:  trade.Round2(item.Discount),
			})
			detail := trade.NewPurchaseLine(purchase.ID, product, item.Quantity, price, line, item.Brand, item.Code, item.Description, now)
			if err := repos.PurchaseRepo().CreateLine(ctx, detail); err != nil {
				return err
			}

			if err := product.IncreaseStock(item.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().UpdateQuantity(ctx, product.ID, product.Quantity); err != nil {
				return err
			}
			detail.Product = product
			purchase.Lines = append(purchase.Lines, *detail)
			amounts = append(amounts, line)
		}

		purchase.ApplyTotals(trade.Aggregate(amounts, trade.SumDiscounts(amounts), req.PartialPayment), now)
		return repos.PurchaseRepo().UpdateTotals(ctx, purchase)
	})
	if err != nil {
		s.logger.Warn("Purchase registration rolled back",
			zap.Int64("supplier_id", req.SupplierID),
			zap.Error(err))
		return nil, err
	}

	purchase.Supplier = supplier
	s.metrics.RecordPurchase(ctx, purchase.TotalDue, len(items))
	s.logger.Info("Purchase registered",
		zap.Int64("purchase_id", purchase.ID),
		zap.Int64("supplier_id", supplier.ID),
		zap.String("total", purchase.TotalDue.StringFixed(2)))

	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// GetByID retrieves a purchase with its lines
func (s *PurchaseService) GetByID(ctx context.Context, id int64) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseResponse(purchase)
	return &resp, nil
}

// List retrieves purchases newest first
func (s *PurchaseService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[PurchaseResponse], error) {
	filter = filter.Normalize()
	purchases, total, err := s.purchaseRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[PurchaseResponse]{}, err
	}
	items := make([]PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		items = append(items, ToPurchaseResponse(&purchases[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}
