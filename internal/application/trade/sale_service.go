package trade

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/optica/backend/internal/domain/partner"
	"github.com/optica/backend/internal/domain/shared"
	"github.com/optica/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrRequestInProgress is returned when a request with the same
// Idempotency-Key is still being processed.
var ErrRequestInProgress = shared.NewDomainError("REQUEST_IN_PROGRESS", "A request with this idempotency key is still being processed")

// Metrics receives business measurements from the trade services
type Metrics interface {
	RecordSale(ctx context.Context, total decimal.Decimal, lines int)
	RecordPurchase(ctx context.Context, total decimal.Decimal, lines int)
	RecordStockRejection(ctx context.Context, productID int64)
}

type noopMetrics struct{}

func (noopMetrics) RecordSale(context.Context, decimal.Decimal, int)     {}
func (noopMetrics) RecordPurchase(context.Context, decimal.Decimal, int) {}
func (noopMetrics) RecordStockRejection(context.Context, int64)          {}

// CurrencyFormatter renders money for printed documents
type CurrencyFormatter interface {
	Format(amount decimal.Decimal) string
}

// SaleService registers point-of-sale transactions
type SaleService struct {
	scope       TransactionScope
	saleRepo    trade.SaleRepository
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	formatter   CurrencyFormatter
	metrics     Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewSaleService creates a new SaleService
func NewSaleService(
	scope TransactionScope,
	saleRepo trade.SaleRepository,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		scope:      scope,
		saleRepo:   saleRepo,
		idemConfig: shared.DefaultIdempotencyConfig(),
		metrics:    noopMetrics{},
		logger:     logger,
		now:        time.Now,
	}
}

// SetIdempotencyStore enables Idempotency-Key handling
func (s *SaleService) SetIdempotencyStore(store shared.IdempotencyStore, config shared.IdempotencyConfig) {
	s.idempotency = store
	s.idemConfig = config
}

// SetMetrics sets the business metrics sink
func (s *SaleService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// SetCurrencyFormatter sets the formatter used for receipts
func (s *SaleService) SetCurrencyFormatter(f CurrencyFormatter) {
	s.formatter = f
}

// pricedItem is a cart entry that survived filtering, with normalized money fields
type pricedItem struct {
	CartItem
	taxRate  decimal.Decimal
	discount decimal.Decimal
}

// sellableItems drops entries with a non-positive quantity and rounds
// rate and discount the same way stored lines are rounded.
func sellableItems(items []CartItem) ([]pricedItem, error) {
	out := make([]pricedItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if item.ProductID <= 0 {
			return nil, shared.NewDomainError(shared.ErrValidation.Code, "Cart item is missing a product reference")
		}
		rate := trade.Round2(item.TaxRate)
		discount := trade.Round2(item.Discount)
		if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, shared.NewDomainError(shared.ErrValidation.Code, fmt.Sprintf("Invalid tax rate %s for product %d", item.TaxRate, item.ProductID))
		}
		if discount.IsNegative() {
			return nil, shared.NewDomainError(shared.ErrValidation.Code, fmt.Sprintf("Discount cannot be negative for product %d", item.ProductID))
		}
		out = append(out, pricedItem{CartItem: item, taxRate: rate, discount: discount})
	}
	if len(out) == 0 {
		return nil, shared.NewDomainError(shared.ErrValidation.Code, "Cart has no items with a positive quantity")
	}
	return out, nil
}

// RegisterFromCart turns a cart into a committed sale.
//
// All product rows are locked before any line is written and stay locked
// until commit. Any failure rolls back the header, the lines and every stock
// decrement together.
func (s *SaleService) RegisterFromCart(ctx context.Context, userID int64, req RegisterSaleRequest) (int64, error) {
	items, err := sellableItems(req.Items)
	if err != nil {
		return 0, err
	}
	if req.Discount.IsNegative() || req.PartialPayment.IsNegative() {
		return 0, shared.NewDomainError(shared.ErrValidation.Code, "Discount and partial payment cannot be negative")
	}

	productIDs := make([]int64, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	var (
		sale          *trade.Sale
		createdClient *int64
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// buyer upsert precedes the product locks in every sale
		clientID, created, err := s.resolveClient(ctx, repos.ClientRepo(), req.Client)
		if err != nil {
			return err
		}
		if created {
			createdClient = clientID
		}

		locked, err := lockProducts(ctx, repos.ProductRepo(), productIDs)
		if err != nil {
			return err
		}

		sale = trade.NewSale(trade.SaleHeader{
			ClientID:      clientID,
			UserID:        userID,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
			Discount:      req.Discount,
			InvoiceNumber: req.InvoiceNumber,
			City:          req.City,
		}, s.now())
		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}

		amounts := make([]trade.LineAmounts, 0, len(items))
		for _, item := range items {
			product := locked[item.ProductID]
			if !product.HasStock(item.Quantity) {
				s.metrics.RecordStockRejection(ctx, product.ID)
				return product.DecreaseStock(item.Quantity)
			}

			price := product.SalePrice()
			line := trade.ComputeLine(trade.LineInput{
				Quantity:  item.Quantity,
				UnitPrice: price,
				TaxRate:   item.taxRate,
				Discount:  item.discount,
			})
			detail := trade.NewSaleLine(sale.ID, product, item.Quantity, price, line, item.PrimaryCode, item.AuxiliaryCode)
			if err := repos.SaleRepo().CreateLine(ctx, detail); err != nil {
				return err
			}

			if err := product.DecreaseStock(item.Quantity); err != nil {
				return err
			}
			if err := repos.ProductRepo().UpdateQuantity(ctx, product.ID, product.Quantity); err != nil {
				return err
			}
			amounts = append(amounts, line)
		}

		sale.ApplyTotals(trade.Aggregate(amounts, req.Discount, req.PartialPayment))
		return repos.SaleRepo().UpdateTotals(ctx, sale)
	})
	if err != nil {
		s.logger.Warn("Sale registration rolled back",
			zap.Int64("user_id", userID),
			zap.Int("items", len(items)),
			zap.Error(err))
		return 0, err
	}

	if createdClient != nil {
		s.logger.Info("Client created at checkout", zap.Int64("client_id", *createdClient))
	}
	s.metrics.RecordSale(ctx, sale.Total, len(items))
	s.logger.Info("Sale registered",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("user_id", userID),
		zap.String("total", sale.Total.StringFixed(2)))
	return sale.ID, nil
}

// RegisterFromCartIdempotent wraps RegisterFromCart with Idempotency-Key
// semantics: a completed key replays the stored sale ID, a key still held by
// a running request is rejected, and a failed attempt frees the key.
func (s *SaleService) RegisterFromCartIdempotent(ctx context.Context, key string, userID int64, req RegisterSaleRequest) (RegisterSaleResult, error) {
	if key == "" || s.idempotency == nil {
		id, err := s.RegisterFromCart(ctx, userID, req)
		return RegisterSaleResult{SaleID: id}, err
	}

	scoped := fmt.Sprintf("sale:%d:%s", userID, key)
	reserved, err := s.idempotency.Reserve(ctx, scoped, s.idemConfig.ReservationTTL)
	if err != nil {
		s.logger.Warn("Idempotency store unavailable, processing without replay protection",
			zap.String("key", key), zap.Error(err))
		id, err := s.RegisterFromCart(ctx, userID, req)
		return RegisterSaleResult{SaleID: id}, err
	}

	if !reserved {
		value, found, completed, err := s.idempotency.Lookup(ctx, scoped)
		if err != nil {
			return RegisterSaleResult{}, err
		}
		if !found || !completed {
			return RegisterSaleResult{}, ErrRequestInProgress
		}
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return RegisterSaleResult{}, fmt.Errorf("corrupt idempotency record for key %q: %w", key, err)
		}
		return RegisterSaleResult{SaleID: id, Replayed: true}, nil
	}

	id, err := s.RegisterFromCart(ctx, userID, req)
	if err != nil {
		if relErr := s.idempotency.Release(context.WithoutCancel(ctx), scoped); relErr != nil {
			s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
		}
		return RegisterSaleResult{}, err
	}
	if err := s.idempotency.Complete(context.WithoutCancel(ctx), scoped, strconv.FormatInt(id, 10), s.idemConfig.TTL); err != nil {
		s.logger.Warn("Failed to store idempotency result", zap.String("key", key), zap.Error(err))
	}
	return RegisterSaleResult{SaleID: id}, nil
}

// resolveClient upserts the buyer by RUT. No RUT means an anonymous sale.
func (s *SaleService) resolveClient(ctx context.Context, repo partner.ClientRepository, in *SaleClientInput) (*int64, bool, error) {
	if in == nil || partner.NormalizeRUT(in.RUT) == "" {
		return nil, false, nil
	}
	candidate, err := partner.NewClient(partner.ClientData{
		RUT:        in.RUT,
		FirstNames: in.FirstNames,
		LastName1:  in.LastName1,
		LastName2:  in.LastName2,
		Phone:      in.Phone,
		Email:      in.Email,
		Address:    in.Address,
	}, s.now())
	if err != nil {
		return nil, false, err
	}
	client, created, err := repo.GetOrCreateByRUT(ctx, candidate)
	if err != nil {
		return nil, false, err
	}
	return &client.ID, created, nil
}

// GetByID retrieves a sale with its lines
func (s *SaleService) GetByID(ctx context.Context, id int64) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// List retrieves sales newest first
func (s *SaleService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[SaleResponse], error) {
	filter = filter.Normalize()
	sales, total, err := s.saleRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[SaleResponse]{}, err
	}
	items := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, ToSaleResponse(&sales[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Receipt returns a sale with its amounts rendered for printing
func (s *SaleService) Receipt(ctx context.Context, id int64) (*ReceiptResponse, error) {
	sale, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	format := func(d decimal.Decimal) string { return d.StringFixed(2) }
	if s.formatter != nil {
		format = s.formatter.Format
	}
	return &ReceiptResponse{
		Sale: *sale,
		Formatted: map[string]string{
			"subtotal_general":   format(sale.SubtotalGeneral),
			"subtotal_tarifa_15": format(sale.Subtotal15),
			"subtotal_tarifa_5":  format(sale.Subtotal5),
			"subtotal_tarifa_0":  format(sale.Subtotal0),
			"descuento_total":    format(sale.DiscountTotal),
			"iva_15":             format(sale.Tax15),
			"iva_5":              format(sale.Tax5),
			"total":              format(sale.Total),
			"abono":              format(sale.PartialPayment),
			"saldo":              format(sale.BalanceDue),
		},
	}, nil
}
