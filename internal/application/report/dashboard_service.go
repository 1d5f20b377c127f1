package report

import (
	"context"
	"time"

	"github.com/optica/backend/internal/domain/catalog"
	"github.com/optica/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Dashboard defaults
const (
	DefaultLowStockThreshold = 10
	RecentSalesLimit         = 5
)

// LowStockItem is a product running out of stock
type LowStockItem struct {
	ProductID int64  `json:"producto_id"`
	Name      string `json:"nombre"`
	Brand     string `json:"marca"`
	Code      string `json:"codigo"`
	Quantity  int    `json:"cantidad"`
}

// RecentSale is a one-line view of a sale
type RecentSale struct {
	SaleID     int64           `json:"venta_id"`
	ClientName string          `json:"cliente"`
	SoldAt     *time.Time      `json:"fecha_venta"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"estado"`
}

// DashboardSummary is the admin landing page data
type DashboardSummary struct {
	ActiveProducts    int64          `json:"productos_activos"`
	UnitsInStock      int64          `json:"unidades_en_stock"`
	LowStockThreshold int            `json:"umbral_stock_bajo"`
	LowStockCount     int            `json:"productos_stock_bajo"`
	LowStock          []LowStockItem `json:"stock_bajo"`
	RecentSales       []RecentSale   `json:"ventas_recientes"`
}

// DashboardService aggregates stock and sales figures
type DashboardService struct {
	productRepo catalog.ProductRepository
	saleRepo    trade.SaleRepository
	threshold   int
	logger      *zap.Logger
}

// NewDashboardService creates a new DashboardService. A threshold below
// zero selects DefaultLowStockThreshold.
func NewDashboardService(productRepo catalog.ProductRepository, saleRepo trade.SaleRepository, threshold int, logger *zap.Logger) *DashboardService {
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}
	return &DashboardService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		threshold:   threshold,
		logger:      logger,
	}
}

// Summary collects the dashboard figures
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	products, units, err := s.productRepo.StockSummary(ctx)
	if err != nil {
		return nil, err
	}

	low, err := s.productRepo.FindLowStock(ctx, s.threshold)
	if err != nil {
		return nil, err
	}

	recent, err := s.saleRepo.FindRecent(ctx, RecentSalesLimit)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		ActiveProducts:    products,
		UnitsInStock:      units,
		LowStockThreshold: s.threshold,
		LowStockCount:     len(low),
		LowStock:          make([]LowStockItem, 0, len(low)),
		RecentSales:       make([]RecentSale, 0, len(recent)),
	}
	for _, p := range low {
		summary.LowStock = append(summary.LowStock, LowStockItem{
			ProductID: p.ID,
			Name:      p.Name,
			Brand:     p.Brand,
			Code:      p.Code,
			Quantity:  p.Quantity,
		})
	}
	for _, sale := range recent {
		item := RecentSale{
			SaleID: sale.ID,
			SoldAt: sale.SoldAt,
			Total:  sale.Total,
			Status: sale.Status,
		}
		if sale.Client != nil {
			item.ClientName = sale.Client.FullName()
		}
		summary.RecentSales = append(summary.RecentSales, item)
	}

	if summary.LowStockCount > 0 {
		s.logger.Debug("Low stock products", zap.Int("count", summary.LowStockCount), zap.Int("threshold", s.threshold))
	}
	return summary, nil
}
