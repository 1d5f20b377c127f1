package telemetry

import (
	"context"
	"errors"

	apptrade "github.com/optica/backend/internal/application/trade"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor receives no meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// AmountBuckets are bucket boundaries for document totals in pesos.
var AmountBuckets = []float64{1000, 5000, 10000, 25000, 50000, 100000, 250000, 500000, 1000000}

// TradeMetrics records sale and purchase activity.
type TradeMetrics struct {
	documents       *Counter
	amount          *Histogram
	lines           *Histogram
	stockRejections *Counter
}

// NewTradeMetrics registers the trade instruments on meter.
func NewTradeMetrics(meter metric.Meter) (*TradeMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		m   TradeMetrics
		err error
	)
	if m.documents, err = NewCounter(meter, "optica_trade_documents_total",
		"Registered sales and purchases", "{documents}"); err != nil {
		return nil, err
	}
	if m.amount, err = NewHistogram(meter, HistogramOpts{
		Name:        "optica_trade_document_amount",
		Description: "Document totals including tax",
		Unit:        "{CLP}",
		Boundaries:  AmountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.lines, err = NewHistogram(meter, HistogramOpts{
		Name:        "optica_trade_document_lines",
		Description: "Line items per document",
		Unit:        "{lines}",
		Boundaries:  []float64{1, 2, 3, 5, 10, 20, 50},
	}); err != nil {
		return nil, err
	}
	if m.stockRejections, err = NewCounter(meter, "optica_sale_stock_rejections_total",
		"Sales rejected for insufficient stock", "{sales}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordSale implements trade.Metrics.
func (m *TradeMetrics) RecordSale(ctx context.Context, total decimal.Decimal, lines int) {
	m.record(ctx, "sale", total, lines)
}

// RecordPurchase implements trade.Metrics.
func (m *TradeMetrics) RecordPurchase(ctx context.Context, total decimal.Decimal, lines int) {
	m.record(ctx, "purchase", total, lines)
}

func (m *TradeMetrics) record(ctx context.Context, document string, total decimal.Decimal, lines int) {
	attr := AttrDocument.String(document)
	m.documents.Inc(ctx, attr)
	m.amount.Record(ctx, total.InexactFloat64(), attr)
	m.lines.Record(ctx, float64(lines), attr)
}

// RecordStockRejection implements trade.Metrics.
func (m *TradeMetrics) RecordStockRejection(ctx context.Context, productID int64) {
	m.stockRejections.Inc(ctx, AttrProductID.Int64(productID))
}

var _ apptrade.Metrics = (*TradeMetrics)(nil)
