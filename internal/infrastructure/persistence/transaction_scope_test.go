package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	apptrade "github.com/optica/backend/internal/application/trade"
	"github.com/optica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newSaleService(db *gorm.DB) *apptrade.SaleService {
	return apptrade.NewSaleService(
		NewGormTransactionScope(db, 0),
		NewGormSaleRepository(db),
		zap.NewNop(),
	)
}

func TestGormTransactionScope_SaleCommits(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	frame := seedProduct(t, db, "Marco Aviador", 5, "10.00")

	service := newSaleService(db)
	saleID, err := service.RegisterFromCart(ctx, 0, apptrade.RegisterSaleRequest{
		Items: []apptrade.CartItem{
			{ProductID: frame.ID, Quantity: 2, TaxRate: decimal.RequireFromString("0.15")},
		},
		PaymentMethod: "efectivo",
	})
	require.NoError(t, err)
	assert.Positive(t, saleID)

	assert.Equal(t, 3, reloadQuantity(t, db, frame.ID))

	sale, err := NewGormSaleRepository(db).FindByID(ctx, saleID)
	require.NoError(t, err)
	require.Len(t, sale.Lines, 1)
	assert.True(t, sale.Lines[0].UnitPrice.Equal(decimal.RequireFromString("34.50")))
	assert.True(t, sale.Subtotal15.Equal(decimal.RequireFromString("69.00")))
	assert.True(t, sale.Tax15.Equal(decimal.RequireFromString("10.35")))
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("79.35")))
	assert.Nil(t, sale.ClientID)
}

func TestGormTransactionScope_InsufficientStockRollsBackEveryLine(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	plenty := seedProduct(t, db, "Lente Progresivo", 5, "20.00")
	scarce := seedProduct(t, db, "Estuche Rigido", 1, "2.00")

	service := newSaleService(db)
	_, err := service.RegisterFromCart(ctx, 0, apptrade.RegisterSaleRequest{
		Items: []apptrade.CartItem{
			{ProductID: plenty.ID, Quantity: 2},
			{ProductID: scarce.ID, Quantity: 3},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

	assert.Equal(t, 5, reloadQuantity(t, db, plenty.ID))
	assert.Equal(t, 1, reloadQuantity(t, db, scarce.ID))
	assert.Zero(t, countRows(t, db, "ventas"))
	assert.Zero(t, countRows(t, db, "detalle_ventas"))
}

func TestGormTransactionScope_UnknownProductWritesNothing(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	frame := seedProduct(t, db, "Marco Redondo", 4, "8.00")

	service := newSaleService(db)
	_, err := service.RegisterFromCart(ctx, 0, apptrade.RegisterSaleRequest{
		Items: []apptrade.CartItem{
			{ProductID: frame.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.Contains(t, err.Error(), "9999")

	assert.Equal(t, 4, reloadQuantity(t, db, frame.ID))
	assert.Zero(t, countRows(t, db, "ventas"))
}

func TestGormTransactionScope_SaleUpsertsClientByRUT(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	frame := seedProduct(t, db, "Marco Cuadrado", 4, "8.00")
	service := newSaleService(db)

	req := apptrade.RegisterSaleRequest{
		Items:  []apptrade.CartItem{{ProductID: frame.ID, Quantity: 1}},
		Client: &apptrade.SaleClientInput{RUT: " 12.345.678-9 ", FirstNames: "Ana", LastName1: "Rojas"},
	}
	first, err := service.RegisterFromCart(ctx, 0, req)
	require.NoError(t, err)
	second, err := service.RegisterFromCart(ctx, 0, req)
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRows(t, db, "clientes"))
	a, err := NewGormSaleRepository(db).FindByID(ctx, first)
	require.NoError(t, err)
	b, err := NewGormSaleRepository(db).FindByID(ctx, second)
	require.NoError(t, err)
	require.NotNil(t, a.ClientID)
	assert.Equal(t, *a.ClientID, *b.ClientID)
	assert.Equal(t, "12.345.678-9", a.Client.RUT)
}

func TestGormTransactionScope_FailedSaleLeavesNoClient(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	scarce := seedProduct(t, db, "Estuche Rigido", 1, "2.00")

	service := newSaleService(db)
	_, err := service.RegisterFromCart(ctx, 0, apptrade.RegisterSaleRequest{
		Items:  []apptrade.CartItem{{ProductID: scarce.ID, Quantity: 3}},
		Client: &apptrade.SaleClientInput{RUT: "9.876.543-2", FirstNames: "Luis", LastName1: "Soto"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

	assert.Zero(t, countRows(t, db, "clientes"))
	assert.Zero(t, countRows(t, db, "ventas"))
	assert.Equal(t, 1, reloadQuantity(t, db, scarce.ID))
}

func TestGormTransactionScope_PurchaseIncrementsStock(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	lens := seedProduct(t, db, "Lente Monofocal", 2, "15.00")
	supplier := seedSupplier(t, db, "PRV-01", "76.543.210-K")

	service := apptrade.NewPurchaseService(
		NewGormTransactionScope(db, 0),
		NewGormPurchaseRepository(db),
		NewGormSupplierRepository(db),
		zap.NewNop(),
	)
	resp, err := service.Create(ctx, apptrade.CreatePurchaseRequest{
		SupplierID: supplier.ID,
		Items: []apptrade.PurchaseItemInput{
			{ProductID: lens.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("12.00"), TaxRate: decimal.RequireFromString("0.15")},
			{ProductID: lens.ID, Quantity: 0, UnitPrice: decimal.RequireFromString("99.00")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, 12, reloadQuantity(t, db, lens.ID))
	assert.Equal(t, int64(1), countRows(t, db, "compras_detalle"))

	purchase, err := NewGormPurchaseRepository(db).FindByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, purchase.TotalDue.Equal(decimal.RequireFromString("138.00")))
	require.NotNil(t, purchase.Supplier)
	assert.Equal(t, "PRV-01", purchase.Supplier.Code)
}

func TestGormTransactionScope_SetsLockTimeoutOnPostgres(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL lock_timeout = '1500ms'")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{"producto_id", "nombre", "cantidad", "estado"}).
		AddRow(7, "Marco", 3, true)
	mock.ExpectQuery(`SELECT \* FROM "productos" WHERE producto_id = \$1 .*FOR UPDATE`).
		WithArgs(int64(7), 1).
		WillReturnRows(rows)
	mock.ExpectCommit()

	scope := NewGormTransactionScope(gormDB, 1500*time.Millisecond)
	err := scope.Execute(context.Background(), func(repos apptrade.TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByIDForUpdate(context.Background(), 7)
		if err != nil {
			return err
		}
		assert.Equal(t, 3, product.Quantity)
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_LockNotAvailableMapsToLockTimeout(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "productos" WHERE producto_id = \$1 .*FOR UPDATE`).
		WithArgs(int64(7), 1).
		WillReturnError(&pgconn.PgError{Code: "55P03", Message: "canceling statement due to lock timeout"})
	mock.ExpectRollback()

	scope := NewGormTransactionScope(gormDB, 0)
	err := scope.Execute(context.Background(), func(repos apptrade.TransactionalRepositories) error {
		_, err := repos.ProductRepo().FindByIDForUpdate(context.Background(), 7)
		return err
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrLockTimeout))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, shared.ErrAlreadyExists},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, shared.ErrReferenced},
		{"gorm foreign key violation", gorm.ErrForeignKeyViolated, shared.ErrReferenced},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, shared.ErrLockTimeout},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, shared.ErrLockTimeout},
		{"deadline", context.DeadlineExceeded, shared.ErrLockTimeout},
		{"domain error passes through", shared.ErrInsufficientStock, shared.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(translateError(tt.in), tt.want))
		})
	}

	assert.NoError(t, translateError(nil))
	other := errors.New("connection reset")
	assert.Equal(t, other, translateError(other))
}
