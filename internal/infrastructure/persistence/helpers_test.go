package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/optica/backend/internal/domain/catalog"
	"github.com/optica/backend/internal/domain/identity"
	"github.com/optica/backend/internal/domain/partner"
	"github.com/optica/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newSQLiteDB opens a private in-memory database with the full schema
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&identity.Role{},
		&identity.User{},
		&partner.Client{},
		&partner.Supplier{},
		&catalog.Product{},
		&trade.Sale{},
		&trade.SaleLine{},
		&trade.Purchase{},
		&trade.PurchaseLine{},
	))
	return db
}

// newMockGormDB wires GORM's postgres dialector to sqlmock
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func seedProduct(t *testing.T, db *gorm.DB, name string, qty int, unitCost string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(catalog.ProductDraft{
		Name:     name,
		Code:     strings.ToUpper(strings.ReplaceAll(name, " ", "-")),
		Brand:    "Ray-Ban",
		Quantity: qty,
		UnitCost: decimal.RequireFromString(unitCost),
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), product))
	return product
}

func seedSupplier(t *testing.T, db *gorm.DB, code, rut string) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier(partner.SupplierDraft{
		Code:      code,
		LegalName: "Distribuidora " + code,
		RUT:       rut,
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, NewGormSupplierRepository(db).Create(context.Background(), supplier))
	return supplier
}

func reloadQuantity(t *testing.T, db *gorm.DB, id int64) int {
	t.Helper()
	product, err := NewGormProductRepository(db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return product.Quantity
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}
