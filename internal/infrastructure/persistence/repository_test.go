package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/optica/backend/internal/domain/catalog"
	"github.com/optica/backend/internal/domain/identity"
	"github.com/optica/backend/internal/domain/partner"
	"github.com/optica/backend/internal/domain/shared"
	"github.com/optica/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_FindAll(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormProductRepository(db)

	aviator := seedProduct(t, db, "Marco Aviador", 5, "10.00")
	seedProduct(t, db, "Lente Solar", 2, "30.00")
	retired := seedProduct(t, db, "Marco Antiguo", 0, "5.00")
	require.NoError(t, repo.UpdateStatus(ctx, retired.ID, false))

	t.Run("active by default", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("deleted only", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.DefaultFilter(), Status: catalog.StatusDeleted})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, retired.ID, items[0].ID)
	})

	t.Run("all with case-insensitive search", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.Search = "marco"
		items, total, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: f, Status: catalog.StatusAll})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("pages", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, catalog.ProductFilter{Filter: shared.Filter{Page: 2, PageSize: 1}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, items, 1)
		assert.Equal(t, aviator.ID, items[0].ID)
	})
}

func TestGormProductRepository_StockQueries(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormProductRepository(db)

	seedProduct(t, db, "Marco A", 12, "10.00")
	low := seedProduct(t, db, "Marco B", 3, "10.00")
	empty := seedProduct(t, db, "Marco C", 0, "10.00")

	products, units, err := repo.StockSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), products)
	assert.Equal(t, int64(15), units)

	lowStock, err := repo.FindLowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, lowStock, 2)
	assert.Equal(t, empty.ID, lowStock[0].ID)
	assert.Equal(t, low.ID, lowStock[1].ID)

	require.NoError(t, repo.UpdateQuantity(ctx, low.ID, 9))
	assert.Equal(t, 9, reloadQuantity(t, db, low.ID))

	err = repo.UpdateQuantity(ctx, 424242, 1)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestGormProductRepository_UpdateColumnsKeepsConcurrentStock(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormProductRepository(db)
	frame := seedProduct(t, db, "Marco Aviador", 10, "10.00")

	stale, err := repo.FindByID(ctx, frame.ID)
	require.NoError(t, err)
	// a sale commits after the edit form was loaded
	require.NoError(t, repo.UpdateQuantity(ctx, frame.ID, 7))

	name := "Marco Aviador Dorado"
	patch := catalog.ProductPatch{Name: &name}
	require.NoError(t, stale.ApplyPatch(patch))
	require.NoError(t, repo.UpdateColumns(ctx, stale, patch.Columns()))

	reloaded, err := repo.FindByID(ctx, frame.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marco Aviador Dorado", reloaded.Name)
	assert.Equal(t, 7, reloaded.Quantity)

	require.NoError(t, repo.UpdateStatus(ctx, frame.ID, false))
	reloaded, err = repo.FindByID(ctx, frame.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Active)
	assert.Equal(t, 7, reloaded.Quantity)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, 9999, true), shared.ErrNotFound)
	assert.NoError(t, repo.UpdateColumns(ctx, stale, nil))
}

func TestGormProductRepository_IsReferencedAndDelete(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormProductRepository(db)

	sold := seedProduct(t, db, "Marco Vendido", 3, "10.00")
	unused := seedProduct(t, db, "Marco Nuevo", 3, "10.00")

	sale := trade.NewSale(trade.SaleHeader{}, time.Now())
	require.NoError(t, NewGormSaleRepository(db).Create(ctx, sale))
	line := trade.NewSaleLine(sale.ID, sold, 1, sold.SalePrice(), trade.ComputeLine(trade.LineInput{Quantity: 1, UnitPrice: sold.SalePrice()}), "", "")
	require.NoError(t, NewGormSaleRepository(db).CreateLine(ctx, line))

	referenced, err := repo.IsReferenced(ctx, sold.ID)
	require.NoError(t, err)
	assert.True(t, referenced)

	referenced, err = repo.IsReferenced(ctx, unused.ID)
	require.NoError(t, err)
	assert.False(t, referenced)

	require.NoError(t, repo.Delete(ctx, unused.ID))
	_, err = repo.FindByID(ctx, unused.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, unused.ID), shared.ErrNotFound))
}

func TestGormSaleRepository_FindRecent(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormSaleRepository(db)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		sale := trade.NewSale(trade.SaleHeader{InvoiceNumber: string(rune('A' + i))}, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Create(ctx, sale))
	}

	recent, err := repo.FindRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "D", recent[0].InvoiceNumber)
	assert.Equal(t, "C", recent[1].InvoiceNumber)

	all, total, err := repo.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, all, 4)
}

func TestGormClientRepository_GetOrCreateByRUT(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormClientRepository(db)

	newClient := func(first string) *partner.Client {
		c, err := partner.NewClient(partner.ClientData{RUT: "11.111.111-1", FirstNames: first, LastName1: "Soto"}, time.Now())
		require.NoError(t, err)
		return c
	}

	first, created, err := repo.GetOrCreateByRUT(ctx, newClient("Juan"))
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.GetOrCreateByRUT(ctx, newClient("Pedro"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Juan", second.FirstNames)

	err = repo.Create(ctx, newClient("Otro"))
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))

	found, err := repo.FindByRUT(ctx, " 11.111.111-1 ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	f := shared.DefaultFilter()
	f.Search = "sot"
	clients, total, err := repo.FindAll(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, clients, 1)
}

func TestGormSupplierRepository(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	repo := NewGormSupplierRepository(db)

	active := seedSupplier(t, db, "PRV-01", "76.000.001-1")
	inactive := seedSupplier(t, db, "PRV-02", "76.000.002-2")
	inactive.Deactivate(time.Now())
	require.NoError(t, repo.Save(ctx, inactive))

	exists, err := repo.ExistsByCodeOrRUT(ctx, "PRV-01", "99.999.999-9")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByCodeOrRUT(ctx, "PRV-99", "76.000.002-2")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByCodeOrRUT(ctx, "PRV-99", "99.999.999-9")
	require.NoError(t, err)
	assert.False(t, exists)

	onlyActive, err := repo.FindAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID, onlyActive[0].ID)

	everyone, err := repo.FindAll(ctx, false)
	require.NoError(t, err)
	assert.Len(t, everyone, 2)

	purchase := trade.NewPurchase(trade.PurchaseHeader{SupplierID: active.ID, PartialPayment: decimal.Zero}, time.Now())
	require.NoError(t, NewGormPurchaseRepository(db).Create(ctx, purchase))

	referenced, err := repo.IsReferenced(ctx, active.ID)
	require.NoError(t, err)
	assert.True(t, referenced)
	referenced, err = repo.IsReferenced(ctx, inactive.ID)
	require.NoError(t, err)
	assert.False(t, referenced)

	require.NoError(t, repo.Delete(ctx, inactive.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, inactive.ID), shared.ErrNotFound))
}

func TestGormUserAndRoleRepositories(t *testing.T) {
	db := newSQLiteDB(t)
	ctx := context.Background()
	roles := NewGormRoleRepository(db)
	users := NewGormUserRepository(db)

	require.NoError(t, db.Create(&identity.Role{Name: identity.RoleAdministrator, Active: true}).Error)
	require.NoError(t, db.Create(&identity.Role{Name: identity.RoleSeller, Active: true}).Error)

	seller, err := roles.FindByName(ctx, "  vendedor ")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleSeller, seller.Name)

	_, err = roles.FindByName(ctx, "Gerente")
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	all, err := roles.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	user, err := identity.NewUser(identity.UserDraft{
		Username:  "mlopez",
		Password:  "secreto123",
		FirstName: "Maria",
		LastName1: "Lopez",
		Email:     "mlopez@optica.cl",
	}, seller, time.Now())
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, user))

	loaded, err := users.FindByUsername(ctx, "MLopez")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loaded.ID)
	require.NotNil(t, loaded.Role)
	assert.Equal(t, identity.RoleSeller, loaded.RoleName())

	exists, err := users.ExistsByUsernameOrEmail(ctx, "otro", "MLOPEZ@optica.cl", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = users.ExistsByUsernameOrEmail(ctx, "mlopez", "mlopez@optica.cl", user.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	loaded.Deactivate()
	require.NoError(t, users.Save(ctx, loaded))
	reloaded, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Active)

	referenced, err := users.IsReferenced(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, referenced)

	require.NoError(t, users.Delete(ctx, user.ID))
	_, err = users.FindByID(ctx, user.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
