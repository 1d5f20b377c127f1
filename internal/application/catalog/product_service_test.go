package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	apptrade "github.com/optica/backend/internal/application/trade"
	"github.com/optica/backend/internal/domain/catalog"
	"github.com/optica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, threshold int) ([]catalog.Product, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) StockSummary(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) UpdateColumns(ctx context.Context, product *catalog.Product, columns []string) error {
	return m.Called(ctx, product, columns).Error(0)
}

func (m *MockProductRepository) UpdateStatus(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *MockProductRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func (m *MockProductRepository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newTestService(repo *MockProductRepository) *ProductService {
	svc := NewProductService(repo, apptrade.NewNoOpTransactionScope(repo, nil, nil, nil), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func existingProduct(id int64, active bool) *catalog.Product {
	p, _ := catalog.NewProduct(catalog.ProductDraft{
		Name:     "Armazon Ray-Ban",
		Quantity: 4,
		UnitCost: decimal.NewFromInt(100),
	}, time.Now())
	p.ID = id
	p.Active = active
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("derives costs", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		repo.On("Create", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		product, err := svc.Create(ctx, CreateProductRequest{
			Name:     "Lente Transitions",
			Quantity: 3,
			UnitCost: decimal.RequireFromString("10.00"),
		})

		require.NoError(t, err)
		assert.True(t, product.Active)
		assert.Equal(t, "11.5", product.TotalCost.String())
		assert.Equal(t, "34.5", product.SalePrice1.String())
		assert.Equal(t, "23", product.SalePrice2.String())
		repo.AssertExpectations(t)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)

		_, err := svc.Create(ctx, CreateProductRequest{Name: "Lente", Quantity: -1})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := newTestService(repo)
	repo.On("FindByID", ctx, int64(42)).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(ctx, 42)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Contains(t, err.Error(), "Product 42 not found")
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to active and normalizes paging", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		expected := catalog.ProductFilter{
			Filter: shared.Filter{Page: 1, PageSize: 20, Search: "ray"},
			Status: catalog.StatusActive,
		}
		repo.On("FindAll", ctx, expected).Return([]catalog.Product{*existingProduct(1, true)}, int64(21), nil)

		page, err := svc.List(ctx, ProductListFilter{Search: "ray"})

		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, int64(21), page.Total)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)

		_, err := svc.List(ctx, ProductListFilter{Status: "archived"})

		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes costs", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		repo.On("FindByIDForUpdate", ctx, int64(5)).Return(existingProduct(5, true), nil)
		repo.On("UpdateColumns", ctx, mock.AnythingOfType("*catalog.Product"),
			[]string{"costo_unitario", "costo_total", "costo_venta_1", "costo_venta_2"}).Return(nil)

		cost := decimal.NewFromInt(20)
		product, err := svc.Update(ctx, 5, UpdateProductRequest{UnitCost: &cost}.ToPatch())

		require.NoError(t, err)
		assert.Equal(t, "23", product.TotalCost.String())
		assert.Equal(t, "69", product.SalePrice1.String())
		repo.AssertExpectations(t)
	})

	t.Run("name only edit leaves stock column alone", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		repo.On("FindByIDForUpdate", ctx, int64(5)).Return(existingProduct(5, true), nil)
		repo.On("UpdateColumns", ctx, mock.AnythingOfType("*catalog.Product"), []string{"nombre"}).Return(nil)

		name := "Armazon Oakley"
		product, err := svc.Update(ctx, 5, catalog.ProductPatch{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Armazon Oakley", product.Name)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("quantity edit writes cantidad", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		repo.On("FindByIDForUpdate", ctx, int64(5)).Return(existingProduct(5, true), nil)
		repo.On("UpdateColumns", ctx, mock.MatchedBy(func(p *catalog.Product) bool { return p.Quantity == 9 }),
			[]string{"cantidad"}).Return(nil)

		qty := 9
		_, err := svc.Update(ctx, 5, catalog.ProductPatch{Quantity: &qty})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing product", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		repo.On("FindByIDForUpdate", ctx, int64(5)).Return(nil, shared.ErrNotFound)

		name := "x"
		_, err := svc.Update(ctx, 5, catalog.ProductPatch{Name: &name})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Contains(t, err.Error(), "Product 5 not found")
	})

	t.Run("empty patch", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)

		_, err := svc.Update(ctx, 5, catalog.ProductPatch{})

		assert.ErrorIs(t, err, shared.ErrValidation)
		repo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("unreferenced product is removed", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		repo.On("FindByID", ctx, int64(7)).Return(existingProduct(7, true), nil)
		repo.On("IsReferenced", ctx, int64(7)).Return(false, nil)
		repo.On("Delete", ctx, int64(7)).Return(nil)

		outcome, err := svc.Delete(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, shared.DeletionHardDeleted, outcome)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("referenced product is deactivated", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		repo.On("FindByID", ctx, int64(7)).Return(existingProduct(7, true), nil)
		repo.On("IsReferenced", ctx, int64(7)).Return(true, nil)
		repo.On("UpdateStatus", ctx, int64(7), false).Return(nil)

		outcome, err := svc.Delete(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, shared.DeletionDeactivated, outcome)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("foreign key violation falls back to deactivation", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		repo.On("FindByID", ctx, int64(7)).Return(existingProduct(7, true), nil)
		repo.On("IsReferenced", ctx, int64(7)).Return(false, nil)
		repo.On("Delete", ctx, int64(7)).Return(fmt.Errorf("delete product 7: %w", shared.ErrReferenced))
		repo.On("UpdateStatus", ctx, int64(7), false).Return(nil)

		outcome, err := svc.Delete(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, shared.DeletionDeactivated, outcome)
		repo.AssertExpectations(t)
	})

	t.Run("other delete failures surface", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		repo.On("FindByID", ctx, int64(7)).Return(existingProduct(7, true), nil)
		repo.On("IsReferenced", ctx, int64(7)).Return(false, nil)
		repo.On("Delete", ctx, int64(7)).Return(shared.ErrLockTimeout)

		_, err := svc.Delete(ctx, 7)

		assert.ErrorIs(t, err, shared.ErrLockTimeout)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("inactive product is reactivated", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		repo.On("FindByID", ctx, int64(3)).Return(existingProduct(3, false), nil)
		repo.On("UpdateStatus", ctx, int64(3), true).Return(nil)

		product, err := svc.Restore(ctx, 3)

		require.NoError(t, err)
		assert.True(t, product.Active)
		repo.AssertExpectations(t)
	})

	t.Run("active product is left as is", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := newTestService(repo)
		repo.On("FindByID", ctx, int64(3)).Return(existingProduct(3, true), nil)

		product, err := svc.Restore(ctx, 3)

		require.NoError(t, err)
		assert.True(t, product.Active)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_LowStock(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := newTestService(repo)
	repo.On("FindLowStock", ctx, 10).Return([]catalog.Product{*existingProduct(1, true)}, nil)

	items, err := svc.LowStock(ctx, 10)

	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.LowStock(ctx, -1)
	assert.ErrorIs(t, err, shared.ErrValidation)
}
