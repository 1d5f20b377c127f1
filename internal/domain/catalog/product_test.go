package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/optica/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewProduct(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("derives costs", func(t *testing.T) {
		p, err := NewProduct(ProductDraft{Name: "  Armazón Aviador ", Quantity: 4, UnitCost: dec("20.00"), Code: "AV-1"}, now)
		require.NoError(t, err)

		assert.Equal(t, "Armazón Aviador", p.Name)
		assert.True(t, p.Active)
		assert.Equal(t, now, *p.RegisteredAt)
		assert.Equal(t, "23", p.TotalCost.String())
		assert.Equal(t, "69", p.SalePrice1.String())
		assert.Equal(t, "46", p.SalePrice2.String())
	})

	t.Run("rounds derived costs", func(t *testing.T) {
		p, err := NewProduct(ProductDraft{Name: "Estuche", UnitCost: dec("3.33")}, now)
		require.NoError(t, err)
		// 3.33 * 1.15 = 3.8295
		assert.Equal(t, "3.83", p.TotalCost.String())
		assert.Equal(t, "11.49", p.SalePrice1.String())
		assert.Equal(t, "7.66", p.SalePrice2.String())
	})

	t.Run("requires name", func(t *testing.T) {
		_, err := NewProduct(ProductDraft{Name: "   "}, now)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "INVALID_NAME", de.Code)
	})

	t.Run("rejects negative quantity or cost", func(t *testing.T) {
		_, err := NewProduct(ProductDraft{Name: "X", Quantity: -1}, now)
		assert.Error(t, err)
		_, err = NewProduct(ProductDraft{Name: "X", UnitCost: dec("-0.01")}, now)
		assert.Error(t, err)
	})
}

func TestProduct_SalePrice(t *testing.T) {
	p := &Product{UnitCost: dec("10.00"), SalePrice1: dec("34.50")}
	assert.Equal(t, "34.5", p.SalePrice().String())

	p = &Product{UnitCost: dec("10.00")}
	assert.Equal(t, "10", p.SalePrice().String())
}

func TestProduct_DecreaseStock(t *testing.T) {
	p := &Product{Name: "Lente", Quantity: 5}

	require.NoError(t, p.DecreaseStock(3))
	assert.Equal(t, 2, p.Quantity)

	err := p.DecreaseStock(3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	assert.Equal(t, 2, p.Quantity)

	assert.Error(t, p.DecreaseStock(0))
}

func TestProduct_IncreaseStock(t *testing.T) {
	p := &Product{Quantity: 1}
	require.NoError(t, p.IncreaseStock(9))
	assert.Equal(t, 10, p.Quantity)
	assert.Error(t, p.IncreaseStock(-2))
}

func TestProduct_ApplyPatch(t *testing.T) {
	base := func() *Product {
		p, err := NewProduct(ProductDraft{Name: "Armazón", Quantity: 2, UnitCost: dec("10.00"), Brand: "RayBan"}, time.Now())
		require.NoError(t, err)
		return p
	}

	t.Run("recomputes costs when unit cost changes", func(t *testing.T) {
		p := base()
		cost := dec("20.00")
		require.NoError(t, p.ApplyPatch(ProductPatch{UnitCost: &cost}))
		assert.Equal(t, "69", p.SalePrice1.String())
		assert.Equal(t, "RayBan", p.Brand)
	})

	t.Run("only touches provided fields", func(t *testing.T) {
		p := base()
		color := "negro"
		require.NoError(t, p.ApplyPatch(ProductPatch{Color: &color}))
		assert.Equal(t, "negro", p.Color)
		assert.Equal(t, "Armazón", p.Name)
		assert.Equal(t, 2, p.Quantity)
	})

	t.Run("invalid patch leaves product unchanged", func(t *testing.T) {
		p := base()
		qty := -5
		color := "rojo"
		require.Error(t, p.ApplyPatch(ProductPatch{Quantity: &qty, Color: &color}))
		assert.Equal(t, 2, p.Quantity)
		assert.Equal(t, "", p.Color)
	})

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, ProductPatch{}.IsEmpty())
		name := "x"
		assert.False(t, ProductPatch{Name: &name}.IsEmpty())
	})
}

func TestStatusFilter_IsValid(t *testing.T) {
	assert.True(t, StatusActive.IsValid())
	assert.True(t, StatusDeleted.IsValid())
	assert.True(t, StatusAll.IsValid())
	assert.False(t, StatusFilter("archived").IsValid())
}
