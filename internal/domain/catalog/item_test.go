package catalog

import (
	"testing"

	"github.com/erp/shopsync/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	t.Run("creates item with defaults", func(t *testing.T) {
		item, err := NewItem("SHOP-1001", "Blue T-Shirt")
		require.NoError(t, err)

		assert.Equal(t, "SHOP-1001", item.Code)
		assert.Equal(t, "Blue T-Shirt", item.Name)
		assert.True(t, item.SellingPrice.IsZero())
		assert.Equal(t, "{}", item.Attributes)
		assert.False(t, item.IsVariant())
		assert.NotEqual(t, "", item.ID.String())
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewItem("  ", "Name")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewItem("CODE", "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestItem_IsVariant(t *testing.T) {
	item, err := NewItem("SHOP-1001-S", "Blue T-Shirt - S")
	require.NoError(t, err)

	item.VariantOf = "SHOP-1001"
	assert.True(t, item.IsVariant())
}

func TestNormalizeWeightUnit(t *testing.T) {
	tests := []struct {
		name string
		code string
		want WeightUnit
	}{
		{"grams", "g", WeightUnitGram},
		{"kilograms", "kg", WeightUnitKg},
		{"uppercase kilograms", "KG", WeightUnitKg},
		{"unknown unit kept as-is", "lb", WeightUnit("lb")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWeightUnit(tt.code))
		})
	}
}

func TestNewEcommerceItem(t *testing.T) {
	t.Run("creates link row", func(t *testing.T) {
		link, err := NewEcommerceItem(IntegrationShopify, "gid://shopify/Product/1", "SHOP-1001")
		require.NoError(t, err)

		assert.Equal(t, IntegrationShopify, link.IntegrationCode)
		assert.Equal(t, "gid://shopify/Product/1", link.IntegrationItemCode)
		assert.Equal(t, "SHOP-1001", link.ItemCode)
	})

	t.Run("rejects blank identifiers", func(t *testing.T) {
		_, err := NewEcommerceItem("", "remote", "local")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = NewEcommerceItem(IntegrationShopify, "", "local")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)

		_, err = NewEcommerceItem(IntegrationShopify, "remote", " ")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
