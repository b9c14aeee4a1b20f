package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name      string
		prodName  string
		unitPrice decimal.Decimal
		stock     int
		wantErr   string
	}{
		{
			name:      "valid product",
			prodName:  "Martillo",
			unitPrice: decimal.NewFromFloat(10.00),
			stock:     5,
		},
		{
			name:      "empty name",
			prodName:  "",
			unitPrice: decimal.NewFromFloat(10.00),
			stock:     5,
			wantErr:   "INVALID_NAME",
		},
		{
			name:      "zero price",
			prodName:  "Tornillo",
			unitPrice: decimal.Zero,
			stock:     5,
			wantErr:   "INVALID_PRICE",
		},
		{
			name:      "negative price",
			prodName:  "Tornillo",
			unitPrice: decimal.NewFromFloat(-1),
			stock:     5,
			wantErr:   "INVALID_PRICE",
		},
		{
			name:      "negative stock",
			prodName:  "Clavo",
			unitPrice: decimal.NewFromFloat(0.50),
			stock:     -1,
			wantErr:   "INVALID_STOCK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tenantID, tt.prodName, "desc", "herramientas", tt.unitPrice, tt.stock, "")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tenantID, p.TenantID)
			assert.Equal(t, tt.prodName, p.Name)
			assert.Len(t, p.GetDomainEvents(), 1)
			assert.Equal(t, EventTypeProductCreated, p.GetDomainEvents()[0].EventType())
		})
	}
}

func TestProduct_DecrementStock(t *testing.T) {
	tenantID := uuid.New()
	p, err := NewProduct(tenantID, "Martillo", "", "", decimal.NewFromFloat(10), 5, "")
	require.NoError(t, err)

	t.Run("decrements within available stock", func(t *testing.T) {
		require.NoError(t, p.DecrementStock(3))
		assert.Equal(t, 2, p.Stock)
	})

	t.Run("rejects quantity above stock", func(t *testing.T) {
		err := p.DecrementStock(3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Insufficient stock")
		assert.Equal(t, 2, p.Stock)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		assert.Error(t, p.DecrementStock(0))
		assert.Error(t, p.DecrementStock(-1))
	})
}

func TestProduct_IsBelowThreshold(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Martillo", "", "", decimal.NewFromFloat(10), 12, "")
	require.NoError(t, err)

	assert.False(t, p.IsBelowThreshold(10))

	require.NoError(t, p.DecrementStock(2))
	assert.True(t, p.IsBelowThreshold(10))

	require.NoError(t, p.DecrementStock(10))
	assert.True(t, p.IsBelowThreshold(10))
	assert.Equal(t, 0, p.Stock)
}

func TestProduct_ApplyPatch(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Martillo", "viejo", "herramientas", decimal.NewFromFloat(10), 5, "")
	require.NoError(t, err)
	p.ClearDomainEvents()

	t.Run("updates only provided fields", func(t *testing.T) {
		newName := "Martillo grande"
		newPrice := decimal.NewFromFloat(12.50)
		require.NoError(t, p.ApplyPatch(ProductPatch{Name: &newName, UnitPrice: &newPrice}))

		assert.Equal(t, "Martillo grande", p.Name)
		assert.True(t, p.UnitPrice.Equal(newPrice))
		assert.Equal(t, "viejo", p.Description)
		assert.Equal(t, 5, p.Stock)
		assert.Equal(t, 2, p.GetVersion())
	})

	t.Run("rejects empty patch", func(t *testing.T) {
		err := p.ApplyPatch(ProductPatch{})
		require.Error(t, err)
	})

	t.Run("rejects invalid price", func(t *testing.T) {
		bad := decimal.Zero
		err := p.ApplyPatch(ProductPatch{UnitPrice: &bad})
		require.Error(t, err)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		bad := -3
		err := p.ApplyPatch(ProductPatch{Stock: &bad})
		require.Error(t, err)
	})
}

func TestProduct_HasStockFor(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Martillo", "", "", decimal.NewFromFloat(10), 3, "")
	require.NoError(t, err)

	assert.True(t, p.HasStockFor(3))
	assert.False(t, p.HasStockFor(4))
	assert.False(t, p.HasStockFor(0))
}
