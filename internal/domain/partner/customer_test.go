package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCustomer(t *testing.T, limit float64) *Customer {
	t.Helper()
	c, err := NewCustomer(uuid.New(), "Carlos Perez", "carlos@example.com", "0412-5551234", "Av. Bolivar", decimal.NewFromFloat(limit))
	require.NoError(t, err)
	c.ClearDomainEvents()
	return c
}

func TestNewCustomer(t *testing.T) {
	t.Run("creates customer with zero balance", func(t *testing.T) {
		c, err := NewCustomer(uuid.New(), "Carlos Perez", "carlos@example.com", "", "", decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, c.Balance.IsZero())
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCustomer(uuid.New(), "", "a@b.co", "", "", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewCustomer(uuid.New(), "Carlos", "not-an-email", "", "", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("allows empty email", func(t *testing.T) {
		_, err := NewCustomer(uuid.New(), "Carlos", "", "", "", decimal.Zero)
		assert.NoError(t, err)
	})

	t.Run("rejects negative credit limit", func(t *testing.T) {
		_, err := NewCustomer(uuid.New(), "Carlos", "", "", "", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestCustomer_CanAssumeDebt(t *testing.T) {
	c := newTestCustomer(t, 100)
	require.NoError(t, c.AddDebt(decimal.NewFromInt(80)))

	// 80 + 30 > 100
	assert.False(t, c.CanAssumeDebt(decimal.NewFromInt(30)))
	// 80 + 20 == 100, boundary is allowed
	assert.True(t, c.CanAssumeDebt(decimal.NewFromInt(20)))
}

func TestCustomer_DebtLifecycle(t *testing.T) {
	c := newTestCustomer(t, 500)

	require.NoError(t, c.AddDebt(decimal.NewFromFloat(120.50)))
	assert.Equal(t, "120.50", c.Balance.StringFixed(2))
	assert.True(t, c.HasOutstandingDebt())
	assert.Equal(t, "379.50", c.AvailableCredit().StringFixed(2))

	require.NoError(t, c.SettleDebt(decimal.NewFromFloat(120.50)))
	assert.True(t, c.Balance.IsZero())
	assert.False(t, c.HasOutstandingDebt())

	t.Run("rejects settlement above balance", func(t *testing.T) {
		assert.Error(t, c.SettleDebt(decimal.NewFromInt(1)))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		assert.Error(t, c.AddDebt(decimal.Zero))
		assert.Error(t, c.SettleDebt(decimal.NewFromInt(-5)))
	})
}

func TestCustomer_ApplyPatch(t *testing.T) {
	c := newTestCustomer(t, 100)

	t.Run("updates only provided fields", func(t *testing.T) {
		newLimit := decimal.NewFromInt(250)
		newPhone := "0414-0000000"
		require.NoError(t, c.ApplyPatch(CustomerPatch{CreditLimit: &newLimit, Phone: &newPhone}))

		assert.True(t, c.CreditLimit.Equal(newLimit))
		assert.Equal(t, newPhone, c.Phone)
		assert.Equal(t, "Carlos Perez", c.Name)
	})

	t.Run("rejects empty patch", func(t *testing.T) {
		assert.Error(t, c.ApplyPatch(CustomerPatch{}))
	})

	t.Run("rejects negative credit limit", func(t *testing.T) {
		bad := decimal.NewFromInt(-10)
		assert.Error(t, c.ApplyPatch(CustomerPatch{CreditLimit: &bad}))
	})
}
