package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})

	t.Run("negative amounts are allowed", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(-5.25), VES)
		require.NoError(t, err)
		assert.True(t, m.IsNegative())
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyUSDFromFloat(10.00)
	b := NewMoneyUSDFromFloat(2.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "12.50", sum.StringFixed(2))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.Equal(t, "7.50", diff.StringFixed(2))

	tripled := b.MultiplyByInt(3)
	assert.Equal(t, "7.50", tripled.StringFixed(2))
}

func TestMoney_MixedCurrencyOperationsFail(t *testing.T) {
	usd := NewMoneyUSDFromFloat(10)
	ves := NewMoneyVES(decimal.NewFromInt(400))

	_, err := usd.Add(ves)
	assert.Error(t, err)

	_, err = usd.Subtract(ves)
	assert.Error(t, err)

	_, err = usd.GreaterThan(ves)
	assert.Error(t, err)
}

func TestMoney_ConvertToVES(t *testing.T) {
	tests := []struct {
		name    string
		money   Money
		rate    decimal.Decimal
		want    string
		wantErr bool
	}{
		{
			name:  "integer rate",
			money: NewMoneyUSDFromFloat(30.00),
			rate:  decimal.NewFromInt(40),
			want:  "1200.00",
		},
		{
			name:  "fractional rate",
			money: NewMoneyUSDFromFloat(10.00),
			rate:  decimal.NewFromFloat(36.5),
			want:  "365.00",
		},
		{
			name:    "zero rate rejected",
			money:   NewMoneyUSDFromFloat(10.00),
			rate:    decimal.Zero,
			wantErr: true,
		},
		{
			name:    "negative rate rejected",
			money:   NewMoneyUSDFromFloat(10.00),
			rate:    decimal.NewFromInt(-5),
			wantErr: true,
		},
		{
			name:    "VES source rejected",
			money:   NewMoneyVES(decimal.NewFromInt(100)),
			rate:    decimal.NewFromInt(40),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.money.ConvertToVES(tt.rate)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, VES, got.Currency())
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestMoney_ConvertToUSD(t *testing.T) {
	ves := NewMoneyVES(decimal.NewFromInt(1200))

	got, err := ves.ConvertToUSD(decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.Equal(t, USD, got.Currency())
	assert.Equal(t, "30.00", got.StringFixed(2))

	_, err = ves.ConvertToUSD(decimal.Zero)
	assert.Error(t, err)

	_, err = NewMoneyUSDFromFloat(30).ConvertToUSD(decimal.NewFromInt(40))
	assert.Error(t, err)
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyUSDFromFloat(5)
	big := NewMoneyUSDFromFloat(10)

	gt, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	gt, err = small.GreaterThan(big)
	require.NoError(t, err)
	assert.False(t, gt)

	assert.True(t, small.Equals(NewMoneyUSDFromFloat(5)))
	assert.False(t, small.Equals(big))
}

func TestMoney_Round(t *testing.T) {
	m := NewMoneyUSDFromFloat(10.005)
	assert.Equal(t, "10.01", m.Round(2).StringFixed(2))

	m = NewMoneyUSDFromFloat(10.004)
	assert.Equal(t, "10.00", m.Round(2).StringFixed(2))
}
