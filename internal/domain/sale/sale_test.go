package sale

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrepos/backend/internal/domain/shared"
	"github.com/ferrepos/backend/internal/domain/shared/valueobject"
)

var tolerance = decimal.NewFromFloat(0.01)

func itemInput(qty int, price float64) NewSaleItemInput {
	return NewSaleItemInput{
		ProductID:   uuid.New(),
		ProductName: "Martillo",
		Quantity:    qty,
		UnitPrice:   valueobject.NewMoneyUSDFromFloat(price),
	}
}

func TestNewSale_CashFullyPaidInVES(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	rate := decimal.NewFromInt(40)

	s, err := NewSale(
		uuid.New(), nil,
		[]NewSaleItemInput{itemInput(3, 10.00)},
		rate,
		Payment{Type: PaymentTypeCash, PaidUSD: decimal.Zero, PaidVES: decimal.NewFromInt(1200)},
		0, tolerance, now,
	)
	require.NoError(t, err)

	assert.Equal(t, "30.00", s.TotalUSD.StringFixed(2))
	assert.Equal(t, "1200.00", s.TotalVES.StringFixed(2))
	assert.Equal(t, "0.00", s.BalanceDueUSD.StringFixed(2))
	assert.Equal(t, SaleStatusCompleted, s.Status)
	assert.Nil(t, s.DueDate)
	require.Len(t, s.Items, 1)
	assert.Equal(t, "30.00", s.Items[0].SubtotalUSD.StringFixed(2))

	require.Len(t, s.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeSaleCreated, s.GetDomainEvents()[0].EventType())
}

func TestNewSale_CashShortfallRejected(t *testing.T) {
	now := time.Now().UTC()
	rate := decimal.NewFromInt(40)

	_, err := NewSale(
		uuid.New(), nil,
		[]NewSaleItemInput{itemInput(3, 10.00)},
		rate,
		Payment{Type: PaymentTypeCash, PaidUSD: decimal.NewFromInt(20), PaidVES: decimal.Zero},
		0, tolerance, now,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Declared payment does not cover")
}

func TestNewSale_CashWithinTolerance(t *testing.T) {
	now := time.Now().UTC()
	rate := decimal.NewFromFloat(36.5)

	// 10.00 total, 9.99 paid, shortfall exactly at the tolerance
	s, err := NewSale(
		uuid.New(), nil,
		[]NewSaleItemInput{itemInput(1, 10.00)},
		rate,
		Payment{Type: PaymentTypeCash, PaidUSD: decimal.NewFromFloat(9.99), PaidVES: decimal.Zero},
		0, tolerance, now,
	)
	require.NoError(t, err)
	assert.Equal(t, SaleStatusCompleted, s.Status)
	assert.True(t, s.BalanceDueUSD.IsZero())
}

func TestNewSale_CashOverpaymentCompletes(t *testing.T) {
	now := time.Now().UTC()
	s, err := NewSale(
		uuid.New(), nil,
		[]NewSaleItemInput{itemInput(1, 10.00)},
		decimal.NewFromInt(40),
		Payment{Type: PaymentTypeCash, PaidUSD: decimal.NewFromInt(20), PaidVES: decimal.Zero},
		0, tolerance, now,
	)
	require.NoError(t, err)
	assert.Equal(t, SaleStatusCompleted, s.Status)
	assert.True(t, s.BalanceDueUSD.IsZero())
}

func TestNewSale_CreditWithOpenBalance(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	customerID := uuid.New()

	s, err := NewSale(
		uuid.New(), &customerID,
		[]NewSaleItemInput{itemInput(4, 25.00)},
		decimal.NewFromInt(40),
		Payment{Type: PaymentTypeCredit, PaidUSD: decimal.NewFromInt(40), PaidVES: decimal.Zero},
		15, tolerance, now,
	)
	require.NoError(t, err)

	assert.Equal(t, SaleStatusCredit, s.Status)
	assert.Equal(t, "60.00", s.BalanceDueUSD.StringFixed(2))
	assert.Equal(t, 15, s.CreditDays)
	require.NotNil(t, s.DueDate)
	assert.Equal(t, now.AddDate(0, 0, 15), *s.DueDate)
}

func TestNewSale_CreditDefaultTerm(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	customerID := uuid.New()

	s, err := NewSale(
		uuid.New(), &customerID,
		[]NewSaleItemInput{itemInput(1, 50.00)},
		decimal.NewFromInt(40),
		Payment{Type: PaymentTypeCredit, PaidUSD: decimal.Zero, PaidVES: decimal.Zero},
		0, tolerance, now,
	)
	require.NoError(t, err)
	assert.Equal(t, DefaultCreditDays, s.CreditDays)
	assert.Equal(t, now.AddDate(0, 0, DefaultCreditDays), *s.DueDate)
}

func TestNewSale_CreditFullyPaidCompletes(t *testing.T) {
	now := time.Now().UTC()
	customerID := uuid.New()

	s, err := NewSale(
		uuid.New(), &customerID,
		[]NewSaleItemInput{itemInput(2, 10.00)},
		decimal.NewFromInt(40),
		Payment{Type: PaymentTypeCredit, PaidUSD: decimal.NewFromInt(20), PaidVES: decimal.Zero},
		0, tolerance, now,
	)
	require.NoError(t, err)
	assert.Equal(t, SaleStatusCompleted, s.Status)
	assert.Nil(t, s.DueDate)
}

func TestNewSale_Validation(t *testing.T) {
	now := time.Now().UTC()
	rate := decimal.NewFromInt(40)
	cash := Payment{Type: PaymentTypeCash, PaidUSD: decimal.NewFromInt(100), PaidVES: decimal.Zero}

	t.Run("rejects empty item list", func(t *testing.T) {
		_, err := NewSale(uuid.New(), nil, nil, rate, cash, 0, tolerance, now)
		assert.Error(t, err)
	})

	t.Run("rejects zero rate", func(t *testing.T) {
		_, err := NewSale(uuid.New(), nil, []NewSaleItemInput{itemInput(1, 10)}, decimal.Zero, cash, 0, tolerance, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Exchange rate provider unavailable")
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := NewSale(uuid.New(), nil, []NewSaleItemInput{itemInput(1, 10)}, decimal.NewFromInt(-1), cash, 0, tolerance, now)
		assert.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewSale(uuid.New(), nil, []NewSaleItemInput{itemInput(0, 10)}, rate, cash, 0, tolerance, now)
		assert.Error(t, err)
	})

	t.Run("rejects negative paid amounts", func(t *testing.T) {
		bad := Payment{Type: PaymentTypeCash, PaidUSD: decimal.NewFromInt(-1), PaidVES: decimal.Zero}
		_, err := NewSale(uuid.New(), nil, []NewSaleItemInput{itemInput(1, 10)}, rate, bad, 0, tolerance, now)
		assert.Error(t, err)
	})

	t.Run("rejects credit sale without customer", func(t *testing.T) {
		credit := Payment{Type: PaymentTypeCredit, PaidUSD: decimal.Zero, PaidVES: decimal.Zero}
		_, err := NewSale(uuid.New(), nil, []NewSaleItemInput{itemInput(1, 10)}, rate, credit, 0, tolerance, now)
		assert.Error(t, err)
	})
}

func TestSale_SettlePayment(t *testing.T) {
	now := time.Now().UTC()
	customerID := uuid.New()

	s, err := NewSale(
		uuid.New(), &customerID,
		[]NewSaleItemInput{itemInput(1, 100.00)},
		decimal.NewFromInt(40),
		Payment{Type: PaymentTypeCredit, PaidUSD: decimal.Zero, PaidVES: decimal.Zero},
		0, tolerance, now,
	)
	require.NoError(t, err)
	s.ClearDomainEvents()

	require.NoError(t, s.SettlePayment(decimal.NewFromInt(40)))
	assert.Equal(t, "60.00", s.BalanceDueUSD.StringFixed(2))
	assert.Equal(t, SaleStatusCredit, s.Status)

	t.Run("rejects payment above balance", func(t *testing.T) {
		assert.Error(t, s.SettlePayment(decimal.NewFromInt(100)))
	})

	require.NoError(t, s.SettlePayment(decimal.NewFromInt(60)))
	assert.Equal(t, SaleStatusCompleted, s.Status)
	assert.True(t, s.BalanceDueUSD.IsZero())

	t.Run("rejects payment on completed sale", func(t *testing.T) {
		assert.Error(t, s.SettlePayment(decimal.NewFromInt(1)))
	})
}

func TestSale_DaysOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	customerID := uuid.New()

	s, err := NewSale(
		uuid.New(), &customerID,
		[]NewSaleItemInput{itemInput(1, 100.00)},
		decimal.NewFromInt(40),
		Payment{Type: PaymentTypeCredit, PaidUSD: decimal.Zero, PaidVES: decimal.Zero},
		10, tolerance, now,
	)
	require.NoError(t, err)

	assert.Equal(t, 0, s.DaysOverdue(now))
	assert.Equal(t, 0, s.DaysOverdue(now.AddDate(0, 0, 10)))
	assert.Equal(t, 3, s.DaysOverdue(now.AddDate(0, 0, 13)))
}

func TestSale_SecurityCodeLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	ttl := 5 * time.Minute
	customerID := uuid.New()

	newCreditSale := func(t *testing.T) *Sale {
		s, err := NewSale(
			uuid.New(), &customerID,
			[]NewSaleItemInput{itemInput(1, 100.00)},
			decimal.NewFromInt(40),
			Payment{Type: PaymentTypeCredit, PaidUSD: decimal.Zero, PaidVES: decimal.Zero},
			0, tolerance, now,
		)
		require.NoError(t, err)
		return s
	}

	t.Run("validates a fresh code once", func(t *testing.T) {
		s := newCreditSale(t)
		require.NoError(t, s.IssueSecurityCode("483920", now))

		require.NoError(t, s.ValidateSecurityCode("483920", now.Add(time.Minute), ttl))

		// Consumption clears the code, so replaying it finds nothing.
		assert.Empty(t, s.ConfirmationCode)
		assert.Nil(t, s.CodeIssuedAt)
		err := s.ValidateSecurityCode("483920", now.Add(2*time.Minute), ttl)
		require.ErrorIs(t, err, shared.ErrNoActiveCode)
	})

	t.Run("rejects expired code and discards it", func(t *testing.T) {
		s := newCreditSale(t)
		require.NoError(t, s.IssueSecurityCode("483920", now))

		err := s.ValidateSecurityCode("483920", now.Add(5*time.Minute+time.Second), ttl)
		require.ErrorIs(t, err, shared.ErrCodeExpired)

		// The expired code is gone; the next attempt needs a fresh issue.
		assert.Empty(t, s.ConfirmationCode)
		err = s.ValidateSecurityCode("483920", now.Add(6*time.Minute), ttl)
		require.ErrorIs(t, err, shared.ErrNoActiveCode)
	})

	t.Run("accepts code exactly at the expiry boundary", func(t *testing.T) {
		s := newCreditSale(t)
		require.NoError(t, s.IssueSecurityCode("483920", now))
		assert.NoError(t, s.ValidateSecurityCode("483920", now.Add(5*time.Minute), ttl))
	})

	t.Run("rejects wrong code without consuming", func(t *testing.T) {
		s := newCreditSale(t)
		require.NoError(t, s.IssueSecurityCode("483920", now))

		assert.Error(t, s.ValidateSecurityCode("000000", now.Add(time.Minute), ttl))
		assert.NoError(t, s.ValidateSecurityCode("483920", now.Add(2*time.Minute), ttl))
	})

	t.Run("rejects validation with no code issued", func(t *testing.T) {
		s := newCreditSale(t)
		assert.ErrorIs(t, s.ValidateSecurityCode("483920", now, ttl), shared.ErrNoActiveCode)
	})

	t.Run("reissue replaces the previous code", func(t *testing.T) {
		s := newCreditSale(t)
		require.NoError(t, s.IssueSecurityCode("111111", now))
		require.NoError(t, s.ValidateSecurityCode("111111", now.Add(time.Minute), ttl))

		require.NoError(t, s.IssueSecurityCode("222222", now.Add(2*time.Minute)))
		assert.Error(t, s.ValidateSecurityCode("111111", now.Add(3*time.Minute), ttl))
		assert.NoError(t, s.ValidateSecurityCode("222222", now.Add(3*time.Minute), ttl))
	})

	t.Run("rejects malformed code on issue", func(t *testing.T) {
		s := newCreditSale(t)
		assert.Error(t, s.IssueSecurityCode("12345", now))
	})
}
