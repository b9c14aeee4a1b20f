package partner

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ferrepos/backend/internal/domain/shared"
	"github.com/ferrepos/backend/internal/domain/shared/valueobject"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Customer represents a buyer with an optional credit line.
// CreditLimit and Balance are kept in USD; Balance is the outstanding
// debt accumulated by credit sales.
type Customer struct {
	shared.TenantAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Email       string          `gorm:"type:varchar(200);uniqueIndex:idx_customer_tenant_email,priority:2"`
	Phone       string          `gorm:"type:varchar(50)"`
	Address     string          `gorm:"type:text"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(tenantID uuid.UUID, name, email, phone, address string, creditLimit decimal.Decimal) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
	}
	if creditLimit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
	}

	customer := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Email:               email,
		Phone:               phone,
		Address:             address,
		CreditLimit:         creditLimit,
		Balance:             decimal.Zero,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// CustomerPatch carries the fields of a partial customer update.
// Nil fields are left untouched.
type CustomerPatch struct {
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	CreditLimit *decimal.Decimal
}

// IsEmpty returns true when the patch carries no changes
func (p CustomerPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil &&
		p.Address == nil && p.CreditLimit == nil
}

// ApplyPatch applies a partial update to the customer
func (c *Customer) ApplyPatch(patch CustomerPatch) error {
	if patch.IsEmpty() {
		return shared.NewDomainError("EMPTY_PATCH", "No fields to update")
	}
	if patch.Name != nil {
		if err := validateCustomerName(*patch.Name); err != nil {
			return err
		}
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		if *patch.Email != "" {
			if err := validateEmail(*patch.Email); err != nil {
				return err
			}
		}
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Address != nil {
		c.Address = *patch.Address
	}
	if patch.CreditLimit != nil {
		if patch.CreditLimit.IsNegative() {
			return shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
		}
		c.CreditLimit = *patch.CreditLimit
	}

	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// AvailableCredit returns the remaining credit headroom in USD
func (c *Customer) AvailableCredit() valueobject.Money {
	return valueobject.NewMoneyUSD(c.CreditLimit.Sub(c.Balance))
}

// CanAssumeDebt returns true if taking on the amount keeps the
// outstanding balance within the credit limit
func (c *Customer) CanAssumeDebt(amount decimal.Decimal) bool {
	return c.Balance.Add(amount).LessThanOrEqual(c.CreditLimit)
}

// AddDebt increases the outstanding balance by a credit sale's total
func (c *Customer) AddDebt(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Debt amount must be positive")
	}

	c.Balance = c.Balance.Add(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerDebtChangedEvent(c, amount))

	return nil
}

// SettleDebt reduces the outstanding balance by a received payment.
// The balance never goes below zero.
func (c *Customer) SettleDebt(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(c.Balance) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment exceeds outstanding balance")
	}

	c.Balance = c.Balance.Sub(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerDebtChangedEvent(c, amount.Neg()))

	return nil
}

// HasOutstandingDebt returns true when the customer owes anything
func (c *Customer) HasOutstandingDebt() bool {
	return c.Balance.IsPositive()
}

func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
