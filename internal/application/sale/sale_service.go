package sale

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ferrepos/backend/internal/domain/catalog"
	"github.com/ferrepos/backend/internal/domain/partner"
	"github.com/ferrepos/backend/internal/domain/sale"
	"github.com/ferrepos/backend/internal/domain/shared"
	"github.com/ferrepos/backend/internal/infrastructure/auth"
	"github.com/ferrepos/backend/internal/infrastructure/config"
	"github.com/ferrepos/backend/internal/infrastructure/telemetry"
)

// SaleService orchestrates the point-of-sale transaction. The exchange
// rate is fetched once before the transaction opens and frozen into the
// sale; everything that touches stock or customer balances happens
// inside a single database transaction.
type SaleService struct {
	saleRepo     sale.SaleRepository
	productRepo  catalog.ProductRepository
	customerRepo partner.CustomerRepository
	rateProvider sale.RateProvider
	txManager    shared.TransactionManager
	eventBus     shared.EventPublisher
	dailyCodes   *auth.DailyCodeService
	cfg          config.SalesConfig
	logger       *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo sale.SaleRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	rateProvider sale.RateProvider,
	txManager shared.TransactionManager,
	eventBus shared.EventPublisher,
	dailyCodes *auth.DailyCodeService,
	cfg config.SalesConfig,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		rateProvider: rateProvider,
		txManager:    txManager,
		eventBus:     eventBus,
		dailyCodes:   dailyCodes,
		cfg:          cfg,
		logger:       logger,
	}
}

// Create registers a sale atomically: stock is validated under row
// locks, credit is checked against the customer's limit, and stock
// decrements are guarded so concurrent sales can never oversell.
func (s *SaleService) Create(ctx context.Context, tenantID, sellerID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "create",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID))
	defer span.End()

	paymentType, err := sale.NormalizePaymentType(req.PaymentType)
	if err != nil {
		return nil, err
	}

	lines, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}

	// The rate is fetched before the transaction opens so a slow
	// provider never holds row locks. No fallback here: without a
	// trustworthy rate the sale is refused.
	quote, err := s.rateProvider.CurrentRate(ctx)
	if err != nil {
		s.logger.Error("rate fetch failed, refusing sale", zap.Error(err))
		return nil, shared.ErrUpstreamUnavailable
	}
	if !quote.IsUsable() {
		return nil, shared.ErrUpstreamUnavailable
	}

	creditDays := 0
	if req.CreditDays != nil {
		creditDays = *req.CreditDays
	}
	tolerance := decimal.NewFromFloat(s.cfg.PaymentToleranceUSD)
	now := time.Now().UTC()

	var created *sale.Sale
	var lowStock []catalog.Product

	err = s.txManager.Execute(ctx, func(txCtx context.Context) error {
		inputs := make([]sale.NewSaleItemInput, 0, len(lines))
		locked := make([]*catalog.Product, 0, len(lines))

		for _, line := range lines {
			product, err := s.productRepo.LockForSale(txCtx, tenantID, line.ProductID)
			if err != nil {
				return err
			}
			if !product.HasStockFor(line.Quantity) {
				return shared.ErrInsufficientStock
			}

			inputs = append(inputs, sale.NewSaleItemInput{
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.UnitPriceMoney(),
			})
			locked = append(locked, product)
		}

		newSale, err := sale.NewSale(tenantID, req.CustomerID, inputs, quote.Rate, sale.Payment{
			Type:    paymentType,
			PaidUSD: req.PaidUSD,
			PaidVES: req.PaidVES,
		}, creditDays, tolerance, now)
		if err != nil {
			return err
		}
		newSale.SetCreatedBy(sellerID)

		if newSale.IsCredit() {
			if err := s.assumeCustomerDebt(txCtx, tenantID, newSale, req.AdminCode, now); err != nil {
				return err
			}
		}

		for i, line := range lines {
			if err := s.productRepo.DecrementStock(txCtx, tenantID, line.ProductID, line.Quantity); err != nil {
				return err
			}
			if locked[i].Stock-line.Quantity <= s.cfg.RestockThreshold {
				remaining := *locked[i]
				remaining.Stock -= line.Quantity
				lowStock = append(lowStock, remaining)
			}
		}

		if err := s.saleRepo.Save(txCtx, newSale); err != nil {
			return err
		}

		created = newSale
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSaleID, created.ID,
		telemetry.SpanAttrPaymentType, string(paymentType),
		telemetry.SpanAttrTotalUSD, created.TotalUSD.String(),
		telemetry.SpanAttrRateSource, quote.Source)

	s.publishEvents(ctx, created)
	s.publishLowStockAlerts(ctx, lowStock)

	s.logger.Info("sale registered",
		zap.String("sale_id", created.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("payment_type", string(paymentType)),
		zap.String("total_usd", created.TotalUSD.String()),
		zap.String("rate_source", quote.Source))

	response := ToSaleResponse(created, now)
	response.RateSource = quote.Source
	return &response, nil
}

// assumeCustomerDebt moves a credit sale's open balance onto the locked
// customer. A valid admin code lifts the limit when overrides are
// enabled in configuration.
func (s *SaleService) assumeCustomerDebt(ctx context.Context, tenantID uuid.UUID, newSale *sale.Sale, adminCode string, now time.Time) error {
	customer, err := s.customerRepo.LockForCredit(ctx, tenantID, *newSale.CustomerID)
	if err != nil {
		return err
	}

	if !customer.CanAssumeDebt(newSale.BalanceDueUSD) {
		overridden := s.cfg.AllowCreditOverride && adminCode != "" &&
			s.dailyCodes.Verify(tenantID, adminCode, now)
		if !overridden {
			return shared.ErrCreditLimitExceeded
		}
		s.logger.Warn("credit limit overridden by admin code",
			zap.String("customer_id", customer.ID.String()),
			zap.String("balance_due", newSale.BalanceDueUSD.String()))
	}

	if err := customer.AddDebt(newSale.BalanceDueUSD); err != nil {
		return err
	}
	return s.customerRepo.Save(ctx, customer)
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleResponse, error) {
	found, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(found, time.Now().UTC())
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, tenantID uuid.UUID, filter SaleListFilter) ([]SaleResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.SellerID != uuid.Nil {
		domainFilter.Filters["created_by"] = filter.SellerID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentType != "" {
		domainFilter.Filters["payment_type"] = filter.PaymentType
	}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "customer_id is not a valid UUID")
		}
		domainFilter.Filters["customer_id"] = customerID
	}
	if filter.From != "" {
		from, err := time.Parse("2006-01-02", filter.From)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "from must be a YYYY-MM-DD date")
		}
		domainFilter.Filters["from"] = from
	}
	if filter.To != "" {
		to, err := time.Parse("2006-01-02", filter.To)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "to must be a YYYY-MM-DD date")
		}
		domainFilter.Filters["to"] = to.AddDate(0, 0, 1)
	}

	sales, err := s.saleRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.saleRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i], now)
	}
	return responses, total, nil
}

// PendingCredits lists credit sales with an open balance, days overdue
// computed server-side.
func (s *SaleService) PendingCredits(ctx context.Context, tenantID uuid.UUID) ([]SaleResponse, error) {
	sales, err := s.saleRepo.FindPendingCredits(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	responses := make([]SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i], now)
	}
	return responses, nil
}

// SettleCredit applies a received payment against a credit sale and the
// customer's outstanding balance in one transaction.
func (s *SaleService) SettleCredit(ctx context.Context, tenantID, saleID uuid.UUID, req SettleCreditRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "settle_credit",
		telemetry.WithAttribute(telemetry.SpanAttrSaleID, saleID))
	defer span.End()

	var settled *sale.Sale

	err := s.txManager.Execute(ctx, func(txCtx context.Context) error {
		found, err := s.saleRepo.FindByIDForTenant(txCtx, tenantID, saleID)
		if err != nil {
			return err
		}

		if err := found.SettlePayment(req.AmountUSD); err != nil {
			return err
		}

		if found.CustomerID != nil {
			customer, err := s.customerRepo.LockForCredit(txCtx, tenantID, *found.CustomerID)
			if err != nil {
				return err
			}
			if err := customer.SettleDebt(req.AmountUSD); err != nil {
				return err
			}
			if err := s.customerRepo.Save(txCtx, customer); err != nil {
				return err
			}
		}

		if err := s.saleRepo.SaveWithLock(txCtx, found); err != nil {
			return err
		}

		settled = found
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishEvents(ctx, settled)

	response := ToSaleResponse(settled, time.Now().UTC())
	return &response, nil
}

// IssueSecurityCode attaches a fresh single-use confirmation code to a
// sale and returns it with its expiry.
func (s *SaleService) IssueSecurityCode(ctx context.Context, tenantID, saleID uuid.UUID) (*SecurityCodeResponse, error) {
	code, err := auth.GenerateSecurityCode()
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate security code")
	}

	now := time.Now().UTC()

	err = s.txManager.Execute(ctx, func(txCtx context.Context) error {
		found, err := s.saleRepo.FindByIDForTenant(txCtx, tenantID, saleID)
		if err != nil {
			return err
		}
		if err := found.IssueSecurityCode(code, now); err != nil {
			return err
		}
		return s.saleRepo.SaveWithLock(txCtx, found)
	})
	if err != nil {
		return nil, err
	}

	return &SecurityCodeResponse{
		SaleID:    saleID,
		Code:      code,
		ExpiresAt: now.Add(s.cfg.SecurityCodeTTL),
	}, nil
}

// ValidateSecurityCode checks a presented code and consumes it on
// success. A wrong code leaves the stored one in place for another
// attempt inside the window.
func (s *SaleService) ValidateSecurityCode(ctx context.Context, tenantID, saleID uuid.UUID, req ValidateCodeRequest) error {
	now := time.Now().UTC()

	// Expiry discards the stored code, and that discard must commit even
	// though the validation itself fails, so the next attempt reports no
	// active code. The domain error is carried past the transaction.
	var validateErr error
	err := s.txManager.Execute(ctx, func(txCtx context.Context) error {
		found, err := s.saleRepo.FindByIDForTenant(txCtx, tenantID, saleID)
		if err != nil {
			return err
		}
		validateErr = found.ValidateSecurityCode(req.Code, now, s.cfg.SecurityCodeTTL)
		if validateErr != nil && !errors.Is(validateErr, shared.ErrCodeExpired) {
			return validateErr
		}
		return s.saleRepo.SaveWithLock(txCtx, found)
	})
	if err != nil {
		return err
	}
	return validateErr
}

// DailyCode returns the rotating admin override code for the tenant
func (s *SaleService) DailyCode(tenantID uuid.UUID) DailyCodeResponse {
	now := time.Now().UTC()
	return DailyCodeResponse{
		Code:     s.dailyCodes.CodeFor(tenantID, now),
		ValidFor: now.Format("2006-01-02"),
	}
}

func (s *SaleService) publishEvents(ctx context.Context, created *sale.Sale) {
	if created == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, created.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish sale events", zap.Error(err))
	}
	created.ClearDomainEvents()
}

// publishLowStockAlerts fires alerts for products a sale just drained.
// The sale is already committed; alert failures only get logged.
func (s *SaleService) publishLowStockAlerts(ctx context.Context, products []catalog.Product) {
	for i := range products {
		event := catalog.NewProductLowStockEvent(&products[i], s.cfg.RestockThreshold)
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish low stock alert",
				zap.String("product_id", products[i].ID.String()),
				zap.Error(err))
		}
	}
}

// mergeLines collapses duplicate product lines, locking each product
// once. Lines are locked in a stable ID order so two concurrent sales
// of the same products cannot deadlock.
func mergeLines(items []SaleItemRequest) ([]SaleItemRequest, error) {
	merged := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be greater than zero")
		}
		merged[item.ProductID] += item.Quantity
	}

	lines := make([]SaleItemRequest, 0, len(merged))
	for productID, quantity := range merged {
		lines = append(lines, SaleItemRequest{ProductID: productID, Quantity: quantity})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ProductID.String() < lines[j].ProductID.String()
	})
	return lines, nil
}
