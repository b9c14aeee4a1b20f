package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ferrepos/backend/internal/domain/partner"
	"github.com/ferrepos/backend/internal/domain/sale"
	"github.com/ferrepos/backend/internal/domain/shared"
)

// CustomerService handles customer business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	saleRepo     sale.SaleRepository
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	saleRepo sale.SaleRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID, creatorID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	if req.Email != "" {
		_, err := s.customerRepo.FindByEmail(ctx, tenantID, req.Email)
		if err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this email already exists")
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	customer, err := partner.NewCustomer(tenantID, req.Name, req.Email, req.Phone, req.Address, req.CreditLimit)
	if err != nil {
		return nil, err
	}
	customer.SetCreatedBy(creatorID)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
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
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.HasDebt != nil {
		domainFilter.Filters["has_debt"] = *filter.HasDebt
	}

	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a customer
func (s *CustomerService) Update(ctx context.Context, tenantID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != "" && *req.Email != customer.Email {
		_, err := s.customerRepo.FindByEmail(ctx, tenantID, *req.Email)
		if err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this email already exists")
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	patch := partner.CustomerPatch{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditLimit: req.CreditLimit,
	}
	if err := customer.ApplyPatch(patch); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer. Customers referenced by sales or carrying
// debt are kept.
func (s *CustomerService) Delete(ctx context.Context, tenantID, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return err
	}

	if customer.HasOutstandingDebt() {
		return shared.NewDomainError("HAS_DEBT", "Customer still owes an outstanding balance")
	}

	references, err := s.saleRepo.CountByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if references > 0 {
		return shared.ErrHasReferences
	}

	return s.customerRepo.DeleteForTenant(ctx, tenantID, customerID)
}

func (s *CustomerService) publishEvents(ctx context.Context, customer *partner.Customer) {
	if err := s.eventBus.Publish(ctx, customer.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish customer events", zap.Error(err))
	}
	customer.ClearDomainEvents()
}
