package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ferrepos/backend/internal/domain/catalog"
	"github.com/ferrepos/backend/internal/domain/sale"
	"github.com/ferrepos/backend/internal/domain/shared"
)

// ProductService handles catalog business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	saleRepo    sale.SaleRepository
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	saleRepo sale.SaleRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, creatorID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	_, err := s.productRepo.FindByName(ctx, tenantID, req.Name)
	if err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this name already exists")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err := catalog.NewProduct(tenantID, req.Name, req.Description, req.Category, req.UnitPrice, req.Stock, req.ImageURL)
	if err != nil {
		return nil, err
	}
	product.SetCreatedBy(creatorID)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
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
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != product.Name {
		_, err := s.productRepo.FindByName(ctx, tenantID, *req.Name)
		if err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this name already exists")
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	patch := catalog.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		UnitPrice:   req.UnitPrice,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	}
	if err := product.ApplyPatch(patch); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// LowStock lists products whose stock is at or below the threshold
func (s *ProductService) LowStock(ctx context.Context, tenantID uuid.UUID, threshold int) ([]ProductResponse, error) {
	products, err := s.productRepo.FindBelowStock(ctx, tenantID, threshold)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, nil
}

// Delete removes a product. Products referenced by past sales are kept
// so sale history stays intact.
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return err
	}

	references, err := s.saleRepo.CountByProduct(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if references > 0 {
		return shared.ErrHasReferences
	}

	return s.productRepo.DeleteForTenant(ctx, tenantID, productID)
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if err := s.eventBus.Publish(ctx, product.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish product events", zap.Error(err))
	}
	product.ClearDomainEvents()
}
