package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ferrepos/backend/internal/domain/sale"
	"github.com/ferrepos/backend/internal/domain/shared"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) conn(ctx context.Context) *gorm.DB {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}

// FindByIDForTenant finds a sale with its items within a tenant
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sale.Sale, error) {
	var s sale.Sale
	if err := r.conn(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAllForTenant finds all sales for a tenant
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sale.Sale, error) {
	var sales []sale.Sale
	query := r.applyFilter(r.conn(ctx).Model(&sale.Sale{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Preload("Items").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// FindPendingCredits finds credit sales with an open balance, oldest due first
func (r *GormSaleRepository) FindPendingCredits(ctx context.Context, tenantID uuid.UUID) ([]sale.Sale, error) {
	var sales []sale.Sale
	if err := r.conn(ctx).
		Preload("Items").
		Where("tenant_id = ? AND status = ? AND balance_due_usd > 0", tenantID, sale.SaleStatusCredit).
		Order("due_date ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Save creates or updates a sale with its items
func (r *GormSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	return translateError(r.conn(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(s).Error)
}

// SaveWithLock updates a sale's settlement fields guarded by its
// optimistic version. Items are immutable after creation and are not
// touched here.
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, s *sale.Sale) error {
	result := r.conn(ctx).Model(&sale.Sale{}).
		Where("tenant_id = ? AND id = ? AND version = ?", s.TenantID, s.ID, s.Version-1).
		Updates(map[string]interface{}{
			"status":            s.Status,
			"paid_usd":          s.PaidUSD,
			"paid_ves":          s.PaidVES,
			"balance_due_usd":   s.BalanceDueUSD,
			"confirmation_code": s.ConfirmationCode,
			"code_issued_at":    s.CodeIssuedAt,
			"version":           s.Version,
			"updated_at":        s.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountByProduct counts sale items referencing a product
func (r *GormSaleRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&sale.SaleItem{}).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCustomer counts sales referencing a customer
func (r *GormSaleRepository) CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&sale.Sale{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForTenant counts sales for a tenant
func (r *GormSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.conn(ctx).Model(&sale.Sale{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_type":
			query = query.Where("payment_type = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "created_by":
			query = query.Where("created_by = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at < ?", value)
		}
	}
	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ sale.SaleRepository = (*GormSaleRepository)(nil)
