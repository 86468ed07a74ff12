package persistence

import (
	"context"

	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/debtbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements ledger.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func paymentCompanyScope(companyID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		debts := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.DebtModel{}).
			Select("debts.id").
			Joins("JOIN clients ON clients.id = debts.client_id").
			Where("clients.company_id = ?", companyID)
		return db.Where("payments.debt_id IN (?)", debts)
	}
}

// FindByIDForCompany finds a payment by ID within a company
func (r *GormPaymentRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).
		Scopes(paymentCompanyScope(companyID)).
		Where("payments.id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "payment already exists")
	}
	return model.ToDomain(), nil
}

// FindAllForCompany returns one page of a company's payments, newest first
// unless the filter asks otherwise
func (r *GormPaymentRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]ledger.Payment, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Scopes(paymentCompanyScope(companyID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PaymentModel
	if err := query.
		Order(orderClause("payments", filter.OrderBy, filter.OrderDir, PaymentSortFields, "created_at", "DESC")).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return paymentsToDomain(rows), total, nil
}

// FindByDebt returns the payments of a debt in the order they were made
func (r *GormPaymentRepository) FindByDebt(ctx context.Context, debtID uuid.UUID) ([]ledger.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("debt_id = ?", debtID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return paymentsToDomain(rows), nil
}

// Create inserts a payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *ledger.Payment) error {
	if err := r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(payment)).Error; err != nil {
		return translateError(err, "payment already exists")
	}
	return nil
}

func paymentsToDomain(rows []models.PaymentModel) []ledger.Payment {
	payments := make([]ledger.Payment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments
}

var _ ledger.PaymentRepository = (*GormPaymentRepository)(nil)
