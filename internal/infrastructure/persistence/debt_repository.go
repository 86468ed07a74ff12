package persistence

import (
	"context"

	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dateLayout is how dates are bound in comparisons so that PostgreSQL
// DATE columns and SQLite text dates compare the same way.
const dateLayout = "2006-01-02"

// GormDebtRepository implements ledger.DebtRepository using GORM
type GormDebtRepository struct {
	db *gorm.DB
}

// NewGormDebtRepository creates a new GormDebtRepository
func NewGormDebtRepository(db *gorm.DB) *GormDebtRepository {
	return &GormDebtRepository{db: db}
}

// companyScope limits a debt query to debts whose client belongs to companyID
func companyScope(companyID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("debts.client_id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&models.ClientModel{}).
				Select("id").
				Where("company_id = ?", companyID))
	}
}

// FindByIDForCompany finds a debt by ID within a company
func (r *GormDebtRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.Debt, error) {
	var model models.DebtModel
	if err := r.db.WithContext(ctx).
		Scopes(companyScope(companyID)).
		Where("debts.id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "debt already exists")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a debt by ID within a company and locks its row.
// Only the debt row is locked; callers lock the client afterwards.
func (r *GormDebtRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*ledger.Debt, error) {
	var model models.DebtModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(companyScope(companyID)).
		Where("debts.id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "debt already exists")
	}
	return model.ToDomain(), nil
}

// FindAllForCompany returns one page of a company's debts in creation
// order and the total number matching the filter
func (r *GormDebtRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter ledger.DebtFilter) ([]ledger.Debt, int64, error) {
	page := filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.DebtModel{}).
		Scopes(companyScope(companyID))
	if filter.ClientID != nil {
		query = query.Where("debts.client_id = ?", *filter.ClientID)
	}
	if filter.Kind == ledger.DebtFilterOverdue {
		query = query.Where("debts.is_paid = ? AND debts.due_date < ?",
			false, ledger.DateOf(filter.Today).Format(dateLayout))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.DebtModel
	if err := query.
		Order("debts.created_at ASC, debts.id ASC").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return debtsToDomain(rows), total, nil
}

// FindByClient returns every debt of a client in creation order
func (r *GormDebtRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]ledger.Debt, error) {
	var rows []models.DebtModel
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return debtsToDomain(rows), nil
}

// Create inserts a new debt. The owning client is saved separately.
func (r *GormDebtRepository) Create(ctx context.Context, debt *ledger.Debt) error {
	if err := r.db.WithContext(ctx).Create(models.DebtModelFromDomain(debt)).Error; err != nil {
		return translateError(err, "debt already exists")
	}
	debt.MarkPersisted()
	return nil
}

// Save updates the mutable columns of an existing debt if storage still
// holds the version it was loaded at. Client and total are never written.
func (r *GormDebtRepository) Save(ctx context.Context, debt *ledger.Debt) error {
	result := r.db.WithContext(ctx).Model(&models.DebtModel{}).
		Where("id = ? AND version = ?", debt.ID, debt.PersistedVersion()).
		Updates(map[string]any{
			"remaining_amount": debt.RemainingAmount,
			"is_paid":          debt.IsPaid,
			"version":          debt.Version,
			"updated_at":       debt.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return conflictError("debt")
	}
	debt.MarkPersisted()
	return nil
}

func debtsToDomain(rows []models.DebtModel) []ledger.Debt {
	debts := make([]ledger.Debt, len(rows))
	for i := range rows {
		debts[i] = *rows[i].ToDomain()
	}
	return debts
}

var _ ledger.DebtRepository = (*GormDebtRepository)(nil)
