package persistence

import (
	"context"
	"strings"

	"github.com/debtbook/backend/internal/domain/ledger"
	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/debtbook/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const duplicateClientMsg = "client with this name or phone already exists"

// GormClientRepository implements ledger.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByIDForCompany finds a client by ID within a company
func (r *GormClientRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*ledger.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err, duplicateClientMsg)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a client by ID within a company and locks its row
func (r *GormClientRepository) FindByIDForUpdate(ctx context.Context, companyID, id uuid.UUID) (*ledger.Client, error) {
	var model models.ClientModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err, duplicateClientMsg)
	}
	return model.ToDomain(), nil
}

// FindAllForCompany returns one page of a company's clients and the total
// count. Search matches name or phone, case-insensitively.
func (r *GormClientRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]ledger.Client, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Where("company_id = ?", companyID)
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(phone) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ClientModel
	if err := query.
		Order(orderClause("clients", filter.OrderBy, filter.OrderDir, ClientSortFields, "created_at", "ASC")).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	clients := make([]ledger.Client, len(rows))
	for i := range rows {
		clients[i] = *rows[i].ToDomain()
	}
	return clients, total, nil
}

// ExistsByName checks whether the company already has a client named name
func (r *GormClientRepository) ExistsByName(ctx context.Context, companyID uuid.UUID, name string) (bool, error) {
	return r.exists(ctx, "company_id = ? AND name = ?", companyID, name)
}

// ExistsByPhone checks whether the company already has a client with phone
func (r *GormClientRepository) ExistsByPhone(ctx context.Context, companyID uuid.UUID, phone string) (bool, error) {
	return r.exists(ctx, "company_id = ? AND phone = ?", companyID, phone)
}

func (r *GormClientRepository) exists(ctx context.Context, where string, args ...any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Where(where, args...).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new client
func (r *GormClientRepository) Create(ctx context.Context, client *ledger.Client) error {
	if err := r.db.WithContext(ctx).Create(models.ClientModelFromDomain(client)).Error; err != nil {
		return translateError(err, duplicateClientMsg)
	}
	client.MarkPersisted()
	return nil
}

// Save updates an existing client if storage still holds the version it
// was loaded at
func (r *GormClientRepository) Save(ctx context.Context, client *ledger.Client) error {
	result := r.db.WithContext(ctx).Model(&models.ClientModel{}).
		Where("id = ? AND version = ?", client.ID, client.PersistedVersion()).
		Updates(map[string]any{
			"name":       client.Name,
			"phone":      client.Phone,
			"balance":    client.Balance,
			"version":    client.Version,
			"updated_at": client.UpdatedAt,
		})
	if result.Error != nil {
		return translateError(result.Error, duplicateClientMsg)
	}
	if result.RowsAffected == 0 {
		return conflictError("client")
	}
	client.MarkPersisted()
	return nil
}

var _ ledger.ClientRepository = (*GormClientRepository)(nil)
