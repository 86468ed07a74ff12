package models

import (
	"time"

	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel holds the columns every ledger table shares.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	*m = BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// AggregateModel adds the version column that guarded updates compare
// against.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToDomainAggregateRoot rebuilds the root as loaded, so IsDirty reports false
// until the domain mutates it.
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	root := shared.BaseAggregateRoot{BaseEntity: m.ToDomain(), Version: m.Version}
	root.MarkPersisted()
	return root
}
