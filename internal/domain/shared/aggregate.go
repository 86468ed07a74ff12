package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseAggregateRoot is an entity with an optimistic-lock version and the
// events it raised since it was last published.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
	// version last read from or written to storage, zero if never stored
	persistedVersion int
}

// IncrementVersion bumps the version once per mutation.
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// PersistedVersion returns the version storage held when the aggregate was
// loaded or last written
func (a *BaseAggregateRoot) PersistedVersion() int {
	return a.persistedVersion
}

// MarkPersisted records that storage now holds the current version
func (a *BaseAggregateRoot) MarkPersisted() {
	a.persistedVersion = a.Version
}

// IsDirty reports whether the aggregate changed since it was persisted
func (a *BaseAggregateRoot) IsDirty() bool {
	return a.Version != a.persistedVersion
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot(now time.Time) BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(now),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// CompanyAggregateRoot extends BaseAggregateRoot with the owning company.
// Every record reachable by a caller is scoped through one of these.
type CompanyAggregateRoot struct {
	BaseAggregateRoot
	CompanyID uuid.UUID
	CreatedBy *uuid.UUID
}

// NewCompanyAggregateRoot creates a new company-scoped aggregate root
func NewCompanyAggregateRoot(companyID uuid.UUID, now time.Time) CompanyAggregateRoot {
	return CompanyAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(now),
		CompanyID:         companyID,
	}
}

// SetCreatedBy sets the creator user ID
func (c *CompanyAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	c.CreatedBy = &userID
}

// BelongsTo reports whether the aggregate is owned by companyID.
func (c *CompanyAggregateRoot) BelongsTo(companyID uuid.UUID) bool {
	return companyID != uuid.Nil && c.CompanyID == companyID
}
