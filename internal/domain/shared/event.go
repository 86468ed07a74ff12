package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact about a ledger aggregate, stamped with the company
// that owns it so subscribers never need to look the aggregate up.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	CompanyID() uuid.UUID
}

// BaseDomainEvent is embedded by every concrete event. Fields are exported
// for JSON only; callers go through the DomainEvent methods.
type BaseDomainEvent struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	At          time.Time `json:"occurred_at"`
	Aggregate   uuid.UUID `json:"aggregate_id"`
	AggregateOf string    `json:"aggregate_type"`
	Company     uuid.UUID `json:"company_id"`
}

func NewBaseDomainEvent(eventType, aggregateType string, aggregateID, companyID uuid.UUID, at time.Time) BaseDomainEvent {
	return BaseDomainEvent{
		ID:          uuid.New(),
		Type:        eventType,
		At:          at,
		Aggregate:   aggregateID,
		AggregateOf: aggregateType,
		Company:     companyID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.At }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Aggregate }
func (e *BaseDomainEvent) AggregateType() string  { return e.AggregateOf }
func (e *BaseDomainEvent) CompanyID() uuid.UUID   { return e.Company }
