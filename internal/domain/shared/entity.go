package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and audit timestamps.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a fresh id at now.
func NewBaseEntity(now time.Time) BaseEntity {
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch records a modification at now. Clock skew never moves UpdatedAt
// backwards.
func (e *BaseEntity) Touch(now time.Time) {
	if now.After(e.UpdatedAt) {
		e.UpdatedAt = now
	}
}
