package slot

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Update carries the fields a CompareAndSet may change. Nil fields are
// left untouched.
type Update struct {
	OwnerID *uuid.UUID
	Title   *string
	StartAt *time.Time
	EndAt   *time.Time
	Status  *Status
}

// Store defines persistence for slots. GetByID returns (nil, nil) when
// the slot does not exist. CompareAndSet applies the update only if the
// stored version equals expectedVersion, bumping the version and
// UpdatedAt; it returns ErrVersionConflict when the check fails and
// ErrNotFound when the slot is missing. Delete carries the same version
// check so a slot cannot be removed past a concurrent status flip.
type Store interface {
	Create(ctx context.Context, s *Slot) error
	GetByID(ctx context.Context, slotID uuid.UUID) (*Slot, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Slot, error)
	ListSwappableExcluding(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Slot, error)
	CompareAndSet(ctx context.Context, slotID uuid.UUID, expectedVersion int64, update Update) (*Slot, error)
	Delete(ctx context.Context, slotID uuid.UUID, expectedVersion int64) error
}
