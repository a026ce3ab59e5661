package swap

import (
	"context"

	"github.com/google/uuid"
)

// Update carries the fields a CompareAndSet may change. Nil fields are
// left untouched.
type Update struct {
	Status          *Status
	CounterpartSeen *bool
}

// Ledger defines persistence for swap requests. The negotiation engine
// is the only writer. GetByID returns (nil, nil) when the request does
// not exist. CompareAndSet semantics match slot.Store: version check,
// ErrVersionConflict on a lost race, bumped version and UpdatedAt on
// success. Resolved requests are retained for history, never deleted.
type Ledger interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, requestID uuid.UUID) (*Request, error)
	ListByProposer(ctx context.Context, proposerID uuid.UUID, limit, offset int) ([]*Request, error)
	ListPendingByCounterpart(ctx context.Context, counterpartID uuid.UUID, limit, offset int) ([]*Request, error)
	CompareAndSet(ctx context.Context, requestID uuid.UUID, expectedVersion int64, update Update) (*Request, error)
}
