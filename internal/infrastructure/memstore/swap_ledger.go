package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slotswap/slotswap/internal/domain/swap"
)

// SwapLedger is an in-memory swap.Ledger.
type SwapLedger struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]*swap.Request
}

func NewSwapLedger() *SwapLedger {
	return &SwapLedger{requests: make(map[uuid.UUID]*swap.Request)}
}

func (l *SwapLedger) Create(ctx context.Context, r *swap.Request) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *r
	l.requests[r.RequestID] = &cp
	return nil
}

func (l *SwapLedger) GetByID(ctx context.Context, requestID uuid.UUID) (*swap.Request, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.requests[requestID]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (l *SwapLedger) ListByProposer(ctx context.Context, proposerID uuid.UUID, limit, offset int) ([]*swap.Request, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []*swap.Request
	for _, r := range l.requests {
		if r.ProposerID == proposerID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sortByCreated(out)
	return page(out, limit, offset), nil
}

func (l *SwapLedger) ListPendingByCounterpart(ctx context.Context, counterpartID uuid.UUID, limit, offset int) ([]*swap.Request, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []*swap.Request
	for _, r := range l.requests {
		if r.CounterpartID == counterpartID && r.Status == swap.StatusPending {
			cp := *r
			out = append(out, &cp)
		}
	}
	sortByCreated(out)
	return page(out, limit, offset), nil
}

func (l *SwapLedger) CompareAndSet(ctx context.Context, requestID uuid.UUID, expectedVersion int64, update swap.Update) (*swap.Request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur, ok := l.requests[requestID]
	if !ok {
		return nil, swap.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return nil, swap.ErrVersionConflict
	}
	if update.Status != nil {
		cur.Status = *update.Status
	}
	if update.CounterpartSeen != nil {
		cur.CounterpartSeen = *update.CounterpartSeen
	}
	cur.Version++
	cur.UpdatedAt = time.Now().UTC()
	cp := *cur
	return &cp, nil
}

func sortByCreated(requests []*swap.Request) {
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].RequestID.String() < requests[j].RequestID.String()
		}
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}
