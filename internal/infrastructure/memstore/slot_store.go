package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slotswap/slotswap/internal/domain/slot"
)

// SlotStore is an in-memory slot.Store with the same compare-and-set
// semantics as the postgres implementation. Used by tests and when the
// service runs without a database.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[uuid.UUID]*slot.Slot
}

func NewSlotStore() *SlotStore {
	return &SlotStore{slots: make(map[uuid.UUID]*slot.Slot)}
}

func (s *SlotStore) Create(ctx context.Context, sl *slot.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sl
	s.slots[sl.SlotID] = &cp
	return nil
}

func (s *SlotStore) GetByID(ctx context.Context, slotID uuid.UUID) (*slot.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[slotID]
	if !ok {
		return nil, nil
	}
	cp := *sl
	return &cp, nil
}

func (s *SlotStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*slot.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*slot.Slot
	for _, sl := range s.slots {
		if sl.OwnerID == ownerID {
			cp := *sl
			out = append(out, &cp)
		}
	}
	sortByStart(out)
	return page(out, limit, offset), nil
}

func (s *SlotStore) ListSwappableExcluding(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*slot.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*slot.Slot
	for _, sl := range s.slots {
		if sl.Status == slot.StatusSwappable && sl.OwnerID != ownerID {
			cp := *sl
			out = append(out, &cp)
		}
	}
	sortByStart(out)
	return page(out, limit, offset), nil
}

func (s *SlotStore) CompareAndSet(ctx context.Context, slotID uuid.UUID, expectedVersion int64, update slot.Update) (*slot.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.slots[slotID]
	if !ok {
		return nil, slot.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return nil, slot.ErrVersionConflict
	}
	if update.OwnerID != nil {
		cur.OwnerID = *update.OwnerID
	}
	if update.Title != nil {
		cur.Title = *update.Title
	}
	if update.StartAt != nil {
		cur.StartAt = *update.StartAt
	}
	if update.EndAt != nil {
		cur.EndAt = *update.EndAt
	}
	if update.Status != nil {
		cur.Status = *update.Status
	}
	cur.Version++
	cur.UpdatedAt = time.Now().UTC()
	cp := *cur
	return &cp, nil
}

func (s *SlotStore) Delete(ctx context.Context, slotID uuid.UUID, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.slots[slotID]
	if !ok {
		return slot.ErrNotFound
	}
	if cur.Version != expectedVersion {
		return slot.ErrVersionConflict
	}
	delete(s.slots, slotID)
	return nil
}

func sortByStart(slots []*slot.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].StartAt.Equal(slots[j].StartAt) {
			return slots[i].SlotID.String() < slots[j].SlotID.String()
		}
		return slots[i].StartAt.Before(slots[j].StartAt)
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
