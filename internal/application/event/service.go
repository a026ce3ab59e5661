package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/slotswap/slotswap/internal/domain/slot"
)

// Service handles plain calendar slot CRUD. Exchange status here may
// only toggle between BUSY and SWAPPABLE; SWAP_PENDING is owned by the
// negotiation engine and a locked slot rejects every mutation.
type Service struct {
	slots  slot.Store
	logger zerolog.Logger
}

func NewService(slots slot.Store, logger zerolog.Logger) *Service {
	return &Service{
		slots:  slots,
		logger: logger.With().Str("service", "event").Logger(),
	}
}

// Update carries caller-editable slot fields.
type Update struct {
	Title   *string
	StartAt *time.Time
	EndAt   *time.Time
	Status  *slot.Status
}

// Create adds a BUSY slot to the caller's calendar.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, title string, startAt, endAt time.Time) (*slot.Slot, error) {
	sl, err := slot.New(ownerID, title, startAt, endAt)
	if err != nil {
		return nil, err
	}
	if err := s.slots.Create(ctx, sl); err != nil {
		return nil, err
	}
	s.logger.Info().Str("slot_id", sl.SlotID.String()).Msg("slot created")
	return sl, nil
}

// ListMine returns the caller's slots ordered by start time.
func (s *Service) ListMine(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*slot.Slot, error) {
	return s.slots.ListByOwner(ctx, ownerID, limit, offset)
}

// Get returns one slot; only the owner may read it through this path.
func (s *Service) Get(ctx context.Context, callerID, slotID uuid.UUID) (*slot.Slot, error) {
	sl, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if sl == nil {
		return nil, slot.ErrNotFound
	}
	if sl.OwnerID != callerID {
		return nil, slot.ErrNotOwner
	}
	return sl, nil
}

// UpdateSlot edits an owned slot. A slot referenced by a live swap
// request cannot be edited until the negotiation resolves.
func (s *Service) UpdateSlot(ctx context.Context, callerID, slotID uuid.UUID, update Update) (*slot.Slot, error) {
	sl, err := s.Get(ctx, callerID, slotID)
	if err != nil {
		return nil, err
	}
	if sl.IsLocked() {
		return nil, slot.ErrSwapLocked
	}
	if update.Status != nil {
		if err := slot.ValidateStatus(*update.Status); err != nil {
			return nil, err
		}
		if *update.Status == slot.StatusSwapPending {
			return nil, slot.ErrSwapLocked
		}
	}
	startAt := sl.StartAt
	endAt := sl.EndAt
	if update.StartAt != nil {
		startAt = *update.StartAt
	}
	if update.EndAt != nil {
		endAt = *update.EndAt
	}
	if !startAt.Before(endAt) {
		return nil, slot.ErrInvalidRange
	}
	return s.slots.CompareAndSet(ctx, sl.SlotID, sl.Version, slot.Update{
		Title:   update.Title,
		StartAt: update.StartAt,
		EndAt:   update.EndAt,
		Status:  update.Status,
	})
}

// Delete removes an owned slot. Refused while a swap is pending on it.
// The delete carries the version read above, so a negotiation that
// locks the slot between the check and the delete wins the race and
// the delete fails with ErrVersionConflict instead of removing a
// SWAP_PENDING slot out from under a live request.
func (s *Service) Delete(ctx context.Context, callerID, slotID uuid.UUID) error {
	sl, err := s.Get(ctx, callerID, slotID)
	if err != nil {
		return err
	}
	if sl.IsLocked() {
		return slot.ErrSwapLocked
	}
	return s.slots.Delete(ctx, sl.SlotID, sl.Version)
}
