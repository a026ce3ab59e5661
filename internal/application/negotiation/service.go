package negotiation

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/slotswap/slotswap/internal/domain/notification"
	"github.com/slotswap/slotswap/internal/domain/slot"
	"github.com/slotswap/slotswap/internal/domain/swap"
	"github.com/slotswap/slotswap/internal/domain/user"
)

var (
	ErrSelfSwap     = errors.New("cannot swap two slots with the same owner")
	ErrNotResponder = errors.New("only the counterpart may respond to this request")
	ErrConflict     = errors.New("negotiation lost a concurrent update, try again")
)

// NewSwapRequestEvent is the payload of a newSwapRequest notification.
type NewSwapRequestEvent struct {
	ID   uuid.UUID `json:"id"`
	From string    `json:"from"`
	Slot string    `json:"slot"`
}

// SwapRequestUpdateEvent is the payload of a swapRequestUpdate notification.
type SwapRequestUpdateEvent struct {
	RequestID uuid.UUID   `json:"requestId"`
	Status    swap.Status `json:"status"`
	Slot      string      `json:"slot"`
}

// Service is the negotiation engine: the only writer of slot exchange
// status and swap request state.
//
// Every propose/respond commit runs under the write lock so the
// check-then-mutate sequence over a request and its two slots is a
// single unit, and list reads run under the read lock so no reader
// observes exactly one of the two slots mid-flip. The store
// CompareAndSet calls additionally carry the versions read inside the
// critical section; a version conflict means some writer outside the
// engine touched a record, in which case already-applied writes are
// compensated and the operation fails with ErrConflict.
type Service struct {
	mu        sync.RWMutex
	slots     slot.Store
	ledger    swap.Ledger
	users     user.Repository
	publisher notification.Publisher
	logger    zerolog.Logger
}

// NewService creates the negotiation engine. publisher may be nil, in
// which case state transitions commit without emitting notifications.
func NewService(slots slot.Store, ledger swap.Ledger, users user.Repository, publisher notification.Publisher, logger zerolog.Logger) *Service {
	return &Service{
		slots:     slots,
		ledger:    ledger,
		users:     users,
		publisher: publisher,
		logger:    logger.With().Str("service", "negotiation").Logger(),
	}
}

// ProposeSwap creates a PENDING swap request between the proposer's
// slot and the counterpart's slot and flips both slots to SWAP_PENDING
// as one atomic unit. On success a newSwapRequest notification is
// published to the counterpart.
func (s *Service) ProposeSwap(ctx context.Context, proposerID, proposerSlotID, counterpartSlotID uuid.UUID) (*swap.Request, error) {
	if proposerSlotID == counterpartSlotID {
		return nil, ErrSelfSwap
	}

	s.mu.Lock()
	req, label, err := s.proposeLocked(ctx, proposerID, proposerSlotID, counterpartSlotID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.publishNewRequest(ctx, req, label)
	return req, nil
}

func (s *Service) proposeLocked(ctx context.Context, proposerID, proposerSlotID, counterpartSlotID uuid.UUID) (*swap.Request, string, error) {
	mine, err := s.slots.GetByID(ctx, proposerSlotID)
	if err != nil {
		return nil, "", err
	}
	theirs, err := s.slots.GetByID(ctx, counterpartSlotID)
	if err != nil {
		return nil, "", err
	}
	if mine == nil || theirs == nil {
		return nil, "", slot.ErrNotFound
	}
	if mine.OwnerID != proposerID {
		return nil, "", slot.ErrNotOwner
	}
	if mine.OwnerID == theirs.OwnerID {
		return nil, "", ErrSelfSwap
	}
	if !mine.IsSwappable() || !theirs.IsSwappable() {
		return nil, "", slot.ErrNotSwappable
	}

	pending := slot.StatusSwapPending
	lockedMine, err := s.slots.CompareAndSet(ctx, mine.SlotID, mine.Version, slot.Update{Status: &pending})
	if err != nil {
		return nil, "", casError(err)
	}
	lockedTheirs, err := s.slots.CompareAndSet(ctx, theirs.SlotID, theirs.Version, slot.Update{Status: &pending})
	if err != nil {
		s.revertSlot(ctx, lockedMine, slot.Update{Status: statusPtr(slot.StatusSwappable)})
		return nil, "", casError(err)
	}

	req := swap.NewRequest(mine.OwnerID, theirs.OwnerID, mine.SlotID, theirs.SlotID)
	if err := s.ledger.Create(ctx, req); err != nil {
		s.revertSlot(ctx, lockedMine, slot.Update{Status: statusPtr(slot.StatusSwappable)})
		s.revertSlot(ctx, lockedTheirs, slot.Update{Status: statusPtr(slot.StatusSwappable)})
		return nil, "", err
	}

	s.logger.Info().
		Str("request_id", req.RequestID.String()).
		Str("proposer_slot", mine.SlotID.String()).
		Str("counterpart_slot", theirs.SlotID.String()).
		Msg("swap proposed")
	return req, mine.Label(), nil
}

// RespondToSwap resolves a pending request. ACCEPT swaps the two slots'
// owners and returns both to BUSY; REJECT returns both to SWAPPABLE
// without touching ownership. Only the counterpart may respond, and a
// resolved request deterministically fails with ErrAlreadyResolved. On
// success a swapRequestUpdate notification is published to the proposer.
func (s *Service) RespondToSwap(ctx context.Context, responderID, requestID uuid.UUID, decision swap.Decision) (*swap.Request, error) {
	target, err := swap.StatusForDecision(decision)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	req, label, err := s.respondLocked(ctx, responderID, requestID, target)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.publishUpdate(ctx, req, label)
	return req, nil
}

func (s *Service) respondLocked(ctx context.Context, responderID, requestID uuid.UUID, target swap.Status) (*swap.Request, string, error) {
	req, err := s.ledger.GetByID(ctx, requestID)
	if err != nil {
		return nil, "", err
	}
	if req == nil {
		return nil, "", swap.ErrNotFound
	}
	if req.CounterpartID != responderID {
		return nil, "", ErrNotResponder
	}
	if req.IsResolved() {
		return nil, "", swap.ErrAlreadyResolved
	}

	mine, err := s.slots.GetByID(ctx, req.ProposerSlotID)
	if err != nil {
		return nil, "", err
	}
	theirs, err := s.slots.GetByID(ctx, req.CounterpartSlotID)
	if err != nil {
		return nil, "", err
	}
	if mine == nil || theirs == nil {
		return nil, "", slot.ErrNotFound
	}

	var mineUpdate, theirsUpdate slot.Update
	if target == swap.StatusAccepted {
		mineUpdate = slot.Update{OwnerID: &theirs.OwnerID, Status: statusPtr(slot.StatusBusy)}
		theirsUpdate = slot.Update{OwnerID: &mine.OwnerID, Status: statusPtr(slot.StatusBusy)}
	} else {
		mineUpdate = slot.Update{Status: statusPtr(slot.StatusSwappable)}
		theirsUpdate = slot.Update{Status: statusPtr(slot.StatusSwappable)}
	}

	newMine, err := s.slots.CompareAndSet(ctx, mine.SlotID, mine.Version, mineUpdate)
	if err != nil {
		return nil, "", casError(err)
	}
	newTheirs, err := s.slots.CompareAndSet(ctx, theirs.SlotID, theirs.Version, theirsUpdate)
	if err != nil {
		s.revertSlot(ctx, newMine, slot.Update{OwnerID: &mine.OwnerID, Status: statusPtr(slot.StatusSwapPending)})
		return nil, "", casError(err)
	}

	resolved, err := s.ledger.CompareAndSet(ctx, req.RequestID, req.Version, swap.Update{Status: &target})
	if err != nil {
		s.revertSlot(ctx, newMine, slot.Update{OwnerID: &mine.OwnerID, Status: statusPtr(slot.StatusSwapPending)})
		s.revertSlot(ctx, newTheirs, slot.Update{OwnerID: &theirs.OwnerID, Status: statusPtr(slot.StatusSwapPending)})
		if errors.Is(err, swap.ErrVersionConflict) {
			return nil, "", ErrConflict
		}
		return nil, "", err
	}

	s.logger.Info().
		Str("request_id", resolved.RequestID.String()).
		Str("status", string(resolved.Status)).
		Msg("swap resolved")
	return resolved, mine.Label(), nil
}

// ListSwappableSlots returns all SWAPPABLE slots not owned by the given
// user.
func (s *Service) ListSwappableSlots(ctx context.Context, excludingUserID uuid.UUID, limit, offset int) ([]*slot.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots.ListSwappableExcluding(ctx, excludingUserID, limit, offset)
}

// ListIncoming returns the user's PENDING requests awaiting response.
func (s *Service) ListIncoming(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*swap.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.ListPendingByCounterpart(ctx, userID, limit, offset)
}

// ListOutgoing returns every request the user proposed, any status, for
// history.
func (s *Service) ListOutgoing(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*swap.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.ListByProposer(ctx, userID, limit, offset)
}

// AcknowledgeRead marks requests as seen by the counterpart. Requests
// that do not exist or belong to another counterpart are skipped, not
// reported; the operation is best-effort per request, not atomic across
// the set.
func (s *Service) AcknowledgeRead(ctx context.Context, counterpartID uuid.UUID, requestIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := true
	for _, id := range requestIDs {
		req, err := s.ledger.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req == nil || req.CounterpartID != counterpartID || req.CounterpartSeen {
			continue
		}
		if _, err := s.ledger.CompareAndSet(ctx, req.RequestID, req.Version, swap.Update{CounterpartSeen: &seen}); err != nil {
			s.logger.Debug().Err(err).Str("request_id", id.String()).Msg("skipping read acknowledgment")
		}
	}
	return nil
}

// revertSlot compensates an already-applied slot write after a later
// step of the same commit failed.
func (s *Service) revertSlot(ctx context.Context, applied *slot.Slot, update slot.Update) {
	if applied == nil {
		return
	}
	if _, err := s.slots.CompareAndSet(ctx, applied.SlotID, applied.Version, update); err != nil {
		s.logger.Error().Err(err).Str("slot_id", applied.SlotID.String()).Msg("failed to compensate slot write")
	}
}

func (s *Service) publishNewRequest(ctx context.Context, req *swap.Request, slotLabel string) {
	if s.publisher == nil {
		return
	}
	from := "Someone"
	if u, err := s.users.GetByID(ctx, req.ProposerID); err == nil && u != nil {
		from = u.DisplayName
	}
	payload, err := json.Marshal(NewSwapRequestEvent{
		ID:   req.RequestID,
		From: from,
		Slot: slotLabel,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal newSwapRequest payload")
		return
	}
	s.publisher.Publish(req.CounterpartID, notification.NewMessage(notification.EventNewSwapRequest, payload))
}

func (s *Service) publishUpdate(ctx context.Context, req *swap.Request, slotLabel string) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(SwapRequestUpdateEvent{
		RequestID: req.RequestID,
		Status:    req.Status,
		Slot:      slotLabel,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal swapRequestUpdate payload")
		return
	}
	s.publisher.Publish(req.ProposerID, notification.NewMessage(notification.EventSwapRequestUpdate, payload))
}

func casError(err error) error {
	if errors.Is(err, slot.ErrVersionConflict) {
		return ErrConflict
	}
	return err
}

func statusPtr(status slot.Status) *slot.Status {
	return &status
}
