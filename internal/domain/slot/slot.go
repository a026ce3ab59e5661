package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the exchange status of a calendar slot.
type Status string

const (
	StatusBusy        Status = "BUSY"
	StatusSwappable   Status = "SWAPPABLE"
	StatusSwapPending Status = "SWAP_PENDING"
)

var (
	ErrNotFound        = errors.New("slot not found")
	ErrNotOwner        = errors.New("slot is not owned by caller")
	ErrNotSwappable    = errors.New("slot is not swappable")
	ErrSwapLocked      = errors.New("slot is locked by a pending swap")
	ErrVersionConflict = errors.New("slot was modified concurrently")
	ErrInvalidRange    = errors.New("start time must be before end time")
	ErrInvalidStatus   = errors.New("invalid slot status")
	ErrTitleRequired   = errors.New("title is required")
)

// Slot represents a calendar time-slot owned by exactly one user.
// Version is the optimistic concurrency token checked by CompareAndSet.
type Slot struct {
	SlotID    uuid.UUID `json:"slotId"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Title     string    `json:"title"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Status    Status    `json:"status"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates a slot. New slots always start BUSY; the owner marks them
// SWAPPABLE explicitly.
func New(ownerID uuid.UUID, title string, startAt, endAt time.Time) (*Slot, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}
	if !startAt.Before(endAt) {
		return nil, ErrInvalidRange
	}
	now := time.Now().UTC()
	return &Slot{
		SlotID:    uuid.New(),
		OwnerID:   ownerID,
		Title:     title,
		StartAt:   startAt,
		EndAt:     endAt,
		Status:    StatusBusy,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsSwappable reports whether the slot may enter a new negotiation.
func (s *Slot) IsSwappable() bool {
	return s.Status == StatusSwappable
}

// IsLocked reports whether the slot is referenced by a live swap request.
func (s *Slot) IsLocked() bool {
	return s.Status == StatusSwapPending
}

// Label returns a human-readable name for notification payloads.
func (s *Slot) Label() string {
	if s.Title == "" {
		return "a slot"
	}
	return s.Title
}

func ValidateStatus(status Status) error {
	switch status {
	case StatusBusy, StatusSwappable, StatusSwapPending:
		return nil
	default:
		return ErrInvalidStatus
	}
}
