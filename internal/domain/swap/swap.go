package swap

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a swap request.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Decision represents the counterpart's answer to a pending request.
type Decision string

const (
	DecisionAccept Decision = "ACCEPT"
	DecisionReject Decision = "REJECT"
)

var (
	ErrNotFound        = errors.New("swap request not found")
	ErrAlreadyResolved = errors.New("swap request was already resolved")
	ErrVersionConflict = errors.New("swap request was modified concurrently")
	ErrInvalidDecision = errors.New("invalid swap decision")
)

// Request represents one proposed exchange between two slots owned by
// two distinct users. ProposerID and CounterpartID are denormalized
// from slot ownership at creation time.
type Request struct {
	RequestID         uuid.UUID `json:"requestId"`
	ProposerSlotID    uuid.UUID `json:"proposerSlotId"`
	CounterpartSlotID uuid.UUID `json:"counterpartSlotId"`
	ProposerID        uuid.UUID `json:"proposerId"`
	CounterpartID     uuid.UUID `json:"counterpartId"`
	Status            Status    `json:"status"`
	CounterpartSeen   bool      `json:"counterpartSeen"`
	Version           int64     `json:"version"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// NewRequest creates a PENDING request between two slots.
func NewRequest(proposerID, counterpartID, proposerSlotID, counterpartSlotID uuid.UUID) *Request {
	now := time.Now().UTC()
	return &Request{
		RequestID:         uuid.New(),
		ProposerSlotID:    proposerSlotID,
		CounterpartSlotID: counterpartSlotID,
		ProposerID:        proposerID,
		CounterpartID:     counterpartID,
		Status:            StatusPending,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsResolved reports whether the request reached a terminal status.
func (r *Request) IsResolved() bool {
	return r.Status == StatusAccepted || r.Status == StatusRejected
}

// CanTransitionTo checks if a transition to the target status is valid.
// PENDING is the only non-terminal state and is never re-entered.
func (r *Request) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:  {StatusAccepted, StatusRejected},
		StatusAccepted: {},
		StatusRejected: {},
	}
	allowed, ok := transitions[r.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// Resolve moves the request to the terminal status for the decision.
func (r *Request) Resolve(decision Decision) error {
	target, err := StatusForDecision(decision)
	if err != nil {
		return err
	}
	if !r.CanTransitionTo(target) {
		return ErrAlreadyResolved
	}
	r.Status = target
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// StatusForDecision maps a decision to its terminal status.
func StatusForDecision(decision Decision) (Status, error) {
	switch decision {
	case DecisionAccept:
		return StatusAccepted, nil
	case DecisionReject:
		return StatusRejected, nil
	default:
		return "", ErrInvalidDecision
	}
}
