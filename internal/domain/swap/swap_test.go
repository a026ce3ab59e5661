package swap

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewRequestStartsPending(t *testing.T) {
	r := NewRequest(uuid.New(), uuid.New(), uuid.New(), uuid.New())
	if r.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", r.Status)
	}
	if r.Version != 1 {
		t.Fatalf("expected version 1, got %d", r.Version)
	}
	if r.CounterpartSeen {
		t.Fatal("new request should be unseen")
	}
	if r.IsResolved() {
		t.Fatal("new request should not be resolved")
	}
}

func TestTransitions(t *testing.T) {
	r := NewRequest(uuid.New(), uuid.New(), uuid.New(), uuid.New())
	if !r.CanTransitionTo(StatusAccepted) {
		t.Fatal("PENDING should allow ACCEPTED")
	}
	if !r.CanTransitionTo(StatusRejected) {
		t.Fatal("PENDING should allow REJECTED")
	}

	r.Status = StatusAccepted
	if r.CanTransitionTo(StatusRejected) || r.CanTransitionTo(StatusPending) {
		t.Fatal("ACCEPTED is terminal")
	}
	r.Status = StatusRejected
	if r.CanTransitionTo(StatusAccepted) || r.CanTransitionTo(StatusPending) {
		t.Fatal("REJECTED is terminal")
	}
}

func TestResolve(t *testing.T) {
	r := NewRequest(uuid.New(), uuid.New(), uuid.New(), uuid.New())
	if err := r.Resolve(DecisionAccept); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != StatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", r.Status)
	}
	if err := r.Resolve(DecisionReject); !errors.Is(err, ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
}

func TestResolveRejectsUnknownDecision(t *testing.T) {
	r := NewRequest(uuid.New(), uuid.New(), uuid.New(), uuid.New())
	if err := r.Resolve("MAYBE"); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
	if r.Status != StatusPending {
		t.Fatal("invalid decision must not change status")
	}
}

func TestStatusForDecision(t *testing.T) {
	st, err := StatusForDecision(DecisionAccept)
	if err != nil || st != StatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s (%v)", st, err)
	}
	st, err = StatusForDecision(DecisionReject)
	if err != nil || st != StatusRejected {
		t.Fatalf("expected REJECTED, got %s (%v)", st, err)
	}
	if _, err := StatusForDecision(""); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}
