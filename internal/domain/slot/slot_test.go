package slot

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewStartsBusy(t *testing.T) {
	owner := uuid.New()
	start := time.Now().UTC()
	s, err := New(owner, "Dentist", start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StatusBusy {
		t.Fatalf("expected BUSY, got %s", s.Status)
	}
	if s.Version != 1 {
		t.Fatalf("expected version 1, got %d", s.Version)
	}
	if s.OwnerID != owner {
		t.Fatal("owner mismatch")
	}
}

func TestNewRejectsEmptyTitle(t *testing.T) {
	start := time.Now().UTC()
	if _, err := New(uuid.New(), "", start, start.Add(time.Hour)); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestNewRejectsInvertedRange(t *testing.T) {
	start := time.Now().UTC()
	_, err := New(uuid.New(), "Dentist", start, start.Add(-time.Hour))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	_, err = New(uuid.New(), "Dentist", start, start)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for zero-length slot, got %v", err)
	}
}

func TestIsSwappable(t *testing.T) {
	s := &Slot{Status: StatusSwappable}
	if !s.IsSwappable() {
		t.Fatal("SWAPPABLE slot should be swappable")
	}
	s.Status = StatusBusy
	if s.IsSwappable() {
		t.Fatal("BUSY slot should not be swappable")
	}
	s.Status = StatusSwapPending
	if s.IsSwappable() {
		t.Fatal("SWAP_PENDING slot should not be swappable")
	}
	if !s.IsLocked() {
		t.Fatal("SWAP_PENDING slot should be locked")
	}
}

func TestLabelFallback(t *testing.T) {
	s := &Slot{Title: "Morning shift"}
	if s.Label() != "Morning shift" {
		t.Fatalf("unexpected label %q", s.Label())
	}
	s.Title = ""
	if s.Label() != "a slot" {
		t.Fatalf("expected fallback label, got %q", s.Label())
	}
}

func TestValidateStatus(t *testing.T) {
	for _, st := range []Status{StatusBusy, StatusSwappable, StatusSwapPending} {
		if err := ValidateStatus(st); err != nil {
			t.Fatalf("expected %s to be valid: %v", st, err)
		}
	}
	if !errors.Is(ValidateStatus("FREE"), ErrInvalidStatus) {
		t.Fatal("expected ErrInvalidStatus for unknown status")
	}
}
