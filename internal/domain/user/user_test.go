package user

import "testing"

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("alice@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"", "alice", "alice@", "@example.com", "a b@example.com"} {
		if err := ValidateEmail(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Fatal("expected error for short password")
	}
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !VerifyPassword(hash, "correct horse battery") {
		t.Fatal("expected hash to verify")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Fatal("wrong password must not verify")
	}
	if VerifyPassword("", "anything") {
		t.Fatal("empty hash must not verify")
	}
}
