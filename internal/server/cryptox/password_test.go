package cryptox

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	digest, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if digest == "pw1" {
		t.Fatalf("digest must not equal the plaintext")
	}

	if !h.Verify("pw1", digest) {
		t.Fatalf("expected matching password to verify")
	}
	if h.Verify("pw2", digest) {
		t.Fatalf("expected non-matching password to fail")
	}
}

func TestPasswordHasher_DigestsAreSalted(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(bcrypt.MinCost)

	d1, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	d2, err := h.Hash("same")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("two hashes of the same password must differ")
	}
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(0)

	if h.Verify("anything", "not-a-bcrypt-digest") {
		t.Fatalf("malformed digest must verify as false, not panic or match")
	}
	if h.Verify("anything", "") {
		t.Fatalf("empty digest must verify as false")
	}
}

func TestNewPasswordHasher_ZeroCostUsesDefault(t *testing.T) {
	t.Parallel()

	h := NewPasswordHasher(0)
	digest, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		t.Fatalf("Cost error: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Fatalf("expected cost %d, got %d", bcrypt.DefaultCost, cost)
	}
}
