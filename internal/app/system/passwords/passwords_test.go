package passwords

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	ctx := context.Background()

	hash, err := Hash(ctx, "secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "" || hash == "secret1" {
		t.Fatalf("Hash returned %q, want a bcrypt hash", hash)
	}

	if err := Compare(ctx, hash, "secret1"); err != nil {
		t.Errorf("Compare with correct password failed: %v", err)
	}
	if err := Compare(ctx, hash, "wrong"); err != bcrypt.ErrMismatchedHashAndPassword {
		t.Errorf("Compare with wrong password = %v, want mismatch", err)
	}
}

func TestCompare_EmptyStoredHash(t *testing.T) {
	// Federated-only accounts store an empty hash; no password may match it.
	if err := Compare(context.Background(), "", "anything"); err == nil {
		t.Error("Compare against empty hash succeeded")
	}
}

func TestHash_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Hash(ctx, "secret1"); err == nil {
		t.Error("Hash with canceled context succeeded")
	}
}
