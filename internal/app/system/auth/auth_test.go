package auth

import (
	"testing"
	"time"

	"github.com/dalemusser/recordhub/internal/app/system/faults"
	"go.uber.org/zap"
)

const testKey = "test-signing-key-for-testing-only-0123456789"

func TestIssueAndVerify(t *testing.T) {
	m, err := NewSessionManager(testKey, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	token, err := m.Issue("64f0c2a9e13b4c0001abcdef")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned empty token")
	}

	uid, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if uid != "64f0c2a9e13b4c0001abcdef" {
		t.Errorf("Verify uid = %q", uid)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	issuer, _ := NewSessionManager(testKey, 0, zap.NewNop())
	verifier, _ := NewSessionManager("another-signing-key-also-long-enough-000", 0, zap.NewNop())

	token, err := issuer.Issue("abc")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := verifier.Verify(token); faults.KindOf(err) != faults.InvalidSession {
		t.Errorf("Verify with wrong key = %v, want InvalidSession", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	m, _ := NewSessionManager(testKey, -time.Minute, zap.NewNop())

	token, err := m.Issue("abc")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := m.Verify(token); faults.KindOf(err) != faults.InvalidSession {
		t.Errorf("Verify of expired token = %v, want InvalidSession", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	m, _ := NewSessionManager(testKey, 0, zap.NewNop())

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := m.Verify(tok); faults.KindOf(err) != faults.InvalidSession {
			t.Errorf("Verify(%q) = %v, want InvalidSession", tok, err)
		}
	}
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := NewSessionManager("", 0, zap.NewNop()); err == nil {
		t.Error("empty signing key accepted")
	}
}
