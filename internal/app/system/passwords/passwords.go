// Package passwords wraps bcrypt hashing and verification.
//
// Hashing at cost 10 takes tens of milliseconds of pure CPU. A weighted
// semaphore sized to GOMAXPROCS caps how many hashes run at once so a
// burst of registrations cannot starve every other request of CPU; the
// Acquire honors the caller's context, so a request that times out while
// queued never burns a slot.
package passwords

import (
	"context"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Cost is the fixed bcrypt cost factor.
const Cost = 10

var sem = semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))

// Hash derives the stored hash for a plaintext password.
func Hash(ctx context.Context, plain string) (string, error) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer sem.Release(1)

	h, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Compare checks a plaintext password against a stored hash. It returns
// bcrypt.ErrMismatchedHashAndPassword on mismatch; an empty stored hash
// (federated-only account) never matches.
func Compare(ctx context.Context, hash, plain string) error {
	if err := sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
