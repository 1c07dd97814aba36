package password

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// ErrMismatch is returned when a plaintext does not match the stored hash.
var ErrMismatch = errors.New("password does not match hash")

// Hasher derives and verifies salted one-way password hashes.
//
// bcrypt is CPU-bound; a weighted semaphore caps concurrent hashing at
// GOMAXPROCS so a burst of registrations cannot stall unrelated requests.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Hash derives a salted hash from the plaintext. The plaintext is never
// recoverable from the result.
func (h *Hasher) Hash(ctx context.Context, plain string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Compare re-hashes the plaintext against the stored hash.
func (h *Hasher) Compare(ctx context.Context, hash, plain string) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer h.sem.Release(1)

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}
