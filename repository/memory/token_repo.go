package memory

import (
	"context"
	"sync"
	"time"

	"github.com/identigo/backend/domain"
	"github.com/identigo/backend/repository"
)

type tokenEntry struct {
	userID    string
	expiresAt time.Time
}

type TokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]tokenEntry
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{tokens: make(map[string]tokenEntry)}
}

func (r *TokenRepository) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	if token == "" || userID == "" {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = tokenEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (r *TokenRepository) Lookup(_ context.Context, token string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.tokens[token]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", domain.ErrTokenNotFound
	}
	return entry.userID, nil
}

var _ repository.TokenRepository = (*TokenRepository)(nil)
