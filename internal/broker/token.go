// Package broker resolves monday.com API tokens for users. In hosted mode
// tokens come from the encrypted credential store; in single-user mode the
// MONDAY_API_KEY environment variable serves every request.
package broker

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"gorm.io/gorm"

	"mondaymcp/server/internal/db"
)

var (
	defaultBroker *TokenBroker
	brokerOnce    sync.Once
)

// InitTokenBroker initializes the singleton token broker with the given DB.
// A nil DB puts the broker in single-user mode.
// Must be called once at startup before GetTokenBroker().
func InitTokenBroker(database *gorm.DB) {
	brokerOnce.Do(func() {
		defaultBroker = NewTokenBroker(database)
	})
}

// GetTokenBroker returns the singleton token broker instance
func GetTokenBroker() *TokenBroker {
	if defaultBroker == nil {
		log.Fatal("TokenBroker not initialized. Call InitTokenBroker() first.")
	}
	return defaultBroker
}

// cacheTTL bounds how long a decrypted token is reused before re-reading
// the store. Revoked tokens stop working within this window.
const cacheTTL = 5 * time.Minute

type cachedToken struct {
	token     string
	fetchedAt time.Time
}

// TokenBroker resolves per-user monday.com tokens with a short-lived cache
// in front of the credential store.
type TokenBroker struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]cachedToken

	// fetch is overridable in tests.
	fetch func(userID string) (string, error)
}

// NewTokenBroker creates a new token broker.
func NewTokenBroker(database *gorm.DB) *TokenBroker {
	b := &TokenBroker{
		db:    database,
		cache: make(map[string]cachedToken),
	}
	b.fetch = b.fetchFromStore
	if database == nil {
		log.Printf("[broker] TokenBroker in single-user mode (MONDAY_API_KEY)")
	} else {
		log.Printf("[broker] TokenBroker initialized with credential store")
	}
	return b
}

// GetToken returns the monday.com API token for the given user.
func (b *TokenBroker) GetToken(ctx context.Context, userID string) (string, error) {
	if b.db == nil {
		token := os.Getenv("MONDAY_API_KEY")
		if token == "" {
			return "", fmt.Errorf("MONDAY_API_KEY is not set")
		}
		return token, nil
	}

	b.mu.RLock()
	cached, ok := b.cache[userID]
	b.mu.RUnlock()
	if ok && time.Since(cached.fetchedAt) < cacheTTL {
		return cached.token, nil
	}

	token, err := b.fetch(userID)
	if err != nil {
		// Serve a stale token rather than failing when the store is down.
		if ok {
			log.Printf("[broker] store lookup failed for user %s, using cached token: %v", userID, err)
			return cached.token, nil
		}
		return "", err
	}

	b.mu.Lock()
	b.cache[userID] = cachedToken{token: token, fetchedAt: time.Now()}
	b.mu.Unlock()
	return token, nil
}

// Invalidate drops a user's cached token, forcing a store re-read on the
// next request. Called after credential updates.
func (b *TokenBroker) Invalidate(userID string) {
	b.mu.Lock()
	delete(b.cache, userID)
	b.mu.Unlock()
}

func (b *TokenBroker) fetchFromStore(userID string) (string, error) {
	cred, err := db.GetCredential(b.db, userID)
	if err != nil {
		return "", fmt.Errorf("no monday.com credential configured for user %s: %w", userID, err)
	}
	return cred.Token, nil
}
