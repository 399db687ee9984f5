package admin

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is surfaced on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid admin credentials")
	// ErrUnauthorized is surfaced when an admin operation is attempted
	// without an authorized token.
	ErrUnauthorized = errors.New("admin authorization required")
)

// Gate is the authorization boundary for registry mutation and session
// inspection. A login mints a server-side token that stays authorized
// until logout, or until the configured ttl elapses (zero ttl: never).
type Gate struct {
	username string
	password string
	ttl      time.Duration

	mu     sync.Mutex
	tokens map[string]time.Time
}

// NewGate builds the gate from the configured shared credential pair.
func NewGate(username, password string, ttl time.Duration) *Gate {
	return &Gate{
		username: username,
		password: password,
		ttl:      ttl,
		tokens:   make(map[string]time.Time),
	}
}

// Login checks the credential pair and mints an authorized token.
func (g *Gate) Login(username, password string) (string, error) {
	if g.username == "" {
		return "", ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	var expiresAt time.Time
	if g.ttl > 0 {
		expiresAt = time.Now().Add(g.ttl)
	}

	g.mu.Lock()
	g.tokens[token] = expiresAt
	g.mu.Unlock()

	return token, nil
}

// Logout revokes the token. Revoking an unknown token is a no-op.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	delete(g.tokens, token)
	g.mu.Unlock()
}

// Authorized reports whether the token is currently authorized.
// Expired tokens are revoked on sight.
func (g *Gate) Authorized(token string) bool {
	if token == "" {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	expiresAt, ok := g.tokens[token]
	if !ok {
		return false
	}
	if !expiresAt.IsZero() && time.Now().After(expiresAt) {
		delete(g.tokens, token)
		return false
	}
	return true
}
