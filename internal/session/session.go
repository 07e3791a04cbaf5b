// Package session exposes the current authenticated identity. How the user
// authenticates is the identity provider's business; this package only holds
// the resulting identity and turns provider ID tokens into one.
package session

import (
	"sync"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// Context is the read side of a session: the current identity, if any.
type Context interface {
	// Identity returns the signed-in identity and true, or false when signed out.
	Identity() (domain.Identity, bool)
}

// Anonymous is a Context that is always signed out.
var Anonymous Context = anonymous{}

type anonymous struct{}

func (anonymous) Identity() (domain.Identity, bool) { return domain.Identity{}, false }

// Manager holds the signed-in/signed-out state. It is safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	identity domain.Identity
	signedIn bool
}

// NewManager returns a signed-out Manager.
func NewManager() *Manager {
	return &Manager{}
}

// SignIn switches to the signed-in state. An identity with an empty ID is
// rejected with ErrMissingSubject.
func (m *Manager) SignIn(who domain.Identity) error {
	if who.ID == "" {
		return ErrMissingSubject
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = who
	m.signedIn = true
	return nil
}

// SignOut switches to the signed-out state.
func (m *Manager) SignOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = domain.Identity{}
	m.signedIn = false
}

// Identity implements Context.
func (m *Manager) Identity() (domain.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity, m.signedIn
}

// SignedIn reports whether an identity is present.
func (m *Manager) SignedIn() bool {
	_, ok := m.Identity()
	return ok
}

// Owns reports whether the current identity owns l. Signed-out sessions own nothing.
func Owns(c Context, l *domain.Listing) bool {
	who, ok := c.Identity()
	return ok && domain.IsOwner(l, who)
}
