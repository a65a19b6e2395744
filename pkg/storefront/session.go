package storefront

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// authKey is the fixed persistence key of the auth session.
const authKey = "auth"

// User is the authenticated identity as the server reports it.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Role    string `json:"role"`
}

// Session is the auth state: the logged-in user and their bearer token.
// A zero Session means "not logged in".
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// AuthContainer holds the session with a write-through persistence
// contract: every Set updates memory and rewrites the stored blob, so the
// two are never observably out of sync. A corrupted stored blob is treated
// as no session, never an error.
type AuthContainer struct {
	mu      sync.Mutex
	store   Store
	log     zerolog.Logger
	session Session
	subs    []func(Session)
}

// NewAuthContainer builds the container and loads any persisted session.
func NewAuthContainer(store Store, log zerolog.Logger) *AuthContainer {
	c := &AuthContainer{store: store, log: log}

	data, err := store.Get(authKey)
	if err != nil {
		log.Warn().Err(err).Msg("auth store unreadable, starting without session")
		return c
	}
	if len(data) == 0 {
		return c
	}
	if err := json.Unmarshal(data, &c.session); err != nil {
		log.Debug().Err(err).Msg("corrupted auth blob ignored")
		c.session = Session{}
	}
	return c
}

// Get returns the current session.
func (c *AuthContainer) Get() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Set replaces the session and persists it before notifying subscribers.
func (c *AuthContainer) Set(s Session) {
	c.mu.Lock()
	c.session = s
	c.persistLocked()
	subs := append([]func(Session){}, c.subs...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// Clear drops the session. Used on logout and on any failed server-side
// auth check.
func (c *AuthContainer) Clear() {
	c.Set(Session{})
}

// Subscribe registers a callback invoked after every Set.
func (c *AuthContainer) Subscribe(fn func(Session)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *AuthContainer) persistLocked() {
	data, err := json.Marshal(c.session)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to serialize auth session")
		return
	}
	if err := c.store.Set(authKey, data); err != nil {
		c.log.Error().Err(err).Msg("failed to persist auth session")
	}
}
