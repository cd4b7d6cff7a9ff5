package notifier

import (
	"sync"

	"auction-engine/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session is one live delivery endpoint for an account. The transport
// collaborator drains Events and forwards them to the connected client.
type Session struct {
	id        string
	accountID int
	events    chan outbound.Event
	done      chan struct{}
}

// ID returns the session token
func (s *Session) ID() string { return s.id }

// AccountID returns the account this session belongs to
func (s *Session) AccountID() int { return s.accountID }

// Events returns the session's delivery channel
func (s *Session) Events() <-chan outbound.Event { return s.events }

// Done is closed when the session is unregistered
func (s *Session) Done() <-chan struct{} { return s.done }

// SessionRegistry tracks the accounts currently logged in. It is an
// explicitly owned object: the transport layer registers a session on login
// and unregisters it on logout, and the engine's notifiers receive the
// registry by reference instead of reaching for ambient global state.
type SessionRegistry struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	byAccount map[int][]*Session
	buffer    int
	logger    zerolog.Logger
}

type SessionRegistryParams struct {
	Buffer int
	Logger zerolog.Logger
}

// NewSessionRegistry creates an empty session registry
func NewSessionRegistry(params SessionRegistryParams) *SessionRegistry {
	buffer := params.Buffer
	if buffer <= 0 {
		buffer = 100
	}

	return &SessionRegistry{
		sessions:  make(map[string]*Session),
		byAccount: make(map[int][]*Session),
		buffer:    buffer,
		logger:    params.Logger.With().Str("component", "session_registry").Logger(),
	}
}

// Register opens a new session for the account and returns it
func (r *SessionRegistry) Register(accountID int) *Session {
	session := &Session{
		id:        uuid.New().String(),
		accountID: accountID,
		events:    make(chan outbound.Event, r.buffer),
		done:      make(chan struct{}),
	}

	r.mu.Lock()
	r.sessions[session.id] = session
	r.byAccount[accountID] = append(r.byAccount[accountID], session)
	r.mu.Unlock()

	r.logger.Info().
		Str("session_id", session.id).
		Int("account_id", accountID).
		Msg("Session registered")

	return session
}

// Unregister closes the session and removes it from the registry
func (r *SessionRegistry) Unregister(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.id]; !exists {
		return
	}
	delete(r.sessions, session.id)

	remaining := r.byAccount[session.accountID][:0]
	for _, s := range r.byAccount[session.accountID] {
		if s.id != session.id {
			remaining = append(remaining, s)
		}
	}
	if len(remaining) == 0 {
		delete(r.byAccount, session.accountID)
	} else {
		r.byAccount[session.accountID] = remaining
	}

	// The events channel stays open: a dispatch worker may still be
	// sending. Readers stop on Done instead.
	close(session.done)

	r.logger.Info().
		Str("session_id", session.id).
		Int("account_id", session.accountID).
		Msg("Session unregistered")
}

// SessionsFor returns a snapshot of the account's live sessions
func (r *SessionRegistry) SessionsFor(accountID int) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]*Session(nil), r.byAccount[accountID]...)
}
