package mcpserver

import (
	"sync"

	"github.com/pitchlab/pitchcoach/internal/conversation"
)

// SessionRegistry tracks live conversation sessions by ID. The MCP transport
// can deliver concurrent tool calls, so the registry and the sessions it
// holds are both lock-guarded.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*conversation.Session
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*conversation.Session)}
}

// Add registers a session under its own ID.
func (r *SessionRegistry) Add(s *conversation.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Get looks up a session; ok is false for unknown IDs.
func (r *SessionRegistry) Get(id string) (*conversation.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}
