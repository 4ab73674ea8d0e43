package session

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Registry holds at most one live session per owner.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	log      logrus.FieldLogger
}

func NewRegistry(log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{sessions: map[string]*Session{}, log: log}
}

func (r *Registry) Get(ownerID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[ownerID]
	return s, ok
}

// Put registers s for its owner, closing any session it replaces.
func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	old := r.sessions[s.OwnerID()]
	r.sessions[s.OwnerID()] = s
	r.mu.Unlock()
	if old != nil && old != s {
		r.closeQuietly(old)
	}
}

func (r *Registry) Delete(ownerID string) bool {
	r.mu.Lock()
	s, ok := r.sessions[ownerID]
	delete(r.sessions, ownerID)
	r.mu.Unlock()
	if ok {
		r.closeQuietly(s)
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll closes every session and empties the registry.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = map[string]*Session{}
	r.mu.Unlock()
	for _, s := range all {
		r.closeQuietly(s)
	}
}

func (r *Registry) closeQuietly(s *Session) {
	if err := s.Close(); err != nil {
		r.log.WithField("session", s.ID()).WithError(err).Warn("close session")
	}
}
