package core

import "github.com/kirtanupdate/server/internal/domain"

type SessionID string

// Session binds one live connection to its classification and transport
// endpoint. The role is fixed at construction and never changes.
type Session struct {
	id     SessionID
	role   domain.Role
	ident  *domain.Identity
	signal SignalConnection
}

// NewSession pairs identity + transport. A nil identity yields an
// anonymous session.
func NewSession(id SessionID, ident *domain.Identity, signal SignalConnection) *Session {
	return &Session{
		id:     id,
		role:   domain.RoleOf(ident),
		ident:  ident,
		signal: signal,
	}
}

func (s *Session) ID() SessionID              { return s.id }
func (s *Session) Role() domain.Role          { return s.role }
func (s *Session) Identity() *domain.Identity { return s.ident }
func (s *Session) Signal() SignalConnection   { return s.signal }
