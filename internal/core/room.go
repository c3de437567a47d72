package core

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Room is a threadsafe in-memory grouping of sessions. It owns the
// membership set but never closes adapter-owned transport resources.
type Room struct {
	name  string
	mu    sync.RWMutex
	bySID map[SessionID]*Session
}

func NewRoom(name string) *Room {
	return &Room{
		name:  name,
		bySID: make(map[SessionID]*Session),
	}
}

func (r *Room) Name() string { return r.name }

func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

func (r *Room) Has(sid SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.bySID[sid]
	return ok
}

func (r *Room) AddMember(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySID[s.ID()] = s
	log.Debug().Str("module", "core.room").Str("room", r.name).Str("sid", string(s.ID())).Msg("member added")
}

func (r *Room) RemoveMember(sid SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySID, sid)
	log.Debug().Str("module", "core.room").Str("room", r.name).Str("sid", string(sid)).Msg("member removed")
}

// Evict drops every member at once. Used when the broadcast the room was
// created for ends, so nobody stays subscribed to a dead room.
func (r *Room) Evict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.bySID)
	r.bySID = make(map[SessionID]*Session)
	log.Debug().Str("module", "core.room").Str("room", r.name).Int("evicted", n).Msg("room evicted")
}
