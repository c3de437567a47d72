package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/core"
	"github.com/kirtanupdate/server/internal/domain"
)

// RosterEntry is the read-only view of one connected session.
type RosterEntry struct {
	ID   core.SessionID `json:"id"`
	Role domain.Role    `json:"role"`
}

// Presence owns the roster of currently-connected sessions. Every mutation
// re-broadcasts the roster immediately; a periodic sweep additionally drops
// sessions whose connection vanished without a clean disconnect event.
type Presence struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*core.Session
	interval time.Duration
}

func NewPresence(interval time.Duration) *Presence {
	return &Presence{
		sessions: make(map[core.SessionID]*core.Session),
		interval: interval,
	}
}

// Register inserts the session into the roster. Called exactly once per
// connection, immediately after authentication.
func (p *Presence) Register(s *core.Session) {
	p.mu.Lock()
	p.sessions[s.ID()] = s
	p.mu.Unlock()
	log.Info().Str("module", "app.presence").Str("sid", string(s.ID())).Str("role", string(s.Role())).Msg("session registered")
	p.ReconcileAndBroadcast()
}

// Deregister removes the session. Called exactly once per connection, on
// disconnect.
func (p *Presence) Deregister(sid core.SessionID) {
	p.mu.Lock()
	delete(p.sessions, sid)
	p.mu.Unlock()
	log.Info().Str("module", "app.presence").Str("sid", string(sid)).Msg("session deregistered")
	p.ReconcileAndBroadcast()
}

func (p *Presence) Get(sid core.SessionID) (*core.Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.sessions[sid]
	return s, ok
}

func (p *Presence) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}

// Snapshot returns the roster ordered by session id, so every recipient
// sees the same list.
func (p *Presence) Snapshot() []RosterEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]RosterEntry, 0, len(p.sessions))
	for _, s := range p.sessions {
		out = append(out, RosterEntry{ID: s.ID(), Role: s.Role()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EmitAll fans a pre-encoded frame out to every connected session.
// Backpressured sessions are skipped; the write pump owns slow-client
// handling.
func (p *Presence) EmitAll(f core.Frame) {
	if f == nil {
		return
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	for sid, s := range p.sessions {
		if err := s.Signal().TrySend(f); err != nil {
			log.Warn().Str("module", "app.presence").Str("sid", string(sid)).Err(err).Msg("emit dropped")
		}
	}
}

// ReconcileAndBroadcast sweeps stale entries and publishes the roster to
// every session. A pass that finds nothing stale is a silent no-op apart
// from the publish.
func (p *Presence) ReconcileAndBroadcast() {
	p.mu.Lock()
	for sid, s := range p.sessions {
		if !s.Signal().Alive() {
			delete(p.sessions, sid)
			log.Warn().Str("module", "app.presence").Str("sid", string(sid)).Msg("stale session removed")
		}
	}
	p.mu.Unlock()

	p.EmitAll(rosterFrame(p.Snapshot()))
}

// Run drives the periodic reconciliation sweep until ctx is cancelled.
func (p *Presence) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	log.Info().Str("module", "app.presence").Dur("interval", p.interval).Msg("reconciliation loop started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.presence").Msg("reconciliation loop stopped")
			return
		case <-ticker.C:
			p.ReconcileAndBroadcast()
		}
	}
}
