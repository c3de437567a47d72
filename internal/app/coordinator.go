package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/core"
	"github.com/kirtanupdate/server/internal/domain"
)

// ErrNoActiveBroadcast is the message sent to a session joining while idle.
const ErrNoActiveBroadcast = "No active broadcast found"

// BroadcastStore persists the at-most-one live-broadcast record.
type BroadcastStore interface {
	// Replace atomically drops any prior record and inserts a new one.
	Replace(sessionID, roomName string) (*domain.LiveBroadcast, error)
	// Current returns the active record, or nil when idle.
	Current() (*domain.LiveBroadcast, error)
	// DeleteByOwner removes the record owned by the session, reporting
	// whether one existed.
	DeleteByOwner(sessionID string) (bool, error)
	// Clear removes every record.
	Clear() error
}

// liveBroadcast is the tagged LIVE state: owner, room, start time.
type liveBroadcast struct {
	owner     core.SessionID
	room      *core.Room
	startedAt time.Time
}

// Coordinator enforces the single-active-broadcast invariant and drives
// room membership. The in-memory state is authoritative; the store row is
// a persisted projection of it. One mutex serializes every check-then-act
// sequence, storage call included, so two concurrent starts cannot race.
type Coordinator struct {
	mu       sync.Mutex
	presence *Presence
	store    BroadcastStore

	// nil while idle.
	live *liveBroadcast
}

func NewCoordinator(presence *Presence, store BroadcastStore) *Coordinator {
	return &Coordinator{presence: presence, store: store}
}

// Reset clears any record a previous process left behind. No broadcast
// survives a restart since its owning session is gone.
func (c *Coordinator) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live = nil
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("clear stale broadcasts: %w", err)
	}
	return nil
}

// Live reports whether a broadcast is currently active. Used to send a
// late-joining client its initial state snapshot.
func (c *Coordinator) Live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live != nil
}

// RoomName returns the active room's name, or "" while idle.
func (c *Coordinator) RoomName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.live == nil {
		return ""
	}
	return c.live.room.Name()
}

// InRoom reports whether the session is a member of the active room.
func (c *Coordinator) InRoom(sid core.SessionID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live != nil && c.live.room.Has(sid)
}

// Start begins a broadcast owned by the session. Non-admin callers are
// silently ignored. A second start while live replaces the broadcast and
// evicts the previous room's members.
func (c *Coordinator) Start(s *core.Session) {
	if s.Role() != domain.RoleAdmin {
		log.Debug().Str("module", "app.coordinator").Str("sid", string(s.ID())).Msg("start ignored for non-admin")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	roomName := "broadcast-" + uuid.NewString()
	rec, err := c.store.Replace(string(s.ID()), roomName)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Str("sid", string(s.ID())).Msg("start broadcast")
		_ = s.Signal().TrySend(ErrorFrame("Failed to start broadcast"))
		return
	}

	if c.live != nil {
		c.live.room.Evict()
	}

	room := core.NewRoom(roomName)
	room.AddMember(s)
	c.live = &liveBroadcast{owner: s.ID(), room: room, startedAt: rec.CreatedAt}

	c.presence.EmitAll(EventFrame(EventBroadcastStarted))
	log.Info().Str("module", "app.coordinator").Str("sid", string(s.ID())).Str("room", roomName).Msg("broadcast started")
}

// Stop ends the active broadcast. Non-admin callers are silently ignored;
// stopping while idle is a no-op that emits nothing.
func (c *Coordinator) Stop(s *core.Session) {
	if s.Role() != domain.RoleAdmin {
		log.Debug().Str("module", "app.coordinator").Str("sid", string(s.ID())).Msg("stop ignored for non-admin")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardown(s.ID())
}

// Join subscribes any session to the active room, or reports
// broadcast_error to it when idle.
func (c *Coordinator) Join(s *core.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live == nil {
		_ = s.Signal().TrySend(ErrorFrame(ErrNoActiveBroadcast))
		return
	}
	c.live.room.AddMember(s)
	_ = s.Signal().TrySend(EventFrame(EventJoinedBroadcast))
	log.Info().Str("module", "app.coordinator").Str("sid", string(s.ID())).Str("room", c.live.room.Name()).Msg("joined broadcast")
}

// OnDisconnect tears the broadcast down when its owner drops, and removes
// plain viewers from the room. Invoked from the transport's disconnect
// path after the session left the roster.
func (c *Coordinator) OnDisconnect(sid core.SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.live == nil {
		return
	}
	if c.live.owner == sid {
		log.Info().Str("module", "app.coordinator").Str("sid", string(sid)).Msg("owner disconnected, stopping broadcast")
		c.teardown(sid)
		return
	}
	c.live.room.RemoveMember(sid)
}

// teardown ends the live broadcast: delete the record, evict the room,
// notify everyone. Caller holds c.mu. A no-op while idle.
func (c *Coordinator) teardown(requester core.SessionID) {
	if c.live == nil {
		return
	}

	deleted, err := c.store.DeleteByOwner(string(c.live.owner))
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("stop broadcast")
		return
	}
	if !deleted {
		log.Warn().Str("module", "app.coordinator").Str("owner", string(c.live.owner)).Msg("no persisted broadcast for owner")
	}

	room := c.live.room
	c.live = nil
	room.RemoveMember(requester)
	room.Evict()

	c.presence.EmitAll(EventFrame(EventBroadcastStopped))
	log.Info().Str("module", "app.coordinator").Str("room", room.Name()).Msg("broadcast stopped")
}
