package app

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirtanupdate/server/internal/core"
	"github.com/kirtanupdate/server/internal/domain"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	dead   bool
	full   bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return assert.AnError
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dead = true
}

func (f *fakeConn) Alive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.dead
}

type decodedFrame struct {
	Type  string        `json:"type"`
	Users []RosterEntry `json:"users"`
	Error string        `json:"error"`
}

func (f *fakeConn) decoded(t *testing.T) []decodedFrame {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]decodedFrame, 0, len(f.frames))
	for _, fr := range f.frames {
		var d decodedFrame
		require.NoError(t, json.Unmarshal(fr, &d))
		out = append(out, d)
	}
	return out
}

func (f *fakeConn) eventTypes(t *testing.T) []string {
	t.Helper()
	var types []string
	for _, d := range f.decoded(t) {
		types = append(types, d.Type)
	}
	return types
}

func (f *fakeConn) lastRoster(t *testing.T) []RosterEntry {
	t.Helper()
	var last []RosterEntry
	for _, d := range f.decoded(t) {
		if d.Type == EventUsersUpdate {
			last = d.Users
		}
	}
	return last
}

func newTestSession(id string, ident *domain.Identity) (*core.Session, *fakeConn) {
	conn := &fakeConn{}
	return core.NewSession(core.SessionID(id), ident, conn), conn
}

func adminIdentity(id int) *domain.Identity {
	return &domain.Identity{UserID: id, Username: "admin", Name: "Admin", Admin: true}
}

func userIdentity(id int) *domain.Identity {
	return &domain.Identity{UserID: id, Username: "user", Name: "User"}
}

func TestPresence_RegisterBroadcastsRoster(t *testing.T) {
	p := NewPresence(0)

	anon, anonConn := newTestSession("a-1", nil)
	p.Register(anon)

	roster := anonConn.lastRoster(t)
	require.Len(t, roster, 1)
	assert.Equal(t, core.SessionID("a-1"), roster[0].ID)
	assert.Equal(t, domain.RoleAnonymous, roster[0].Role)

	adm, admConn := newTestSession("b-2", adminIdentity(1))
	p.Register(adm)

	// Both sessions see the updated two-entry roster, ordered by id.
	for _, conn := range []*fakeConn{anonConn, admConn} {
		roster = conn.lastRoster(t)
		require.Len(t, roster, 2)
		assert.Equal(t, core.SessionID("a-1"), roster[0].ID)
		assert.Equal(t, core.SessionID("b-2"), roster[1].ID)
		assert.Equal(t, domain.RoleAdmin, roster[1].Role)
	}
}

func TestPresence_DeregisterBroadcastsRoster(t *testing.T) {
	p := NewPresence(0)

	s1, _ := newTestSession("s-1", userIdentity(1))
	s2, conn2 := newTestSession("s-2", userIdentity(2))
	p.Register(s1)
	p.Register(s2)

	p.Deregister(s1.ID())

	roster := conn2.lastRoster(t)
	require.Len(t, roster, 1)
	assert.Equal(t, core.SessionID("s-2"), roster[0].ID)
	assert.Equal(t, 1, p.Count())
}

func TestPresence_ReconcileRemovesDeadConnections(t *testing.T) {
	p := NewPresence(0)

	s1, conn1 := newTestSession("s-1", nil)
	s2, conn2 := newTestSession("s-2", nil)
	p.Register(s1)
	p.Register(s2)

	// s1's connection vanished without a disconnect event.
	conn1.Close()
	p.ReconcileAndBroadcast()

	assert.Equal(t, 1, p.Count())
	_, ok := p.Get(s1.ID())
	assert.False(t, ok)

	roster := conn2.lastRoster(t)
	require.Len(t, roster, 1)
	assert.Equal(t, core.SessionID("s-2"), roster[0].ID)
}

func TestPresence_ReconcileNothingStaleIsQuietNoOp(t *testing.T) {
	p := NewPresence(0)

	s1, conn1 := newTestSession("s-1", nil)
	p.Register(s1)
	before := len(conn1.decoded(t))

	p.ReconcileAndBroadcast()

	assert.Equal(t, 1, p.Count())
	// Only the roster publish itself, no other events.
	frames := conn1.decoded(t)
	require.Len(t, frames, before+1)
	assert.Equal(t, EventUsersUpdate, frames[len(frames)-1].Type)
}

func TestPresence_EmitAllSkipsBackpressuredSessions(t *testing.T) {
	p := NewPresence(0)

	slow, slowConn := newTestSession("slow", nil)
	fast, fastConn := newTestSession("fast", nil)
	p.Register(slow)
	p.Register(fast)

	slowConn.full = true
	p.EmitAll(EventFrame(EventBroadcastStarted))

	assert.NotContains(t, slowConn.eventTypes(t), EventBroadcastStarted)
	assert.Contains(t, fastConn.eventTypes(t), EventBroadcastStarted)
	// The slow session stays in the roster; eviction is the pump's job.
	assert.Equal(t, 2, p.Count())
}
