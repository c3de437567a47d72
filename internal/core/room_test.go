package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kirtanupdate/server/internal/domain"
)

type nopConn struct{}

func (nopConn) TrySend(Frame) error { return nil }
func (nopConn) Close()              {}
func (nopConn) Alive() bool         { return true }

func TestRoomMembership(t *testing.T) {
	r := NewRoom("broadcast-test")
	assert.Equal(t, "broadcast-test", r.Name())
	assert.Equal(t, 0, r.MemberCount())

	a := NewSession("a", nil, nopConn{})
	b := NewSession("b", &domain.Identity{UserID: 1, Admin: true}, nopConn{})

	r.AddMember(a)
	r.AddMember(b)
	assert.Equal(t, 2, r.MemberCount())
	assert.True(t, r.Has("a"))

	r.RemoveMember("a")
	assert.False(t, r.Has("a"))
	assert.Equal(t, 1, r.MemberCount())

	// Removing an absent member is a no-op.
	r.RemoveMember("a")
	assert.Equal(t, 1, r.MemberCount())

	r.Evict()
	assert.Equal(t, 0, r.MemberCount())
	assert.False(t, r.Has("b"))
}

func TestSessionRoleFixedAtConstruction(t *testing.T) {
	anon := NewSession("s1", nil, nopConn{})
	assert.Equal(t, domain.RoleAnonymous, anon.Role())
	assert.Nil(t, anon.Identity())

	user := NewSession("s2", &domain.Identity{UserID: 5, Username: "sevak"}, nopConn{})
	assert.Equal(t, domain.RoleUser, user.Role())

	admin := NewSession("s3", &domain.Identity{UserID: 1, Admin: true}, nopConn{})
	assert.Equal(t, domain.RoleAdmin, admin.Role())
}
