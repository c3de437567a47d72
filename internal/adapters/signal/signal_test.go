package signal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirtanupdate/server/internal/app"
	"github.com/kirtanupdate/server/internal/auth"
	"github.com/kirtanupdate/server/internal/domain"
	"github.com/kirtanupdate/server/internal/storage"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	presence := app.NewPresence(0)
	coord := app.NewCoordinator(presence, storage.NewBroadcastRepo(db))
	tokens := auth.NewManager("test-secret", time.Hour)
	return NewController(presence, coord, tokens)
}

func newTestServer(t *testing.T, ctl *Controller) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := gin.New()
	r.GET("/api/ws", func(c *gin.Context) {
		ctl.HandleWS(ctx, c)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	if token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type wsEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
	Users []struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"users"`
}

// waitForEvent reads frames until one of the wanted type arrives.
func waitForEvent(t *testing.T, conn *websocket.Conn, typ string) wsEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %q", typ)
		var ev wsEvent
		require.NoError(t, json.Unmarshal(data, &ev))
		if ev.Type == typ {
			return ev
		}
	}
}

func adminToken(t *testing.T, tokens *auth.Manager) string {
	t.Helper()
	token, err := tokens.Generate(&domain.User{ID: 1, Username: "admin", Name: "Admin", IsAdmin: true})
	require.NoError(t, err)
	return token
}

func send(t *testing.T, conn *websocket.Conn, typ string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{"type": typ}))
}

func TestHandleWS_AnonymousGetsRosterAndStateSnapshot(t *testing.T) {
	ctl := newTestController(t)
	srv := newTestServer(t, ctl)

	conn := dialWS(t, srv, "")

	roster := waitForEvent(t, conn, app.EventUsersUpdate)
	require.Len(t, roster.Users, 1)
	assert.Equal(t, string(domain.RoleAnonymous), roster.Users[0].Role)

	// Idle at connect time, so the snapshot says stopped.
	waitForEvent(t, conn, app.EventBroadcastStopped)
}

func TestHandleWS_InvalidTokenDegradesToAnonymous(t *testing.T) {
	ctl := newTestController(t)
	srv := newTestServer(t, ctl)

	conn := dialWS(t, srv, "not-a-real-token")

	roster := waitForEvent(t, conn, app.EventUsersUpdate)
	require.Len(t, roster.Users, 1)
	assert.Equal(t, string(domain.RoleAnonymous), roster.Users[0].Role)
}

func TestHandleWS_VerifiedAdminCanRunBroadcast(t *testing.T) {
	ctl := newTestController(t)
	srv := newTestServer(t, ctl)

	admin := dialWS(t, srv, adminToken(t, ctl.Tokens))
	roster := waitForEvent(t, admin, app.EventUsersUpdate)
	require.Len(t, roster.Users, 1)
	assert.Equal(t, string(domain.RoleAdmin), roster.Users[0].Role)

	viewer := dialWS(t, srv, "")
	waitForEvent(t, viewer, app.EventBroadcastStopped)

	send(t, admin, app.MsgStartBroadcast)
	waitForEvent(t, admin, app.EventBroadcastStarted)
	waitForEvent(t, viewer, app.EventBroadcastStarted)

	send(t, viewer, app.MsgJoinBroadcast)
	waitForEvent(t, viewer, app.EventJoinedBroadcast)

	send(t, admin, app.MsgStopBroadcast)
	waitForEvent(t, viewer, app.EventBroadcastStopped)
}

func TestHandleWS_LateJoinerSeesLiveSnapshot(t *testing.T) {
	ctl := newTestController(t)
	srv := newTestServer(t, ctl)

	admin := dialWS(t, srv, adminToken(t, ctl.Tokens))
	send(t, admin, app.MsgStartBroadcast)
	waitForEvent(t, admin, app.EventBroadcastStarted)

	late := dialWS(t, srv, "")
	waitForEvent(t, late, app.EventBroadcastStarted)
}

func TestHandleWS_JoinWhileIdleReportsError(t *testing.T) {
	ctl := newTestController(t)
	srv := newTestServer(t, ctl)

	conn := dialWS(t, srv, "")
	send(t, conn, app.MsgJoinBroadcast)

	ev := waitForEvent(t, conn, app.EventBroadcastError)
	assert.Equal(t, app.ErrNoActiveBroadcast, ev.Error)
}

func TestHandleWS_OwnerDisconnectStopsBroadcast(t *testing.T) {
	ctl := newTestController(t)
	srv := newTestServer(t, ctl)

	admin := dialWS(t, srv, adminToken(t, ctl.Tokens))
	viewer := dialWS(t, srv, "")

	send(t, admin, app.MsgStartBroadcast)
	waitForEvent(t, viewer, app.EventBroadcastStarted)

	require.NoError(t, admin.Close())

	waitForEvent(t, viewer, app.EventBroadcastStopped)
	assert.Eventually(t, func() bool { return ctl.Presence.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, ctl.Coordinator.Live())
}

func TestHandleWS_ServerShutdownDropsLiveSessions(t *testing.T) {
	ctl := newTestController(t)
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())

	r := gin.New()
	r.GET("/api/ws", func(c *gin.Context) {
		ctl.HandleWS(ctx, c)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	conn := dialWS(t, srv, "")
	waitForEvent(t, conn, app.EventUsersUpdate)
	require.Equal(t, 1, ctl.Presence.Count())

	// A quiet client must still be dropped when the server context ends.
	cancel()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	assert.Eventually(t, func() bool { return ctl.Presence.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHandleWS_PingPongAndUnknownMessages(t *testing.T) {
	ctl := newTestController(t)
	srv := newTestServer(t, ctl)

	conn := dialWS(t, srv, "")

	// Garbage and unknown types are ignored without dropping the session.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	send(t, conn, "teleport")
	send(t, conn, "ping")

	waitForEvent(t, conn, "pong")
}

func TestClassify(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctl := newTestController(t)

	ctxFor := func(req *http.Request) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = req
		return c
	}

	t.Run("no token is anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ws", nil)
		assert.Nil(t, ctl.classify(ctxFor(req)))
	})

	t.Run("invalid token is anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ws?token=bogus", nil)
		assert.Nil(t, ctl.classify(ctxFor(req)))
	})

	t.Run("query token is verified", func(t *testing.T) {
		token := adminToken(t, ctl.Tokens)
		req := httptest.NewRequest(http.MethodGet, "/api/ws?token="+url.QueryEscape(token), nil)
		ident := ctl.classify(ctxFor(req))
		require.NotNil(t, ident)
		assert.True(t, ident.Admin)
		assert.Equal(t, "admin", ident.Username)
	})

	t.Run("cookie token is verified", func(t *testing.T) {
		token, err := ctl.Tokens.Generate(&domain.User{ID: 2, Username: "sevak", Name: "Sevak"})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/ws", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		ident := ctl.classify(ctxFor(req))
		require.NotNil(t, ident)
		assert.False(t, ident.Admin)
	})
}
