package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/app"
	"github.com/kirtanupdate/server/internal/auth"
	"github.com/kirtanupdate/server/internal/core"
	"github.com/kirtanupdate/server/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Controller authenticates realtime connections and routes their control
// messages to the presence tracker and broadcast coordinator.
type Controller struct {
	Presence    *app.Presence
	Coordinator *app.Coordinator
	Tokens      *auth.Manager
}

func NewController(presence *app.Presence, coord *app.Coordinator, tokens *auth.Manager) *Controller {
	return &Controller{
		Presence:    presence,
		Coordinator: coord,
		Tokens:      tokens,
	}
}

// WsConn is the transport endpoint behind one session.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

func (c *WsConn) Alive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// classify verifies the credential supplied at handshake time. An absent
// or invalid token degrades the connection to anonymous rather than
// rejecting it; the role claim is only trusted after signature
// verification.
func (ctl *Controller) classify(c *gin.Context) *domain.Identity {
	token := c.Query("token")
	if token == "" {
		token = auth.TokenFromRequest(c)
	}
	if token == "" {
		return nil
	}
	claims, err := ctl.Tokens.Verify(token)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("handshake token rejected, degrading to anonymous")
		return nil
	}
	return claims.Identity()
}

// HandleWS upgrades the connection, registers the session and starts the
// transport pumps.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	ident := ctl.classify(c)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	sid := core.SessionID(uuid.NewString())
	sess := core.NewSession(sid, ident, conn)
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("role", string(sess.Role())).Msg("new WS connection")

	ctl.Presence.Register(sess)

	// A late joiner learns the broadcast state immediately instead of
	// waiting for the next reconciliation tick.
	ctl.sendStateSnapshot(conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sess, conn)
}

func (ctl *Controller) sendStateSnapshot(conn *WsConn) {
	if ctl.Coordinator.Live() {
		_ = conn.TrySend(app.EventFrame(app.EventBroadcastStarted))
		return
	}
	_ = conn.TrySend(app.EventFrame(app.EventBroadcastStopped))
}
