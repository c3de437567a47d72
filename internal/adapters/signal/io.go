package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/app"
	"github.com/kirtanupdate/server/internal/core"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsConn) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			// Closing here unblocks readPump's ReadMessage, so server
			// shutdown drops the session instead of waiting on the peer.
			c.Close()
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, sess *core.Session, c *WsConn) {
	sid := sess.ID()
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		cancel()
		c.Close()
		// Roster first, so the departing session never receives the
		// teardown events; then broadcast cleanup, which must run even
		// when the owner vanished without a clean stop.
		ctl.Presence.Deregister(sid)
		ctl.Coordinator.OnDisconnect(sid)
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				return
			}
			ctl.handleMessage(sess, data)
		}
	}
}

// handleMessage dispatches one inbound control message. None of the
// control messages carries a payload beyond the type envelope.
func (ctl *Controller) handleMessage(sess *core.Session, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case app.MsgStartBroadcast:
		ctl.Coordinator.Start(sess)
	case app.MsgStopBroadcast:
		ctl.Coordinator.Stop(sess)
	case app.MsgJoinBroadcast:
		ctl.Coordinator.Join(sess)
	case "ping":
		_ = sess.Signal().TrySend(app.EventFrame("pong"))
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown message")
	}
}
