package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/kirtanupdate/server/internal/core"
)

// Outbound event types (server -> client).
const (
	EventUsersUpdate      = "users_update"
	EventBroadcastStarted = "broadcast_started"
	EventBroadcastStopped = "broadcast_stopped"
	EventBroadcastError   = "broadcast_error"
	EventJoinedBroadcast  = "joined_broadcast_success"
)

// Inbound control message types (client -> server). None carries a payload.
const (
	MsgStartBroadcast = "start_broadcast"
	MsgStopBroadcast  = "stop_broadcast"
	MsgJoinBroadcast  = "join_broadcast"
)

func encodeFrame(v any) core.Frame {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.events").Msg("event marshal")
		return nil
	}
	return b
}

// EventFrame encodes a payload-free event.
func EventFrame(typ string) core.Frame {
	return encodeFrame(struct {
		Type string `json:"type"`
	}{typ})
}

// ErrorFrame encodes a broadcast_error carrying a message for the
// requesting session only.
func ErrorFrame(msg string) core.Frame {
	return encodeFrame(struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}{EventBroadcastError, msg})
}

func rosterFrame(users []RosterEntry) core.Frame {
	return encodeFrame(struct {
		Type  string        `json:"type"`
		Users []RosterEntry `json:"users"`
	}{EventUsersUpdate, users})
}
