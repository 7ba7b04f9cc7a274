package websocket

import (
	"github.com/emjjkk/portfolio-backend/src/lib/presence"
	"github.com/emjjkk/portfolio-backend/src/types"
)

// opcodes
type OpCode int

const (
	// client -> server
	OpHeartbeat OpCode = 1 // sent periodically by the page to keep the socket alive, server answers with OpHeartbeatAck

	// server -> client
	OpDispatch     OpCode = 0  // events, see EventType
	OpHeartbeatAck OpCode = 11 // answer to heartbeat, carries server time
	OpReady        OpCode = 12 // sent right after connecting, contains the current header state
)

// event types for dispatch
type EventType string

const (
	// the rendered header line changed (clock tick, fade, swap)
	EventPresenceLine EventType = "PRESENCE_LINE"
	// the webhook stored a new activity
	EventActivityUpdate EventType = "ACTIVITY_UPDATE"
	// the last client message was rejected, see ErrorPayload
	EventError EventType = "ERROR"
)

// base message structure
type Message struct {
	Op    OpCode    `json:"op"`
	Data  any       `json:"d,omitempty"`
	Event EventType `json:"t,omitempty"`
	Nonce string    `json:"nonce,omitempty"`
}

// payloads

type ReadyPayload struct {
	SessionID string            `json:"session_id"`
	Line      presence.Snapshot `json:"line"`
}

type HeartbeatPayload struct {
	Timestamp int64 `json:"ts"`
}

type ActivityUpdatePayload struct {
	ActiveActivity *types.Activity `json:"active_activity"`
}

type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
