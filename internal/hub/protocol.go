package hub

import (
	"encoding/json"

	"github.com/inamate/playhead/internal/engine"
)

// Frame is the websocket envelope in both directions.
type Frame struct {
	Type     string          `json:"type"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	TypeWelcome = "welcome"
	TypeError   = "error"

	// TypeEvent carries a message.Event produced by a tick.
	TypeEvent = "event"

	TypeOpSubmit = "op.submit"
	TypeOpAck    = "op.ack"
	TypeOpNack   = "op.nack"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	Session  string `json:"session"`
}

type OperationSubmitPayload struct {
	Operation engine.Operation `json:"operation"`
}

type OperationAckPayload struct {
	OperationID string `json:"operationId"`
	Target      string `json:"target"`
}

type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}
