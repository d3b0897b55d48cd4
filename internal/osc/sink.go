// Package osc forwards engine events as Open Sound Control messages.
package osc

import (
	"log/slog"

	"github.com/hypebeast/go-osc/osc"

	"github.com/inamate/playhead/internal/message"
)

const (
	AddrCursor    = "/cursor"
	AddrTrigger   = "/trigger"
	AddrCollision = "/collision"
)

// Sender is the part of *osc.Client the sink needs.
type Sender interface {
	Send(packet osc.Packet) error
}

// Sink implements message.Sink over UDP.
type Sink struct {
	client Sender
}

// NewSink sends to host:port.
func NewSink(host string, port int) *Sink {
	return &Sink{client: osc.NewClient(host, port)}
}

func NewSinkWithSender(s Sender) *Sink {
	return &Sink{client: s}
}

func (s *Sink) Emit(e message.Event) {
	msg := Encode(e)
	if msg == nil {
		return
	}
	if err := s.client.Send(msg); err != nil {
		slog.Warn("send osc", "address", msg.Address, "cursor", e.CursorID, "error", err)
	}
}

// Encode builds the message for e. Arguments are
//
//	/cursor    cursorId curveId timestamp param x y z rx ry rz yaw pitch
//	/trigger   cursorId triggerId timestamp x y z
//	/collision cursorId otherCurveId timestamp fraction x y z
//
// Floats are sent as float32, timestamps as int64 milliseconds.
func Encode(e message.Event) *osc.Message {
	var msg *osc.Message
	switch e.Kind {
	case message.KindCursor:
		msg = osc.NewMessage(AddrCursor, e.CursorID, e.CurveID, e.Timestamp, float32(e.Param))
		appendVec(msg, e.Position.X, e.Position.Y, e.Position.Z)
		appendVec(msg, e.Relative.X, e.Relative.Y, e.Relative.Z)
		msg.Append(float32(e.Angle.Yaw))
		msg.Append(float32(e.Angle.Pitch))
	case message.KindTrigger:
		msg = osc.NewMessage(AddrTrigger, e.CursorID, e.TriggerID, e.Timestamp)
		appendVec(msg, e.Point.X, e.Point.Y, e.Point.Z)
	case message.KindCollision:
		msg = osc.NewMessage(AddrCollision, e.CursorID, e.OtherCurveID, e.Timestamp, float32(e.Fraction))
		appendVec(msg, e.Point.X, e.Point.Y, e.Point.Z)
	}
	return msg
}

func appendVec(msg *osc.Message, x, y, z float64) {
	msg.Append(float32(x))
	msg.Append(float32(y))
	msg.Append(float32(z))
}
