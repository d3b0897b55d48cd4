// Package hub fans tick events out to websocket clients and feeds their
// operations back into the engine.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/inamate/playhead/internal/engine"
	"github.com/inamate/playhead/internal/message"
)

// Submitter accepts operations. *engine.Engine satisfies it.
type Submitter interface {
	Submit(op engine.Operation) (string, error)
}

type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	engine Submitter
	seq    atomic.Int64
}

func New(engine Submitter) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		engine:     engine,
	}
}

// Run serves registrations until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, c := range h.clients {
				delete(h.clients, id)
				close(c.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register hands client to Run. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	payload, _ := json.Marshal(WelcomePayload{ClientID: client.ID, Session: client.Session})
	client.Send(&Frame{Type: TypeWelcome, ClientID: client.ID, Payload: payload})

	slog.Info("client joined", "client", client.ID, "session", client.Session, "subject", client.Subject)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	close(client.send)
	h.mu.Unlock()

	slog.Info("client left", "client", client.ID, "session", client.Session)
}

// Emit broadcasts e to every client. It never blocks on slow clients.
func (h *Hub) Emit(e message.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		slog.Error("marshal event", "error", err)
		return
	}
	h.broadcast(&Frame{Type: TypeEvent, Seq: h.seq.Add(1), Payload: payload})
}

func (h *Hub) broadcast(f *Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		slog.Error("marshal frame", "error", err)
		return
	}

	// The read lock keeps removeClient from closing a channel mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.sendRaw(data)
	}
}

// deliver sends to one client under the read lock, so the send channel
// cannot be closed underneath it.
func (h *Hub) deliver(c *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.clients[c.ID] == c {
		c.sendRaw(data)
	}
}

func (h *Hub) handleMessage(sender *Client, f *Frame) {
	switch f.Type {
	case TypeOpSubmit:
		h.handleOpSubmit(sender, f)
	default:
		slog.Warn("unknown message type", "type", f.Type, "client", sender.ID)
		sender.sendError("unknown message type " + f.Type)
	}
}

func (h *Hub) handleOpSubmit(sender *Client, f *Frame) {
	var p OperationSubmitPayload
	if err := json.Unmarshal(f.Payload, &p); err != nil {
		slog.Warn("invalid operation payload", "error", err, "client", sender.ID)
		sender.sendError("invalid operation payload")
		return
	}
	op := p.Operation
	if op.ID == "" {
		op.ID = uuid.NewString()
	}

	target, err := h.engine.Submit(op)
	if err != nil {
		slog.Debug("operation rejected", "type", op.Type, "client", sender.ID, "error", err)
		payload, _ := json.Marshal(OperationNackPayload{OperationID: op.ID, Reason: err.Error()})
		sender.Send(&Frame{Type: TypeOpNack, Payload: payload})
		return
	}

	payload, _ := json.Marshal(OperationAckPayload{OperationID: op.ID, Target: target})
	sender.Send(&Frame{Type: TypeOpAck, Payload: payload})
}
