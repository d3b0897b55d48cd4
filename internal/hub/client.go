package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	ID      string
	Session string
	// Subject is the token subject, or empty for anonymous clients.
	Subject string
}

func NewClient(hub *Hub, conn *websocket.Conn, id, session, subject string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		ID:      id,
		Session: session,
		Subject: subject,
	}
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ID)
			return
		}

		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ID)
			c.sendError("invalid message")
			continue
		}
		f.ClientID = c.ID

		c.hub.handleMessage(c, &f)
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "client", c.ID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues f for this client. Frames for a client that already left are
// dropped.
func (c *Client) Send(f *Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		slog.Error("marshal frame", "error", err)
		return
	}
	c.hub.deliver(c, data)
}

func (c *Client) sendRaw(data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ID)
	}
}

func (c *Client) sendError(reason string) {
	payload, _ := json.Marshal(map[string]string{"error": reason})
	c.Send(&Frame{Type: TypeError, Payload: payload})
}
