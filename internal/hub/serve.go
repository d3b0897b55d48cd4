package hub

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/inamate/playhead/internal/typeid"
)

// TokenValidator returns the subject of a valid token.
type TokenValidator func(token string) (string, error)

// Handler upgrades requests to websocket clients of h. With a non-nil
// validate, the "token" query parameter must hold a valid token.
func Handler(h *Hub, originPatterns []string, validate TokenValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var subject string
		if validate != nil {
			token := r.URL.Query().Get("token")
			if token == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			var err error
			subject, err = validate(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			slog.Error("websocket accept", "error", err)
			return
		}

		client := NewClient(h, conn, typeid.NewClientID(), uuid.NewString(), subject)
		if !h.Register(client) {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}

		ctx := r.Context()
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}
}
