package collab

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// TokenValidator resolves a bearer token to its subject.
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// Handler upgrades GET /ws/preview/{room} to a preview connection.
type Handler struct {
	hub     *Hub
	origins []string
	tokens  TokenValidator
}

// NewHandler returns a WebSocket handler for hub. With a nil validator every
// connection joins anonymously; otherwise a token query parameter is
// required.
func NewHandler(hub *Hub, origins []string, tokens TokenValidator) *Handler {
	return &Handler{hub: hub, origins: origins, tokens: tokens}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["room"]
	if roomID == "" {
		http.Error(w, "missing room", http.StatusBadRequest)
		return
	}

	subject := "anon-" + uuid.New().String()[:8]
	if h.tokens != nil {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		var err error
		subject, err = h.tokens.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, roomID, uuid.New().String(), subject)
	if err := h.hub.Register(client); err != nil {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
