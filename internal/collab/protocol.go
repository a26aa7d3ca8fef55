package collab

import (
	"encoding/json"

	"github.com/inamate/pathsvg/internal/document"
)

// Message is the envelope for every frame exchanged with a preview client.
type Message struct {
	Type     string             `json:"type"`
	RoomID   string             `json:"roomId,omitempty"`
	ClientID string             `json:"clientId,omitempty"`
	Subject  string             `json:"subject,omitempty"`
	Scene    json.RawMessage    `json:"scene,omitempty"`
	SVG      string             `json:"svg,omitempty"`
	Name     string             `json:"name,omitempty"`
	Viewport *document.Viewport `json:"viewport,omitempty"`
	Clients  int                `json:"clients,omitempty"`
	Error    string             `json:"error,omitempty"`
}

const (
	// Client to server
	TypeRender = "render"
	TypePing   = "ping"

	// Server to client
	TypeWelcome = "welcome"
	TypeSVG     = "svg"
	TypePong    = "pong"
	TypeError   = "error"
)

func errorMessage(err error) *Message {
	return &Message{Type: TypeError, Error: err.Error()}
}
