package collab

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inamate/pathsvg/internal/engine"
	"github.com/inamate/pathsvg/internal/scene"
)

var (
	ErrHubClosed    = errors.New("collab: hub closed")
	ErrRoomNotFound = errors.New("collab: room not found")
)

// Room is the set of clients previewing the same drawing. The last rendered
// frame is replayed to clients that join later.
type Room struct {
	id      string
	clients map[string]*Client // clientID -> client
	last    *Message
}

func NewRoom(id string) *Room {
	return &Room{
		id:      id,
		clients: make(map[string]*Client),
	}
}

// Hub owns the preview rooms. Membership changes go through Run; renders
// happen on the sending client's read goroutine.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // roomID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	engine     *engine.Engine
}

func NewHub(eng *engine.Engine) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		engine:     eng,
	}
}

// Run processes joins and leaves until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Register joins client to its room.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.RoomID]
	if !ok {
		room = NewRoom(client.RoomID)
		h.rooms[client.RoomID] = room
	}
	room.clients[client.ClientID] = client

	client.Send(&Message{
		Type:     TypeWelcome,
		RoomID:   room.id,
		ClientID: client.ClientID,
		Clients:  len(room.clients),
	})
	if room.last != nil {
		client.Send(room.last)
	}

	slog.Info("client joined", "client", client.ClientID, "room", client.RoomID, "subject", client.Subject)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.RoomID]
	if !ok {
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		return
	}

	delete(room.clients, client.ClientID)
	client.close()

	if len(room.clients) == 0 {
		delete(h.rooms, client.RoomID)
	}

	slog.Info("client left", "client", client.ClientID, "room", client.RoomID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for _, c := range room.clients {
			c.close()
		}
		delete(h.rooms, id)
	}
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	switch msg.Type {
	case TypePing:
		sender.Send(&Message{Type: TypePong, RoomID: sender.RoomID})
	case TypeRender:
		if err := h.render(ctx, msg); err != nil {
			slog.Debug("preview render failed", "error", err, "room", sender.RoomID)
			sender.Send(errorMessage(err))
		}
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.Send(errorMessage(fmt.Errorf("unknown message type %q", msg.Type)))
	}
}

func (h *Hub) render(ctx context.Context, msg *Message) error {
	if len(msg.Scene) == 0 {
		return errors.New("render: missing scene")
	}
	sc, err := scene.Decode(bytes.NewReader(msg.Scene), scene.FormatJSON)
	if err != nil {
		return err
	}
	res, err := h.engine.Render(ctx, sc)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	vp := res.Document.Viewport
	return h.Publish(msg.RoomID, &Message{
		Type:     TypeSVG,
		ClientID: msg.ClientID,
		SVG:      res.SVG,
		Name:     sc.Name,
		Viewport: &vp,
	})
}

// Publish broadcasts msg to every client in the room and keeps it as the
// room's latest frame.
func (h *Hub) Publish(roomID string, msg *Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return fmt.Errorf("publish %q: %w", roomID, ErrRoomNotFound)
	}
	msg.RoomID = roomID
	room.last = msg
	for _, c := range room.clients {
		c.Send(msg)
	}
	return nil
}

// RoomSize returns the number of clients in a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[roomID]; ok {
		return len(room.clients)
	}
	return 0
}
