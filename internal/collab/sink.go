package collab

import (
	"context"

	"github.com/inamate/pathsvg/internal/document"
	"github.com/inamate/pathsvg/internal/sink"
)

// Sink pushes exported SVG text to every client of a preview room.
type Sink struct {
	hub  *Hub
	room string
}

var _ sink.Sink = (*Sink)(nil)

func NewSink(hub *Hub, room string) *Sink {
	return &Sink{hub: hub, room: room}
}

func (s *Sink) Write(ctx context.Context, text, dest string) error {
	if err := ctx.Err(); err != nil {
		return &document.IOError{Dest: dest, Err: err}
	}
	err := s.hub.Publish(s.room, &Message{Type: TypeSVG, SVG: text, Name: sink.SanitizeName(dest)})
	if err != nil {
		return &document.IOError{Dest: dest, Err: err}
	}
	return nil
}
