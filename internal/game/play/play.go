// Package play drives a game through a room registry on behalf of a
// frontend and records each move as a trace span.
package play

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/louisbranch/ontsnapping/internal/game/room"
)

// Game applies player input against an immutable registry.
type Game struct {
	rooms  *room.Registry
	tracer trace.Tracer
}

// New returns a Game over rooms. A nil tracer disables spans.
func New(rooms *room.Registry, tracer trace.Tracer) (*Game, error) {
	if rooms == nil {
		return nil, errors.New("room registry is required")
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Game{rooms: rooms, tracer: tracer}, nil
}

// Rooms returns the registry the game plays on.
func (g *Game) Rooms() *room.Registry {
	return g.rooms
}

// Start returns the room every new game begins in.
func (g *Game) Start() room.Room {
	return g.rooms.Start()
}

// Room resolves a stored room id.
func (g *Game) Room(id room.ID) (room.Room, error) {
	return g.rooms.Get(id)
}

// Advance applies input in the room identified by from. Unknown ids fail with
// room.ErrRoomNotFound; unmatched input keeps the player where they are.
func (g *Game) Advance(ctx context.Context, from room.ID, input string) (room.Room, error) {
	_, span := g.tracer.Start(ctx, "room.transition", trace.WithAttributes(
		attribute.String("room.from", string(from)),
	))
	defer span.End()

	next, err := g.rooms.Advance(from, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "room lookup failed")
		return room.Room{}, err
	}
	span.SetAttributes(
		attribute.String("room.to", string(next.ID)),
		attribute.Bool("transition.self_loop", next.ID == from),
		attribute.Bool("room.terminal", next.Terminal()),
	)
	return next, nil
}
