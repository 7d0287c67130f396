package room

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ErrRoomNotFound reports a room id that is not part of the registry. Callers
// receive it only when session state and registry disagree, which is a data
// consistency error rather than a player mistake.
var ErrRoomNotFound = errors.New("room not found")

// Registry holds the fixed set of rooms keyed by id.
type Registry struct {
	start ID
	rooms map[ID]Room
}

// NewRegistry validates rooms and returns a read-only registry.
func NewRegistry(start ID, rooms ...Room) (*Registry, error) {
	if len(rooms) == 0 {
		return nil, errors.New("at least one room is required")
	}
	byID := make(map[ID]Room, len(rooms))
	for _, r := range rooms {
		if strings.TrimSpace(string(r.ID)) == "" {
			return nil, errors.New("room id is required")
		}
		if _, exists := byID[r.ID]; exists {
			return nil, fmt.Errorf("duplicate room id %q", r.ID)
		}
		byID[r.ID] = r
	}
	if _, ok := byID[start]; !ok {
		return nil, fmt.Errorf("start room %q: %w", start, ErrRoomNotFound)
	}
	for _, r := range rooms {
		for _, target := range r.Targets() {
			if _, ok := byID[target]; !ok {
				return nil, fmt.Errorf("room %q transition target %q: %w", r.ID, target, ErrRoomNotFound)
			}
		}
	}
	return &Registry{start: start, rooms: byID}, nil
}

// Get returns the room with id.
func (r *Registry) Get(id ID) (Room, error) {
	if r == nil {
		return Room{}, fmt.Errorf("room %q: %w", id, ErrRoomNotFound)
	}
	found, ok := r.rooms[id]
	if !ok {
		return Room{}, fmt.Errorf("room %q: %w", id, ErrRoomNotFound)
	}
	return found, nil
}

// Start returns the room every new session begins in.
func (r *Registry) Start() Room {
	return r.rooms[r.start]
}

// IDs returns all room ids in sorted order.
func (r *Registry) IDs() []ID {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.rooms))
}
