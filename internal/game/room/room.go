package room

import (
	"maps"
	"slices"
)

// ID is the stable identifier of a room.
type ID string

// Wildcard matches any input that has no explicit transition.
const Wildcard = "*"

// Room is one node of the game graph.
type Room struct {
	ID          ID
	Title       string
	Description string
	transitions map[string]ID
}

// New builds a room with a private copy of its transition table.
func New(id ID, title, description string, transitions map[string]ID) Room {
	return Room{
		ID:          id,
		Title:       title,
		Description: description,
		transitions: maps.Clone(transitions),
	}
}

// Next returns the destination for input. Matching is exact: no trimming and
// no case folding. The wildcard is consulted only when input has no entry.
func (r Room) Next(input string) (ID, bool) {
	if target, ok := r.transitions[input]; ok {
		return target, true
	}
	if target, ok := r.transitions[Wildcard]; ok {
		return target, true
	}
	return "", false
}

// Terminal reports whether the room has no outgoing transitions.
func (r Room) Terminal() bool {
	return len(r.transitions) == 0
}

// Inputs returns the explicit input tokens in sorted order, wildcard excluded.
func (r Room) Inputs() []string {
	out := make([]string, 0, len(r.transitions))
	for input := range r.transitions {
		if input == Wildcard {
			continue
		}
		out = append(out, input)
	}
	slices.Sort(out)
	return out
}

// Targets returns every distinct destination id in sorted order.
func (r Room) Targets() []ID {
	seen := make(map[ID]struct{}, len(r.transitions))
	for _, target := range r.transitions {
		seen[target] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}
