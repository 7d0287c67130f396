package play

import (
	"github.com/louisbranch/ontsnapping/internal/game/room"
	"github.com/louisbranch/ontsnapping/internal/platform/i18n/catalog"
)

// Text is the player-facing copy of a room in one locale.
type Text struct {
	Title       string
	Description string
	// Prompt lists the expected commands; empty once the game is over.
	Prompt string
}

// Describe localizes r for locale. Rooms missing from the catalog keep their
// canonical text.
func Describe(locale string, r room.Room) Text {
	text := Text{Title: r.Title, Description: r.Description}
	bundle := catalog.Default()
	if title, ok := bundle.Message(locale, roomKey(r.ID, "title")); ok {
		text.Title = title
	}
	if description, ok := bundle.Message(locale, roomKey(r.ID, "description")); ok {
		text.Description = description
	}
	if !r.Terminal() {
		if prompt, ok := bundle.Message(locale, roomKey(r.ID, "prompt")); ok {
			text.Prompt = prompt
		}
	}
	return text
}

func roomKey(id room.ID, field string) string {
	return "game.room." + string(id) + "." + field
}
