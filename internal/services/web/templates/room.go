package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/louisbranch/ontsnapping/internal/services/web/routepath"
)

// InputField is the form field carrying the player's command.
const InputField = "player_input"

// RoomView is the presentation of the player's current room.
type RoomView struct {
	ID          string
	Title       string
	Description string
	// Prompt hints at the accepted commands. Empty for terminal rooms.
	Prompt   string
	Terminal bool
}

// RoomPage renders the room text followed by the command form, or a restart
// link once the game is over.
func RoomPage(view RoomView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := printer{w: w}
		p.raw(`<article class="room" data-room="`)
		p.text(view.ID)
		p.raw(`"><h1>`)
		p.text(view.Title)
		p.raw(`</h1><p class="description">`)
		p.text(view.Description)
		p.raw(`</p>`)
		if view.Terminal {
			p.raw(`<p><a class="button" href="`)
			p.text(routepath.Root)
			p.raw(`">`)
			p.text(T(loc, "web.play.again"))
			p.raw(`</a></p>`)
		} else {
			if view.Prompt != "" {
				p.raw(`<p class="prompt">`)
				p.text(view.Prompt)
				p.raw(`</p>`)
			}
			p.raw(`<form method="post" action="`)
			p.text(routepath.Play)
			p.raw(`"><label for="`)
			p.text(InputField)
			p.raw(`">`)
			p.text(T(loc, "web.play.input_label"))
			p.raw(`</label><input type="text" id="`)
			p.text(InputField)
			p.raw(`" name="`)
			p.text(InputField)
			p.raw(`" autocomplete="off" autofocus><button type="submit">`)
			p.text(T(loc, "web.play.submit"))
			p.raw(`</button></form>`)
		}
		p.raw(`</article>`)
		return p.err
	})
}
