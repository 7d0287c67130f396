// Package terminal plays the escape game on a line-oriented console.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/ontsnapping/internal/game/play"
	"github.com/louisbranch/ontsnapping/internal/game/room"
	"github.com/louisbranch/ontsnapping/internal/platform/i18n"
)

var (
	styleTitle   = color.Style{color.FgYellow, color.OpBold}
	styleEscaped = color.Style{color.FgGreen, color.OpBold}
	styleCaught  = color.Style{color.FgRed, color.OpBold}
	stylePrompt  = color.Style{color.FgCyan}
	styleSubtle  = color.Style{color.FgGray}
)

// Config defines the console the game is played on.
type Config struct {
	Game     *play.Game
	Language language.Tag
	In       io.Reader
	Out      io.Writer
	// Color enables ANSI styling; callers set it when Out is a terminal.
	Color bool
	// Width wraps descriptions at this many columns; zero disables wrapping.
	Width int
}

// Session is one game played on a console.
type Session struct {
	game    *play.Game
	locale  string
	printer *message.Printer
	in      *bufio.Reader
	out     io.Writer
	color   bool
	width   int
}

// New validates cfg and returns a session ready to play.
func New(cfg Config) (*Session, error) {
	if cfg.Game == nil {
		return nil, errors.New("game is required")
	}
	if cfg.In == nil || cfg.Out == nil {
		return nil, errors.New("input and output are required")
	}
	tag := cfg.Language
	if tag == language.Und {
		tag = i18n.DefaultTag()
	}
	return &Session{
		game:    cfg.Game,
		locale:  tag.String(),
		printer: i18n.Printer(tag),
		in:      bufio.NewReader(cfg.In),
		out:     cfg.Out,
		color:   cfg.Color,
		width:   cfg.Width,
	}, nil
}

// Play shows each room and reads one command per turn until a terminal room
// is shown, input ends or ctx is cancelled. It returns the last room shown.
func (s *Session) Play(ctx context.Context) (room.Room, error) {
	current := s.game.Start()
	for {
		if err := s.show(current); err != nil {
			return current, err
		}
		if current.Terminal() {
			return current, nil
		}
		if err := ctx.Err(); err != nil {
			return current, err
		}

		input, err := s.readLine()
		if errors.Is(err, io.EOF) && input == "" {
			return current, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return current, fmt.Errorf("read input: %w", err)
		}

		current, err = s.game.Advance(ctx, current.ID, input)
		if err != nil {
			return current, err
		}
	}
}

// readLine returns the next line without its line terminator. Everything else
// is passed through untouched.
func (s *Session) readLine() (string, error) {
	if _, err := fmt.Fprint(s.out, s.style(stylePrompt, "> ")); err != nil {
		return "", err
	}
	line, err := s.in.ReadString('\n')
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, err
}

func (s *Session) show(current room.Room) error {
	text := play.Describe(s.locale, current)
	titleStyle := styleTitle
	switch current.ID {
	case room.Escaped:
		titleStyle = styleEscaped
	case room.Caught:
		titleStyle = styleCaught
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.style(titleStyle, text.Title))
	b.WriteString("\n\n")
	b.WriteString(wrap(text.Description, s.width))
	b.WriteString("\n")
	if text.Prompt != "" {
		b.WriteString("\n")
		b.WriteString(s.style(styleSubtle, wrap(text.Prompt, s.width)))
		b.WriteString("\n")
	}
	if current.Terminal() {
		b.WriteString("\n")
		b.WriteString(s.style(styleSubtle, wrap(s.printer.Sprintf("terminal.game_over"), s.width)))
		b.WriteString("\n")
	}
	_, err := io.WriteString(s.out, b.String())
	return err
}

func (s *Session) style(style color.Style, text string) string {
	if !s.color {
		return text
	}
	return style.Sprint(text)
}

// wrap breaks text on spaces so no line exceeds width columns.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var b strings.Builder
	lineLen := 0
	for i, word := range strings.Fields(text) {
		wordLen := len([]rune(word))
		if i > 0 {
			if lineLen+1+wordLen > width {
				b.WriteString("\n")
				lineLen = 0
			} else {
				b.WriteString(" ")
				lineLen++
			}
		}
		b.WriteString(word)
		lineLen += wordLen
	}
	return b.String()
}
