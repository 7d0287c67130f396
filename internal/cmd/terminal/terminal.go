// Package terminal parses console flags and plays the game on stdin/stdout.
package terminal

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/louisbranch/ontsnapping/internal/game/play"
	"github.com/louisbranch/ontsnapping/internal/game/room"
	entrypoint "github.com/louisbranch/ontsnapping/internal/platform/cmd"
	"github.com/louisbranch/ontsnapping/internal/platform/i18n"
	"github.com/louisbranch/ontsnapping/internal/platform/otel"
	terminalservice "github.com/louisbranch/ontsnapping/internal/services/terminal"
)

const maxWrapWidth = 100

// Config holds the terminal command configuration.
type Config struct {
	Lang    string `env:"TERMINAL_LANG" envDefault:"nl-NL"`
	NoColor bool   `env:"TERMINAL_NO_COLOR" envDefault:"false"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "Display language (nl-NL or en-US)")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if _, ok := i18n.ParseTag(cfg.Lang); !ok {
		return Config{}, fmt.Errorf("unsupported language %q", cfg.Lang)
	}
	return cfg, nil
}

// Run plays one game on the process console.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTerminal, func(ctx context.Context) error {
		isTTY := term.IsTerminal(int(os.Stdout.Fd()))
		width := 0
		if isTTY {
			if columns, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width = min(columns, maxWrapWidth)
			}
		}
		return playOnce(ctx, cfg, os.Stdin, os.Stdout, isTTY && !cfg.NoColor, width)
	})
}

func playOnce(ctx context.Context, cfg Config, in io.Reader, out io.Writer, color bool, width int) error {
	game, err := play.New(room.Default(), otel.Tracer("game/play"))
	if err != nil {
		return err
	}
	tag, _ := i18n.ParseTag(cfg.Lang)
	session, err := terminalservice.New(terminalservice.Config{
		Game:     game,
		Language: tag,
		In:       in,
		Out:      out,
		Color:    color,
		Width:    width,
	})
	if err != nil {
		return fmt.Errorf("init terminal session: %w", err)
	}
	if _, err := session.Play(ctx); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	return nil
}
