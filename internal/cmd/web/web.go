// Package web parses web service flags and launches the game server.
package web

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/ontsnapping/internal/game/room"
	entrypoint "github.com/louisbranch/ontsnapping/internal/platform/cmd"
	"github.com/louisbranch/ontsnapping/internal/platform/i18n"
	"github.com/louisbranch/ontsnapping/internal/services/web"
	webstorage "github.com/louisbranch/ontsnapping/internal/services/web/storage"
	"github.com/louisbranch/ontsnapping/internal/services/web/storage/memory"
	"github.com/louisbranch/ontsnapping/internal/services/web/storage/sqlite"
)

// Session store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	HealthAddr          string        `env:"WEB_HEALTH_ADDR"`
	SessionBackend      string        `env:"WEB_SESSION_BACKEND" envDefault:"memory"`
	DBPath              string        `env:"WEB_DB_PATH" envDefault:"data/web.db"`
	SessionTTL          time.Duration `env:"WEB_SESSION_TTL" envDefault:"24h"`
	SweepInterval       time.Duration `env:"WEB_SESSION_SWEEP_INTERVAL" envDefault:"10m"`
	DefaultLang         string        `env:"WEB_DEFAULT_LANG" envDefault:"nl-NL"`
	TrustForwardedProto bool          `env:"WEB_TRUST_FORWARDED_PROTO" envDefault:"false"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health listen address (empty disables)")
	fs.StringVar(&cfg.SessionBackend, "session-backend", cfg.SessionBackend, "Session store backend: memory or sqlite")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite session database path")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Idle session lifetime (0 disables expiry)")
	fs.DurationVar(&cfg.SweepInterval, "session-sweep-interval", cfg.SweepInterval, "Expired session pruning interval (0 disables)")
	fs.StringVar(&cfg.DefaultLang, "default-lang", cfg.DefaultLang, "Language used when the browser expresses no preference")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Honor X-Forwarded-Proto from a trusted proxy")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.SessionBackend)) {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
	if c.SessionTTL < 0 {
		return errors.New("session ttl must not be negative")
	}
	if c.SweepInterval < 0 {
		return errors.New("session sweep interval must not be negative")
	}
	if _, ok := i18n.ParseTag(c.DefaultLang); !ok {
		return fmt.Errorf("unsupported default language %q", c.DefaultLang)
	}
	return nil
}

// OpenStore opens the configured session backend.
func OpenStore(ctx context.Context, cfg Config) (webstorage.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.SessionBackend)) {
	case BackendMemory:
		return memory.New(), nil
	case BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite session store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

// Run starts the web game server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		store, err := OpenStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close session store: %v", err)
			}
		}()

		defaultLang, _ := i18n.ParseTag(cfg.DefaultLang)
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			HealthAddr:          cfg.HealthAddr,
			Rooms:               room.Default(),
			Store:               store,
			SessionTTL:          cfg.SessionTTL,
			SweepInterval:       cfg.SweepInterval,
			DefaultLanguage:     defaultLang,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
