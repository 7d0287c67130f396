// Package healthcheck probes the web service's gRPC health endpoint.
package healthcheck

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/ontsnapping/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/ontsnapping/internal/platform/grpc"
	"github.com/louisbranch/ontsnapping/internal/platform/timeouts"
	"github.com/louisbranch/ontsnapping/internal/services/web"
)

// Config holds healthcheck command configuration.
type Config struct {
	Addr    string        `env:"HEALTHCHECK_ADDR" envDefault:"localhost:8081"`
	Service string        `env:"HEALTHCHECK_SERVICE"`
	Timeout time.Duration `env:"HEALTHCHECK_TIMEOUT"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Service: web.HealthService, Timeout: timeouts.HealthDial}
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Service == "" {
		cfg.Service = web.HealthService
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "gRPC health address to probe")
	fs.StringVar(&cfg.Service, "service", cfg.Service, "Health service name")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Probe timeout")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return Config{}, errors.New("healthcheck address is required")
	}
	if cfg.Timeout <= 0 {
		return Config{}, errors.New("healthcheck timeout must be positive")
	}
	return cfg, nil
}

// Run waits until the configured service reports SERVING or the timeout hits.
func Run(ctx context.Context, cfg Config) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	return platformgrpc.CheckHealth(ctx, cfg.Addr, cfg.Service, log.Printf)
}
