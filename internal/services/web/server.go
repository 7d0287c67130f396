package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/louisbranch/ontsnapping/internal/game/play"
	"github.com/louisbranch/ontsnapping/internal/game/room"
	platformgrpc "github.com/louisbranch/ontsnapping/internal/platform/grpc"
	"github.com/louisbranch/ontsnapping/internal/platform/i18n"
	"github.com/louisbranch/ontsnapping/internal/platform/otel"
	"github.com/louisbranch/ontsnapping/internal/platform/timeouts"
	"github.com/louisbranch/ontsnapping/internal/services/web/platform/httpx"
	"github.com/louisbranch/ontsnapping/internal/services/web/platform/observability"
	"github.com/louisbranch/ontsnapping/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/ontsnapping/internal/services/web/routepath"
	webstatic "github.com/louisbranch/ontsnapping/internal/services/web/static"
	webstorage "github.com/louisbranch/ontsnapping/internal/services/web/storage"
)

// HealthService is the gRPC health service name reported by the web server.
const HealthService = "ontsnapping.web"

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr string
	// HealthAddr enables the gRPC health endpoint when set.
	HealthAddr string
	// Rooms defaults to room.Default().
	Rooms *room.Registry
	Store webstorage.Store
	// SessionTTL bounds idle sessions; zero keeps them until the store closes.
	SessionTTL time.Duration
	// SweepInterval controls expired-session pruning; zero disables it.
	SweepInterval       time.Duration
	DefaultLanguage     language.Tag
	TrustForwardedProto bool
	Logger              *log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server hosts the game HTTP surface and its lifecycle.
type Server struct {
	httpAddr      string
	httpServer    *http.Server
	health        *platformgrpc.HealthServer
	sweeper       *sweeper
	sweepInterval time.Duration
	logger        *log.Logger
}

// NewHandler builds the root handler with the game routes and middleware.
func NewHandler(cfg Config) (http.Handler, error) {
	cfg = withDefaults(cfg)
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}
	game, err := play.New(cfg.Rooms, otel.Tracer("game/play"))
	if err != nil {
		return nil, err
	}

	h := &handlers{
		game:       game,
		store:      cfg.Store,
		sessionTTL: cfg.SessionTTL,
		now:        cfg.Now,
		policy:     requestmeta.Policy{TrustForwardedProto: cfg.TrustForwardedProto},
		languages:  languageResolver{fallback: cfg.DefaultLanguage},
		logger:     cfg.Logger,
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+routepath.Root+"{$}", http.HandlerFunc(h.handleIndex))
	mux.Handle(routepath.Play, httpx.Methods{
		http.MethodGet:  http.HandlerFunc(h.handlePlayGet),
		http.MethodPost: http.HandlerFunc(h.handlePlayPost),
	})
	mux.Handle("GET "+routepath.Health, http.HandlerFunc(handleHealth))
	mux.Handle("GET "+routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(webstatic.FS))))
	mux.Handle(routepath.Root, http.HandlerFunc(h.handleNotFound))

	return httpx.Chain(mux,
		httpx.RecoverPanic(cfg.Logger),
		httpx.RequestID(),
		observability.RequestLogger(cfg.Logger),
		observability.Trace(otel.Tracer("services/web")),
	), nil
}

func withDefaults(cfg Config) Config {
	if cfg.Rooms == nil {
		cfg.Rooms = room.Default()
	}
	if cfg.DefaultLanguage == language.Und {
		cfg.DefaultLanguage = i18n.DefaultTag()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return cfg
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteText(w, http.StatusOK, "ok")
}

// NewServer validates config and constructs a web server. The health
// listener, when configured, is bound here so address errors surface early.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	cfg = withDefaults(cfg)
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}

	server := &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		logger: cfg.Logger,
	}
	if cfg.SweepInterval > 0 {
		server.sweeper = &sweeper{store: cfg.Store, now: cfg.Now, logger: cfg.Logger}
		server.sweepInterval = cfg.SweepInterval
	}
	if healthAddr := strings.TrimSpace(cfg.HealthAddr); healthAddr != "" {
		health, err := platformgrpc.NewHealthServer(healthAddr, HealthService)
		if err != nil {
			return nil, fmt.Errorf("start health server: %w", err)
		}
		server.health = health
	}
	return server, nil
}

// HealthAddr returns the bound health listener address, if any.
func (s *Server) HealthAddr() string {
	if s == nil {
		return ""
	}
	return s.health.Addr()
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	var background sync.WaitGroup
	backgroundCtx, stopBackground := context.WithCancel(ctx)
	defer func() {
		stopBackground()
		background.Wait()
	}()

	if s.sweeper != nil {
		background.Go(func() {
			s.sweeper.run(backgroundCtx, s.sweepInterval)
		})
	}
	if s.health != nil {
		background.Go(func() {
			if err := s.health.Serve(backgroundCtx); err != nil {
				s.logger.Printf("health server stopped err=%v", err)
			}
		})
		s.health.SetServing(true)
	}

	s.logger.Printf("web server listening addr=%s", s.httpAddr)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.health.SetServing(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		s.health.SetServing(false)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources. The session store is owned by the
// caller.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	s.health.Close()
}
