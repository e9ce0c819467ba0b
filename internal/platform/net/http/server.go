package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"steakfeed/internal/platform/config"
	"steakfeed/internal/platform/logger"
)

// Server serves one chi mux until its context ends
type Server struct {
	mux   *chi.Mux
	http  *stdhttp.Server
	grace time.Duration
}

// NewServer reads API_PORT (default ":4000"), API_READ_HEADER_TIMEOUT and
// API_SHUTDOWN_GRACE from cfg. opts get the mux before any route is added
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	mux := chi.NewRouter()
	for _, o := range opts {
		o(mux)
	}
	errs := logger.Named("http").With().Str("source", "net/http").Logger()
	return &Server{
		mux:   mux,
		grace: cfg.MayDuration("API_SHUTDOWN_GRACE", 10*time.Second),
		http: &stdhttp.Server{
			Addr:              cfg.MayString("API_PORT", ":4000"),
			Handler:           mux,
			ReadHeaderTimeout: cfg.MayDuration("API_READ_HEADER_TIMEOUT", 10*time.Second),
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      time.Minute,
			IdleTimeout:       2 * time.Minute,
			ErrorLog:          log.New(errs, "", 0),
		},
	}
}

// Router exposes the mux through the Router facade
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr is the configured listen address
func (s *Server) Addr() string { return s.http.Addr }

// Run listens, serves and drains in-flight requests once ctx ends.
// A listen failure is returned before anything is served
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("http: listen %s: %w", s.http.Addr, err)
	}
	l := logger.Named("http")
	l.Info().Str("addr", ln.Addr().String()).Msg("serving")

	served := make(chan error, 1)
	go func() { served <- s.http.Serve(ln) }()

	select {
	case err := <-served:
		return closedOK(err)
	case <-ctx.Done():
	}

	l.Info().Dur("grace", s.grace).Msg("draining")
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
	defer cancel()
	if err := s.http.Shutdown(dctx); err != nil {
		return fmt.Errorf("http: drain: %w", err)
	}
	return closedOK(<-served)
}

func closedOK(err error) error {
	if errors.Is(err, stdhttp.ErrServerClosed) {
		return nil
	}
	return err
}
