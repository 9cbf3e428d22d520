package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/skripsi-ai-go/internal/logging"
)

const (
	defaultPort     = 3000
	shutdownTimeout = 10 * time.Second
)

// Options configures the HTTP server.
type Options struct {
	Host string
	Port int
}

// Server runs the proxy's HTTP surface.
type Server struct {
	addr    string
	handler *Handler
	log     *logging.SecureLogger
}

// NewServer validates opts and prepares a server for h.
func NewServer(opts Options, h *Handler) (*Server, error) {
	port := opts.Port
	if port == 0 {
		port = defaultPort
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("invalid port number: %d", port)
	}

	return &Server{
		addr:    net.JoinHostPort(strings.TrimSpace(opts.Host), fmt.Sprint(port)),
		handler: h,
		log:     h.log,
	}, nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start listens on the configured address and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully and
// waits for pending alerts.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		ctxTimeout, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(ctxTimeout)
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("Proxy listening")

	err := srv.Serve(ln)
	defer s.handler.Close()

	if errors.Is(err, http.ErrServerClosed) {
		if err := <-shutdownErr; err != nil {
			return fmt.Errorf("failed to shut down cleanly: %w", err)
		}
		s.log.Info().Msg("Proxy stopped")
		return nil
	}
	return err
}
