package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/Kush-Singh-26/testserver/internal/config"
	"github.com/Kush-Singh-26/testserver/internal/metrics"
)

// Server owns the HTTP listener lifecycle around a Responder.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	out       io.Writer
	metrics   *metrics.ServeMetrics
	responder *Responder
}

// New creates a Server that serves files from fsys. Status lines go to out.
func New(cfg *config.Config, fsys afero.Fs, logger *slog.Logger, out io.Writer) *Server {
	m := metrics.NewServeMetrics()
	return &Server{
		cfg:       cfg,
		logger:    logger,
		out:       out,
		metrics:   m,
		responder: NewResponder(fsys, cfg, logger, m),
	}
}

// Metrics returns the request counters of this server.
func (s *Server) Metrics() *metrics.ServeMetrics {
	return s.metrics
}

// Run listens on the configured port and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.responder,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	s.printBanner(ln.Addr())

	g, gctx := errgroup.WithContext(ctx)

	if s.cfg.WatchRoot {
		cw, err := startContentWatcher(s.cfg.Root, watchDebounce, s.logger)
		if err != nil {
			s.logger.Warn("Content watcher disabled", "root", s.cfg.Root, "error", err)
		} else {
			g.Go(func() error { return cw.run(gctx) })
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	_, _ = fmt.Fprintln(s.out, s.metrics.String())
	return err
}

func (s *Server) printBanner(addr net.Addr) {
	port := s.cfg.Port
	if tcpAddr, ok := addr.(*net.TCPAddr); ok {
		port = tcpAddr.Port
	}
	url := "http://localhost:" + strconv.Itoa(port) + "/"
	_, _ = fmt.Fprintf(s.out, "Server running at\n  => %s\nCTRL + C to shutdown\n", color.CyanString(url))
}
