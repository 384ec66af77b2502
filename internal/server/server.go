// Package server runs the local preview: a static file server over the
// rendered site, a filesystem watcher that rebuilds on change, and an
// optional periodic rebuild schedule.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/danielewood/blog/internal/blogerr"
	"github.com/danielewood/blog/internal/logfields"
	"github.com/danielewood/blog/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// RebuildFunc performs one full site build. It must be safe to call
// repeatedly; the server serializes invocations.
type RebuildFunc func(ctx context.Context) error

// Options configures the preview server.
type Options struct {
	Addr            string        // listen address, e.g. ":1313"
	SiteDir         string        // directory served as the site root
	ContentDir      string        // watched for changes
	ConfigPath      string        // watched for changes, may be empty
	Debounce        time.Duration // change coalescing window, default 300ms
	RebuildInterval time.Duration // periodic rebuild, 0 disables
	Registry        *prom.Registry
}

// Server is the preview HTTP server plus its rebuild machinery.
type Server struct {
	opts    Options
	rebuild RebuildFunc
	httpSrv *http.Server

	mu        sync.RWMutex
	addr      string
	lastError error
}

// New creates a preview server. The caller is expected to have run the
// initial build before calling Serve.
func New(opts Options, rebuild RebuildFunc) *Server {
	if opts.Addr == "" {
		opts.Addr = ":1313"
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	return &Server{opts: opts, rebuild: rebuild}
}

// Addr reports the bound listen address, empty until Serve has bound it.
// Useful when the configured address uses an ephemeral port.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// LastError reports the most recent rebuild failure, nil when healthy.
func (s *Server) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *Server) setLastError(err error) {
	s.mu.Lock()
	s.lastError = err
	s.mu.Unlock()
}

// Serve runs the HTTP server, file watcher, rebuild worker, and periodic
// schedule until the context is canceled.
func (s *Server) Serve(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.opts.Registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	mux.Handle("/", http.FileServer(http.Dir(s.opts.SiteDir)))

	s.httpSrv = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return blogerr.ServerError("listen", err).WithContext("addr", s.opts.Addr)
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()
	slog.Info("Preview server listening",
		slog.String("addr", ln.Addr().String()),
		logfields.Output(s.opts.SiteDir))

	watcher, err := NewWatcher(s.opts.ContentDir, s.opts.ConfigPath, s.opts.Debounce)
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	var scheduler gocron.Scheduler
	if s.opts.RebuildInterval > 0 {
		scheduler, err = s.startSchedule(watcher)
		if err != nil {
			_ = ln.Close()
			return err
		}
		defer func() { _ = scheduler.Shutdown() }()
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	go watcher.Run(ctx)
	go s.rebuildWorker(ctx, watcher.Triggers())

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-serveErr:
		return blogerr.ServerError("serve", err)
	}
}

// startSchedule registers a periodic rebuild that feeds the same debounced
// trigger path as filesystem changes, so scheduled and change-driven builds
// never overlap.
func (s *Server) startSchedule(watcher *Watcher) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, blogerr.InternalError("create scheduler", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(s.opts.RebuildInterval),
		gocron.NewTask(func() {
			slog.Debug("Scheduled rebuild triggered")
			watcher.fire()
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, blogerr.InternalError("schedule periodic rebuild", err)
	}
	scheduler.Start()
	slog.Info("Periodic rebuild enabled", slog.Duration("interval", s.opts.RebuildInterval))
	return scheduler, nil
}

// rebuildWorker serializes rebuilds. A trigger arriving mid-build is
// remembered and runs once the current build finishes.
func (s *Server) rebuildWorker(ctx context.Context, triggers <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-triggers:
			slog.Info("Change detected, rebuilding site")
			if err := s.rebuild(ctx); err != nil {
				slog.Warn("Rebuild failed", logfields.Error(err))
				s.setLastError(err)
			} else {
				s.setLastError(nil)
				slog.Info("Rebuild completed")
			}
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if err := s.LastError(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("last build failed: " + err.Error() + "\n"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) shutdown() error {
	slog.Info("Shutting down preview server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return blogerr.ServerError("shutdown", err)
	}
	return nil
}
