// Package server implements the local preview server: it serves a built site
// directory and enforces the redirect table at request time, the same way the
// hosting layer does in production.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/suites-dev/docroute/internal/config"
	"github.com/suites-dev/docroute/internal/logging"
	"github.com/suites-dev/docroute/internal/redirect"
)

// PreviewServer serves the built site with the redirect table applied.
// The resolver is swapped atomically on rebuild, so in-flight requests never
// observe a half-built table.
type PreviewServer struct {
	config   *config.Config
	logger   logging.Logger
	siteDir  string
	resolver atomic.Pointer[redirect.Resolver]
	reload   *ReloadHub
	server   *http.Server
}

// New creates a preview server over the given site directory and resolver.
func New(cfg *config.Config, logger logging.Logger, siteDir string, resolver *redirect.Resolver) *PreviewServer {
	s := &PreviewServer{
		config:  cfg,
		logger:  logger.WithComponent("preview_server"),
		siteDir: siteDir,
		reload:  NewReloadHub(logger),
	}
	s.resolver.Store(resolver)
	return s
}

// SwapResolver publishes a newly built resolver. Safe to call while the
// server is handling requests.
func (s *PreviewServer) SwapResolver(resolver *redirect.Resolver) {
	s.resolver.Store(resolver)
}

// NotifyReload tells connected preview clients to refresh.
func (s *PreviewServer) NotifyReload(ctx context.Context) {
	s.reload.Broadcast(ctx, "reload")
}

// Start runs the server until ctx is cancelled.
func (s *PreviewServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/__docroute/reload", s.reload.Handle)
	mux.Handle("/", s.redirectMiddleware(http.FileServer(http.Dir(s.siteDir))))

	addr := net.JoinHostPort(s.config.Server.Host, fmt.Sprintf("%d", s.config.Server.Port))
	s.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	s.logger.Info(ctx, "Preview server started", "addr", addr, "site_dir", s.siteDir)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// redirectMiddleware applies the published table before static file serving.
// A hit is a permanent redirect with caching enabled; a miss falls through to
// the site's standard file serving and not-found handling.
func (s *PreviewServer) redirectMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolver := s.resolver.Load()
		if resolver != nil {
			if res, ok := resolver.Resolve(r.URL.Path); ok {
				dest := res.Destination
				if r.URL.RawQuery != "" {
					dest += "?" + r.URL.RawQuery
				}

				status := http.StatusFound
				if res.Permanent {
					status = http.StatusMovedPermanently
					w.Header().Set("Cache-Control", "public, max-age=3600")
				}

				s.logger.Debug(r.Context(), "Redirect applied",
					"path", r.URL.Path,
					"destination", dest,
					"status", status)
				http.Redirect(w, r, dest, status)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
