// Package devserver is a local stand-in for the indexing service. It speaks
// the same wire format as the real backend, verifies request signatures and
// can inject latency or failures so fallback behavior can be exercised.
package devserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/indexer-client/pkg/config"
	"github.com/DeBrosOfficial/indexer-client/pkg/httputil"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
	"github.com/DeBrosOfficial/indexer-client/pkg/mockdata"
)

// Version is reported by /health.
const Version = "dev"

// Server serves the indexer API from memory.
type Server struct {
	cfg     config.DevServerConfig
	logger  *logging.ColoredLogger
	router  chi.Router
	state   *state
	synth   *mockdata.Source
	limiter *rateLimiter
	started time.Time
}

// New creates a dev server. A nil logger discards output.
func New(cfg config.DevServerConfig, logger *logging.ColoredLogger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.FailStatus == 0 {
		cfg.FailStatus = http.StatusServiceUnavailable
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		router:  chi.NewRouter(),
		state:   newState(time.Now),
		synth:   mockdata.New(),
		started: time.Now(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = newRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logging.NewStandardLogger(logger, logging.ComponentDevServer),
		NoColor: true,
	}))
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.inject)
	s.router.Use(s.rateLimit)

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteHTTPError(w, httputil.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteHTTPError(w, httputil.ErrMethodNotAllowed)
	})

	r.Get("/health", s.handleHealth)
	r.Post("/auth/register", s.handleRegister)
	r.Route("/users", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Patch("/me", s.handleUpdateProfile)
		r.Put("/me/wallets", s.handleLinkWallet)
		r.Delete("/me/wallets/{address}", s.handleUnlinkWallet)
		r.Get("/{address}/points", s.handlePoints)
		r.Get("/{address}/activity", s.handleActivity)
	})
	r.Get("/leaderboard", s.handleLeaderboard)
	r.Get("/referrals/stats", s.handleReferralStats)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// inject applies the configured latency and failure paths.
func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Latency > 0 {
			select {
			case <-time.After(s.cfg.Latency):
			case <-r.Context().Done():
				return
			}
		}
		for _, p := range s.cfg.FailPaths {
			if p != "" && strings.HasPrefix(r.URL.Path, p) {
				httputil.WriteError(w, s.cfg.FailStatus, "injected failure")
				return
			}
		}
		if httputil.IsDevRequest(r) {
			w.Header().Set("X-Indexer-Mode", "dev")
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves on cfg.ListenAddr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.ComponentInfo(logging.ComponentDevServer, "Dev server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Duration("latency", s.cfg.Latency),
		zap.Strings("fail_paths", s.cfg.FailPaths),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.ComponentInfo(logging.ComponentDevServer, "Shutting down dev server")
		return srv.Shutdown(shutdownCtx)
	}
}
