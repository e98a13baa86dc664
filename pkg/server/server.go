// Package server provides the ops HTTP server: health, metrics, and
// read-only billing queries.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"infomat-hq/infomat/pkg/billing"
	"infomat-hq/infomat/pkg/config"
	"infomat-hq/infomat/pkg/ledger"
)

// Server is the ops HTTP server. It never serves end-user traffic and
// never mutates the ledger.
type Server struct {
	config       *config.ServerConfig
	billing      *billing.Service
	metrics      http.Handler
	metricsPath  string
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.Mutex
	running      bool
}

// NewServer creates an ops server. metrics may be nil to disable the
// metrics endpoint.
func NewServer(cfg *config.ServerConfig, svc *billing.Service, metrics http.Handler, metricsPath string) *Server {
	return &Server{
		config:      cfg,
		billing:     svc,
		metrics:     metrics,
		metricsPath: metricsPath,
	}
}

// Start starts the HTTP server and blocks until the context is
// cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting ops server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting up to the
// configured shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())
		ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
		shutdownErr = s.httpServer.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/users/{id}/balance", s.handleBalance)
	mux.HandleFunc("GET /v1/users/{id}/transactions", s.handleTransactions)
	if s.metrics != nil {
		path := s.metricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, s.metrics)
	}
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	balance, err := s.billing.Lookup(r.Context(), userID)
	if err != nil {
		writeError(w, userID, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"balance": balance,
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	txns, err := s.billing.Transactions(r.Context(), userID)
	if err != nil {
		writeError(w, userID, err)
		return
	}

	type entry struct {
		ID        string `json:"id"`
		Delta     int64  `json:"delta"`
		Reason    string `json:"reason"`
		CreatedAt string `json:"created_at"`
	}
	entries := make([]entry, len(txns))
	for i, txn := range txns {
		entries[i] = entry{
			ID:        txn.ID,
			Delta:     txn.Delta,
			Reason:    txn.Reason,
			CreatedAt: txn.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":      userID,
		"transactions": entries,
	})
}

func writeError(w http.ResponseWriter, userID string, err error) {
	if errors.Is(err, ledger.ErrUserNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}
	slog.Error("ops query failed", "user_id", userID, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
