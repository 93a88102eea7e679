package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"abapseg/config"
	"abapseg/internal/domain"
	"abapseg/internal/port"
)

// Server exposes the segmentation engine over HTTP. The transport is thin
// plumbing: decode the unit, run the engine, encode the record list.
type Server struct {
	segmenter port.Segmenter
	logger    *slog.Logger
	http      *http.Server
}

func New(cfg config.ServerConfig, segmenter port.Segmenter, logger *slog.Logger) *Server {
	s := &Server{
		segmenter: segmenter,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/segment", s.handleSegment)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
	}
	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// Handler returns the underlying handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var unit domain.SourceUnit
	if err := json.NewDecoder(r.Body).Decode(&unit); err != nil {
		s.logger.Warn("bad request", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	records := s.segmenter.Segment(unit)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		s.logger.Error("failed to write response", "error", err)
		return
	}

	s.logger.Info("segmented",
		"pgm_name", unit.PgmName,
		"inc_name", unit.IncName,
		"bytes", len(unit.Code),
		"records", len(records),
		"duration", time.Since(start),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
