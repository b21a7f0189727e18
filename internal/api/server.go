// Package api provides the HTTP API for generating and browsing terrain.
// All endpoints are GET and return JSON.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/hexwalk/internal/persistence"
	"github.com/talgya/hexwalk/internal/world"
)

// Server serves generated terrain over HTTP.
type Server struct {
	Gen           world.GenConfig          // Defaults for query parameters
	Lights        []world.DirectionalLight // Added to every scene
	DB            *persistence.DB          // Run archive; nil = archiving disabled
	Port          int
	MaxIterations int // Upper bound on ?iterations
	RateLimit     int // Generation requests per minute per IP

	srv *http.Server
}

type terrainResponse struct {
	RunID string `json:"run_id,omitempty"`
	world.Scene
}

// Handler builds the API routes.
func (s *Server) Handler() http.Handler {
	rate := s.RateLimit
	if rate <= 0 {
		rate = 60
	}
	terrainLimiter := NewRateLimiter(rate, time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/terrain", RateLimitMiddleware(terrainLimiter, s.handleTerrain))
	mux.HandleFunc("GET /api/v1/runs", s.handleRuns)
	mux.HandleFunc("GET /api/v1/run/{id}", s.handleRun)
	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "archive", s.DB != nil)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Stop closes the listener.
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Close()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"name":           "hexwalk",
		"iterations":     s.Gen.Iterations,
		"stay_prob":      s.Gen.StayProb,
		"step_size":      s.Gen.StepSize,
		"color_mode":     s.Gen.ColorMode.String(),
		"max_iterations": s.MaxIterations,
		"archive":        s.DB != nil,
	}
	writeJSON(w, status)
}

func (s *Server) handleTerrain(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.parseGenConfig(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := world.Generate(cfg)
	if err != nil {
		if errors.Is(err, world.ErrInvalidConfig) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("generation failed", "error", err)
		http.Error(w, "generation failed", http.StatusInternalServerError)
		return
	}

	resp := terrainResponse{Scene: world.BuildScene(m, cfg.PixelSize, s.Lights)}
	if s.DB != nil {
		run, err := s.DB.SaveRun(cfg, m)
		if err != nil {
			slog.Error("archive failed", "error", err)
		} else {
			resp.RunID = run.ID
		}
	}
	slog.Debug("terrain served", "iterations", cfg.Iterations, "seed", m.Seed, "run", resp.RunID)
	writeJSON(w, resp)
}

// parseGenConfig overlays query parameters on the server defaults.
func (s *Server) parseGenConfig(r *http.Request) (world.GenConfig, error) {
	cfg := s.Gen
	q := r.URL.Query()

	if v := q.Get("iterations"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("iterations: %w", err)
		}
		cfg.Iterations = n
	}
	if s.MaxIterations > 0 && cfg.Iterations > s.MaxIterations {
		return cfg, fmt.Errorf("iterations %d exceeds limit %d", cfg.Iterations, s.MaxIterations)
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("seed: %w", err)
		}
		cfg.Seed = seed
	}
	if v := q.Get("stay_prob"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("stay_prob: %w", err)
		}
		cfg.StayProb = p
	}
	if v := q.Get("step_size"); v != "" {
		step, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("step_size: %w", err)
		}
		cfg.StepSize = step
	}
	if v := q.Get("color"); v != "" {
		mode, err := world.ParseColorMode(v)
		if err != nil {
			return cfg, err
		}
		cfg.ColorMode = mode
	}
	return cfg, cfg.Validate()
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive disabled", http.StatusNotFound)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	runs, err := s.DB.ListRuns(limit)
	if err != nil {
		slog.Error("list runs failed", "error", err)
		http.Error(w, "list runs failed", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []persistence.Run{}
	}
	writeJSON(w, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive disabled", http.StatusNotFound)
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	_, m, err := s.DB.LoadRun(id)
	if errors.Is(err, persistence.ErrRunNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("load run failed", "id", id, "error", err)
		http.Error(w, "load run failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, terrainResponse{RunID: id, Scene: world.BuildScene(m, s.Gen.PixelSize, s.Lights)})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
