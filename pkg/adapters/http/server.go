package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	markov "github.com/MohammadGhaderi0/Diabetes-Markov-Model"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/dto"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/presentation/graph"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// DefaultMaxPatients caps the cohort size of a single request.
const DefaultMaxPatients = 1_000_000

// Server exposes a Simulator over a JSON API.
type Server struct {
	Simulator   ports.Simulator
	Store       ports.ModelStore
	Metrics     http.Handler
	Logger      *slog.Logger
	MaxPatients int
}

// Option configures the Server.
type Option func(*Server)

// WithStore mounts the model registry endpoints backed by store.
func WithStore(store ports.ModelStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithMetricsHandler serves h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMaxPatients caps the cohort size accepted by POST /simulate.
func WithMaxPatients(n int) Option {
	return func(s *Server) {
		s.MaxPatients = n
	}
}

// NewHandler creates a new HTTP handler for the simulator.
func NewHandler(sim ports.Simulator, opts ...Option) http.Handler {
	s := &Server{
		Simulator:   sim,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		MaxPatients: DefaultMaxPatients,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/model", s.GetModel)
	r.Get("/model/graph", s.GetGraph)
	r.Post("/simulate", s.Simulate)
	r.Get("/expected", s.GetExpected)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}
	if s.Store != nil {
		r.Route("/models", func(r chi.Router) {
			r.Get("/", s.ListModels)
			r.Get("/{name}", s.GetStoredModel)
			r.Put("/{name}", s.PutStoredModel)
			r.Delete("/{name}", s.DeleteStoredModel)
		})
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SimulateRequest is the body of POST /simulate.
type SimulateRequest struct {
	Patients int `json:"patients"`
	// Start is a state label or index; it is ignored when Initial is set.
	Start               json.RawMessage `json:"start,omitempty"`
	Seed                *uint64         `json:"seed,omitempty"`
	Initial             []float64       `json:"initial,omitempty"`
	IncludeTrajectories bool            `json:"include_trajectories,omitempty"`
}

// SimulateResponse is the body returned by POST /simulate.
type SimulateResponse struct {
	*domain.CohortResult
	CountsByLabel map[string]int `json:"counts_by_label"`
	Proportions   []float64      `json:"proportions"`
	MeanLength    float64        `json:"mean_length"`
}

// ExpectedResponse is the body returned by GET /expected.
type ExpectedResponse struct {
	Labels       []string  `json:"labels"`
	Start        int       `json:"start"`
	Steps        int       `json:"steps"`
	Distribution []float64 `json:"distribution"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	m := s.Simulator.Model()
	writeJSON(w, http.StatusOK, map[string]any{
		"app":     "markov-http",
		"version": strings.TrimSpace(markov.Version),
		"model":   m.Origin,
		"states":  m.NumStates(),
		"steps":   s.Simulator.Steps(),
	})
}

// GetModel handles the GET /model request.
func (s *Server) GetModel(w http.ResponseWriter, r *http.Request) {
	doc := dto.FromModel(s.Simulator.Model().Origin, s.Simulator.Model())
	doc.Steps = s.Simulator.Steps()
	writeJSON(w, http.StatusOK, doc)
}

// GetGraph handles the GET /model/graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(s.Simulator.Model(), nil))
}

// Simulate handles the POST /simulate request.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var body SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.Logger.Warn("Simulate: Invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Patients > s.MaxPatients {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("patients must be at most %d", s.MaxPatients))
		return
	}

	sim := s.Simulator
	if body.Seed != nil {
		forked, err := sim.Fork(*body.Seed)
		if err != nil {
			s.fail(w, "Simulate: Fork failed", err)
			return
		}
		sim = forked
	}

	var (
		result *domain.CohortResult
		err    error
	)
	if body.Initial != nil {
		result, err = sim.SimulateCohortFrom(r.Context(), body.Patients, body.Initial)
	} else {
		start, serr := parseStart(sim.Model(), body.Start)
		if serr != nil {
			writeError(w, http.StatusBadRequest, serr.Error())
			return
		}
		result, err = sim.SimulateCohort(r.Context(), body.Patients, start)
	}
	if err != nil {
		s.fail(w, "Simulate failed", err)
		return
	}

	resp := SimulateResponse{
		CohortResult:  result,
		CountsByLabel: result.CountsByLabel(),
		Proportions:   result.Proportions(),
		MeanLength:    result.MeanLength(),
	}
	if !body.IncludeTrajectories {
		trimmed := *result
		trimmed.Trajectories = nil
		resp.CohortResult = &trimmed
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetExpected handles the GET /expected request.
func (s *Server) GetExpected(w http.ResponseWriter, r *http.Request) {
	m := s.Simulator.Model()
	q := r.URL.Query()

	var raw json.RawMessage
	if v := q.Get("start"); v != "" {
		raw, _ = json.Marshal(v)
	}
	start, err := parseStart(m, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	steps := s.Simulator.Steps()
	if v := q.Get("steps"); v != "" {
		steps, err = strconv.Atoi(v)
		if err != nil || steps < 0 {
			writeError(w, http.StatusBadRequest, "steps must be a non-negative integer")
			return
		}
	}

	dist, err := s.Simulator.ExpectedDistribution(start, steps)
	if err != nil {
		s.fail(w, "Expected failed", err)
		return
	}
	writeJSON(w, http.StatusOK, ExpectedResponse{
		Labels:       m.Labels(),
		Start:        start,
		Steps:        steps,
		Distribution: dist,
	})
}

// ListModels handles the GET /models request.
func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, "ListModels failed", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"models": names})
}

// GetStoredModel handles the GET /models/{name} request.
func (s *Server) GetStoredModel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	m, err := s.Store.Load(r.Context(), name)
	if err != nil {
		s.fail(w, "GetStoredModel failed", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FromModel(name, m))
}

// PutStoredModel handles the PUT /models/{name} request.
func (s *Server) PutStoredModel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.Logger.Warn("PutStoredModel: Invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doc, err := dto.Decode(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := doc.ToModel()
	if err != nil {
		s.fail(w, "PutStoredModel: Invalid model", err)
		return
	}
	if err := s.Store.Save(r.Context(), name, m); err != nil {
		s.fail(w, "PutStoredModel failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.FromModel(name, m))
}

// DeleteStoredModel handles the DELETE /models/{name} request.
func (s *Server) DeleteStoredModel(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.fail(w, "DeleteStoredModel failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseStart accepts a state label, a numeric index, or nothing (state 0).
func parseStart(m *domain.Model, raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var idx int
	if err := json.Unmarshal(raw, &idx); err == nil {
		return idx, m.ValidateState(idx)
	}

	var label string
	if err := json.Unmarshal(raw, &label); err != nil {
		return 0, fmt.Errorf("start must be a state label or index")
	}
	if i, ok := m.Index(label); ok {
		return i, nil
	}
	if i, err := strconv.Atoi(label); err == nil {
		return i, m.ValidateState(i)
	}
	return 0, fmt.Errorf("%w: unknown state %q", domain.ErrInvalidState, label)
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(msg, "error", err)
	} else {
		s.Logger.Warn(msg, "error", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidModel),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidCohort):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrModelNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
