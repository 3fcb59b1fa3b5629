// Package control exposes an optional HTTP status/cancellation surface for a
// long-running refinement, as an embeddable http.Handler (not a CLI): callers
// mount it inside whatever chi.Router their own service already runs.
// Grounded in the pack's chi-based HTTP services (hazyhaar-chrc's gateway
// service registers its routes the same way: chi.NewRouter, then Get/Post).
package control

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/gerbs-11/stamina-cplusplus/internal/refine"
)

// Status is the JSON body returned by GET /status.
type Status struct {
	Iteration       int     `json:"iteration"`
	Kappa           float64 `json:"kappa"`
	ExploredStates  int     `json:"explored_states"`
	TerminalStates  int     `json:"terminal_states"`
	Cancelled       bool    `json:"cancelled"`
}

// Monitor tracks one in-flight refinement and serves it over HTTP. The
// refinement controller updates the monitor's fields as it progresses;
// handlers only ever read a consistent snapshot.
type Monitor struct {
	cancel context.CancelFunc

	mu     sync.RWMutex
	status Status

	cancelled atomic.Bool
}

// NewMonitor wraps cancel (typically the CancelFunc of the context.Context a
// refine.Controller.Run call was started with) so POST /cancel can invoke it.
func NewMonitor(cancel context.CancelFunc) *Monitor {
	return &Monitor{cancel: cancel}
}

// Monitor satisfies refine.ProgressReporter, so it can be installed directly
// via Exploration.WithProgressReporter and kept current as a run progresses.
var _ refine.ProgressReporter = (*Monitor)(nil)

// Update records the latest progress snapshot. Safe to call concurrently with
// the HTTP handlers.
func (m *Monitor) Update(iteration int, kappa float64, reg interface {
	Len() int
	TerminalCount() int
}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = Status{
		Iteration:      iteration,
		Kappa:          kappa,
		ExploredStates: reg.Len(),
		TerminalStates: reg.TerminalCount(),
		Cancelled:      m.cancelled.Load(),
	}
}

// Snapshot returns the last status Update recorded, with Cancelled set once
// POST /cancel has been handled.
func (m *Monitor) Snapshot() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Routes mounts GET /status and POST /cancel onto r.
func (m *Monitor) Routes(r chi.Router) {
	r.Get("/status", m.handleStatus)
	r.Post("/cancel", m.handleCancel)
}

func (m *Monitor) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.Snapshot())
}

func (m *Monitor) handleCancel(w http.ResponseWriter, r *http.Request) {
	m.cancelled.Store(true)
	m.mu.Lock()
	m.status.Cancelled = true
	m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
	w.WriteHeader(http.StatusAccepted)
}

// NewRouter builds a standalone chi.Router exposing m's routes, for callers
// who want a ready-to-serve handler rather than mounting into an existing one.
func NewRouter(m *Monitor) http.Handler {
	r := chi.NewRouter()
	m.Routes(r)
	return r
}

// ResultStatus converts a finished refine.Result into a terminal Status, for
// reporting after Run has already returned.
func ResultStatus(res *refine.Result) Status {
	return Status{
		Iteration: res.Iterations,
		Kappa:     res.Kappa,
		Cancelled: res.Cancelled,
	}
}
