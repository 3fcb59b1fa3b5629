// Package stamina is the single entry point client code uses to run a
// truncated-CTMC refinement over a NextStateGenerator, mirroring the teacher
// repo's root gomc package (PrepareSimulation/Simulation): configure once,
// then Run.
package stamina

import (
	"context"

	"github.com/gerbs-11/stamina-cplusplus/internal/config"
	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
	"github.com/gerbs-11/stamina-cplusplus/internal/prune"
	"github.com/gerbs-11/stamina-cplusplus/internal/refine"
	"github.com/gerbs-11/stamina-cplusplus/internal/store"
)

// Exploration holds a configured, not-yet-run refinement over one oracle. Only
// one Run should be in flight on an Exploration at a time: the underlying
// Controller exclusively owns its state index, registry, and exploration
// queue across all passes of a run.
type Exploration struct {
	ctrl *refine.Controller
}

// New configures an Exploration over o. Options are the same
// config.Option values accepted by config.New.
func New(o oracle.NextStateGenerator, opts ...config.Option) (*Exploration, error) {
	ctrl, err := refine.New(o, config.New(opts...), prune.None())
	if err != nil {
		return nil, err
	}
	return &Exploration{ctrl: ctrl}, nil
}

// WithPruner installs a property-guided pruner (component I), replacing the
// no-op default. Must be called before Run.
func (e *Exploration) WithPruner(p *prune.Pruner) *Exploration {
	e.ctrl.Pruner = p
	return e
}

// WithEstimator overrides the reachability-bound estimator the refinement
// loop checks against the configured probability window. Must be called
// before Run.
func (e *Exploration) WithEstimator(estimator refine.ReachabilityEstimator) *Exploration {
	e.ctrl.Estimator = estimator
	return e
}

// WithSpillStore installs an opt-in sqlite-backed state spillover: every pass
// persists newly discovered states to s as they are assigned an id (spec §5).
// Must be called before Run.
func (e *Exploration) WithSpillStore(s *store.Store) *Exploration {
	e.ctrl.Spill = s
	return e
}

// WithProgressReporter installs a collaborator notified once per refinement
// iteration with the current progress snapshot (internal/control.Monitor
// implements this). Must be called before Run.
func (e *Exploration) WithProgressReporter(r refine.ProgressReporter) *Exploration {
	e.ctrl.Reporter = r
	return e
}

// Run drives the refinement loop to completion, convergence, or
// cancellation, and returns the resulting model.
func (e *Exploration) Run(ctx context.Context) (*refine.Result, error) {
	return e.ctrl.Run(ctx)
}
