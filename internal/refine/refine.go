// Package refine implements the refinement controller (component H): the
// outer loop that drives successive truncating-explorer passes with a
// shrinking kappa until the model's undecided probability mass falls inside
// the configured window, a maximum iteration count is hit, or the caller
// cancels.
package refine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/gerbs-11/stamina-cplusplus/internal/config"
	"github.com/gerbs-11/stamina-cplusplus/internal/equeue"
	"github.com/gerbs-11/stamina-cplusplus/internal/explorer"
	"github.com/gerbs-11/stamina-cplusplus/internal/model"
	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
	"github.com/gerbs-11/stamina-cplusplus/internal/prune"
	"github.com/gerbs-11/stamina-cplusplus/internal/registry"
	"github.com/gerbs-11/stamina-cplusplus/internal/stateindex"
	"github.com/gerbs-11/stamina-cplusplus/internal/store"
	"github.com/gerbs-11/stamina-cplusplus/internal/transbuf"
)

// ReachabilityEstimator returns the (p_min, p_max) bound used by spec §4.H's
// stopping test. The real STAMINA tool hands the built CTMC to an external
// probabilistic model checker (PRISM/Storm) for this; that checker is out of
// scope here (spec.md's Non-goals exclude a full CSL/CTL verifier), so the
// default estimator below approximates it from the truncation error itself:
// the undecided probability mass is exactly the sum of Pi still sitting on
// non-absorbing terminal states, so p_min = 1 - that mass and p_max = 1.
// Callers checking a specific property can supply their own estimator.
type ReachabilityEstimator func(mc *model.ModelComponents, reg *registry.Registry) (pMin, pMax float64)

// DefaultReachabilityEstimator is documented on ReachabilityEstimator.
func DefaultReachabilityEstimator(mc *model.ModelComponents, reg *registry.Registry) (pMin, pMax float64) {
	var undecided float64
	reg.All(func(s *registry.State) {
		if s.ID != oracle.Absorbing && s.Terminal {
			undecided += s.Pi
		}
	})
	return 1 - undecided, 1
}

// ProgressReporter receives a snapshot once per refinement iteration, so a
// caller can serve it over an embedded surface (internal/control.Monitor
// implements this interface structurally, with no import back into refine).
type ProgressReporter interface {
	Update(iteration int, kappa float64, reg interface {
		Len() int
		TerminalCount() int
	})
}

// Result is what Run returns: the finished model, the kappa and iteration
// count it converged (or stopped) at, and whether the caller cancelled before
// convergence.
type Result struct {
	Model      *model.ModelComponents
	Iterations int
	Kappa      float64
	// Cancelled mirrors spec.md §7: "not an error per se" — a cancelled Result
	// still carries a best-effort partial matrix, but callers must treat its
	// bounds as invalid.
	Cancelled bool
}

// Controller owns the state index, registry, and transition buffer across all
// passes of one refinement run (spec §5: "the state index store and the
// probability-state registry are exclusively owned by the controller").
type Controller struct {
	Oracle oracle.NextStateGenerator
	Cfg    *config.Config
	Pruner *prune.Pruner
	Logger *log.Logger

	Estimator ReachabilityEstimator

	// Reporter, if non-nil, is notified once per iteration with the latest
	// progress snapshot. Optional.
	Reporter ProgressReporter
	// Spill, if non-nil, is the opt-in sqlite-backed state spillover (spec
	// §5) every pass's Explorer persists newly discovered states to.
	// Optional.
	Spill *store.Store

	Index *stateindex.Store
	Reg   *registry.Registry
	Buf   *transbuf.Buffer
	Queue equeue.Queue
}

// New builds a Controller, seeding the state index with the absorbing state
// derived from the oracle's VariableInfo.
func New(o oracle.NextStateGenerator, cfg *config.Config, pruner *prune.Pruner) (*Controller, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if pruner == nil {
		pruner = prune.None()
	}
	idx, err := stateindex.New(explorer.BuildAbsorbingState(o.VariableInfo()))
	if err != nil {
		return nil, fmt.Errorf("refine: building state index: %w", err)
	}
	reg := registry.New()
	reg.GetOrInsert(oracle.Absorbing)

	return &Controller{
		Oracle:    o,
		Cfg:       cfg,
		Pruner:    pruner,
		Logger:    log.Default(),
		Estimator: DefaultReachabilityEstimator,
		Index:     idx,
		Reg:       reg,
		Buf:       transbuf.New(),
		Queue:     equeue.New(cfg.QueueMode),
	}, nil
}

// Run drives the full refinement loop per spec §4.H's pseudocode.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	initStates, err := c.Oracle.InitialStates()
	if err != nil {
		return nil, fmt.Errorf("refine: getting initial states: %w", err)
	}
	if len(initStates) == 0 {
		return nil, ErrNoInitialStates
	}

	initIDs := make([]oracle.StateID, 0, len(initStates))
	for _, s := range initStates {
		id, _ := c.Index.FindOrAdd(s)
		c.Reg.GetOrInsert(id)
		initIDs = append(initIDs, id)
	}

	kappa := c.Cfg.Kappa0

	// Pass 0: reset pi, pi[init]=1, run until the queue empties.
	c.seedAndRun(initIDs)
	if err := c.runPass(ctx, kappa); err != nil {
		return c.handlePassError(ctx, err, kappa, 0)
	}

	iteration := 0
	for c.Cfg.MaxIterations == 0 || iteration < c.Cfg.MaxIterations {
		passID := uuid.New()
		c.Logger.Printf("refine: pass %s iteration %d kappa %v", passID, iteration, kappa)
		if c.Reporter != nil {
			c.Reporter.Update(iteration, kappa, c.Reg)
		}

		mc, err := c.buildModel(ctx, true)
		if err != nil {
			return nil, err
		}
		if c.Cfg.ExportPerimeterStates != "" {
			if err := c.exportPerimeter(passID); err != nil {
				return nil, err
			}
		}

		pMin, pMax := c.Estimator(mc, c.Reg)
		if pMax-pMin <= c.Cfg.ProbabilityWindow {
			return &Result{Model: mc, Iterations: iteration, Kappa: kappa}, nil
		}

		kappa /= c.Cfg.ReduceKappaFactor
		iteration++

		reseeded := c.reseedQueue(kappa)
		if !reseeded {
			return &Result{Model: mc, Iterations: iteration, Kappa: kappa}, nil
		}

		if err := c.runPass(ctx, kappa); err != nil {
			return c.handlePassError(ctx, err, kappa, iteration)
		}
	}

	mc, err := c.buildModel(ctx, true)
	if err != nil {
		return nil, err
	}
	return &Result{Model: mc, Iterations: iteration, Kappa: kappa}, nil
}

// seedAndRun resets every state's Pi and pushes the initial states onto the
// queue at the start of pass 0.
func (c *Controller) seedAndRun(initIDs []oracle.StateID) {
	c.Reg.ResetPiForInitial(initIDs)
	for _, id := range initIDs {
		s := c.Reg.GetOrInsert(id)
		if !s.WasEnqueued {
			s.WasEnqueued = true
			c.Queue.Push(s)
		}
	}
}

// reseedQueue pushes every terminal, non-absorbing state whose Pi has risen
// to or above the new kappa, per spec §4.H's "re-seed queue with every state
// whose R.terminal && R.pi >= kappa". Reports whether anything was reseeded.
func (c *Controller) reseedQueue(kappa float64) bool {
	reseeded := false
	c.Reg.All(func(s *registry.State) {
		if s.ID == oracle.Absorbing {
			return
		}
		if s.Terminal && s.Pi >= kappa && !s.WasEnqueued {
			s.WasEnqueued = true
			c.Queue.Push(s)
			reseeded = true
		}
	})
	return reseeded
}

// runPass drives one explorer over the controller's shared collaborators.
func (c *Controller) runPass(ctx context.Context, kappa float64) error {
	exp := explorer.New(c.Oracle, c.Index, c.Reg, c.Queue, c.Buf, c.Pruner, kappa)
	exp.Logger = c.Logger
	exp.ProgressEvery = c.Cfg.ProgressEvery
	exp.Spill = c.Spill
	return exp.Run(ctx)
}

// handlePassError distinguishes cancellation (spec §5: still return a
// best-effort partial matrix) from a genuine propagated error.
func (c *Controller) handlePassError(ctx context.Context, err error, kappa float64, iteration int) (*Result, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		mc, buildErr := c.buildModel(context.Background(), false)
		if buildErr != nil {
			return nil, buildErr
		}
		return &Result{Model: mc, Iterations: iteration, Kappa: kappa, Cancelled: true}, nil
	}
	return nil, err
}

// buildModel produces the ModelComponents for the current state of
// exploration without mutating the controller's shared transition buffer.
// usePerimeter selects the tightened perimeter re-expansion variant of the
// absorbing-state handler (spec §4.F); cancellation uses the cheap default
// variant instead, since the oracle should not be asked to do more work on a
// context callers have already cancelled.
func (c *Controller) buildModel(ctx context.Context, usePerimeter bool) (*model.ModelComponents, error) {
	snapshot := c.Buf.Snapshot()
	if usePerimeter {
		if err := explorer.ConnectTerminalsPerimeter(ctx, c.Oracle, c.Index, c.Reg, snapshot); err != nil {
			return nil, fmt.Errorf("refine: connecting terminal states: %w", err)
		}
	} else {
		explorer.ConnectTerminalsDefault(c.Reg, snapshot)
	}

	labeling := c.buildLabeling()
	return model.Build(snapshot.Flush(), labeling, nil)
}

// buildLabeling asks the oracle to label every discovered state, per spec
// §6's "observability_class(s), label(...) — for downstream labelling".
func (c *Controller) buildLabeling() *model.StateLabeling {
	labeling := model.NewStateLabeling()
	for i := 0; i < c.Index.Len(); i++ {
		id := oracle.StateID(i)
		state := c.Index.Get(id)
		for _, l := range c.Oracle.Label(state) {
			labeling.Add(l, id)
		}
	}
	return labeling
}

// exportPerimeter writes the newline-delimited perimeter-state dump spec §6
// describes: one StateID followed by its variable values per line, for every
// terminal non-absorbing state. The file name carries passID so concurrent
// controller runs never clobber each other's dumps.
func (c *Controller) exportPerimeter(passID uuid.UUID) error {
	path := fmt.Sprintf("%s.%s", c.Cfg.ExportPerimeterStates, passID.String())
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("refine: creating perimeter dump %s: %w", path, err)
	}
	defer f.Close()

	var writeErr error
	c.Reg.All(func(s *registry.State) {
		if writeErr != nil || s.ID == oracle.Absorbing || !s.Terminal {
			return
		}
		state := c.Index.Get(s.ID)
		if _, err := fmt.Fprintf(f, "%d", s.ID); err != nil {
			writeErr = err
			return
		}
		for _, word := range state {
			if _, err := fmt.Fprintf(f, " %d", word); err != nil {
				writeErr = err
				return
			}
		}
		if _, err := fmt.Fprintln(f); err != nil {
			writeErr = err
		}
	})
	if writeErr != nil {
		return fmt.Errorf("refine: writing perimeter dump %s: %w", path, writeErr)
	}
	return nil
}
