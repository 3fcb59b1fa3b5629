// Package config configures a refinement run: the initial kappa threshold, how
// fast it shrinks between passes, the probability-window convergence bound,
// and the handful of other knobs named in spec §4.H and §6.
//
// Options are expressed as small structs implementing the Option interface's
// apply method, which New calls in order, mirroring the functional-options
// idiom used throughout the teacher repo's config package (config.RunOptions,
// config.SimulatorOption).
package config

import (
	"github.com/gerbs-11/stamina-cplusplus/internal/equeue"
)

// Config holds every tunable of a refinement run. Zero value is never valid on
// its own; use New to get the documented defaults.
type Config struct {
	// Kappa0 is the starting truncation threshold (spec §4.H: kappa_0).
	Kappa0 float64
	// ReduceKappaFactor divides Kappa by this amount between passes.
	ReduceKappaFactor float64
	// ProbabilityWindow is the convergence bound on p_max - p_min as reported
	// by the refinement controller's estimator. With the default estimator
	// that difference is the Pi mass still on terminal states, so refinement
	// stops once that mass is at most this window.
	ProbabilityWindow float64
	// MaxIterations bounds the number of refinement passes regardless of
	// convergence. 0 means unbounded.
	MaxIterations int
	// QueueMode selects FIFO or priority-ordered exploration (spec §4.C).
	QueueMode equeue.Mode
	// PropertyRefinement enables the property-guided pruner (component I).
	// Disabling it corresponds to spec's "no_prop_refine" switch.
	PropertyRefinement bool
	// ExportPerimeterStates, if non-empty, is the path prefix of the terminal
	// perimeter dump the refinement controller writes after each pass (spec
	// §6); each dump goes to "<prefix>.<pass uuid>".
	ExportPerimeterStates string
	// ProgressEvery, if non-zero, makes the explorer log a progress message
	// every ProgressEvery expansions within a pass, the Go-native counterpart
	// to STAMINA's MSG_FREQUENCY/isShowProgressSet throttling. 0 disables it.
	ProgressEvery int
}

// defaults mirror STAMINA's reference CLI defaults (kappa_0 = 1e-3,
// reduce_kappa = 1.25, probability_window = 1e-3), adjusted for a library
// entry point that never parses a command line itself.
func defaults() Config {
	return Config{
		Kappa0:             1e-3,
		ReduceKappaFactor:  1.25,
		ProbabilityWindow:  1e-3,
		MaxIterations:      0,
		QueueMode:          equeue.FIFO,
		PropertyRefinement: true,
	}
}

// Option configures a Config. Constructed by the With* functions below; never
// implemented outside this package.
type Option interface {
	apply(*Config)
}

type kappa0Option struct{ v float64 }

func (o kappa0Option) apply(c *Config) { c.Kappa0 = o.v }

// WithKappa0 sets the starting truncation threshold.
func WithKappa0(k float64) Option { return kappa0Option{v: k} }

type reduceKappaOption struct{ v float64 }

func (o reduceKappaOption) apply(c *Config) { c.ReduceKappaFactor = o.v }

// WithReduceKappaFactor sets the per-pass kappa reduction factor. Must be > 1.
func WithReduceKappaFactor(f float64) Option { return reduceKappaOption{v: f} }

type probabilityWindowOption struct{ v float64 }

func (o probabilityWindowOption) apply(c *Config) { c.ProbabilityWindow = o.v }

// WithProbabilityWindow sets the convergence bound on the absorbing state's
// accumulated mass.
func WithProbabilityWindow(w float64) Option { return probabilityWindowOption{v: w} }

type maxIterationsOption struct{ v int }

func (o maxIterationsOption) apply(c *Config) { c.MaxIterations = o.v }

// WithMaxIterations caps the number of refinement passes. 0 means unbounded.
func WithMaxIterations(n int) Option { return maxIterationsOption{v: n} }

type queueModeOption struct{ v equeue.Mode }

func (o queueModeOption) apply(c *Config) { c.QueueMode = o.v }

// WithQueueMode selects the exploration queue's ordering discipline.
func WithQueueMode(m equeue.Mode) Option { return queueModeOption{v: m} }

type propertyRefinementOption struct{ v bool }

func (o propertyRefinementOption) apply(c *Config) { c.PropertyRefinement = o.v }

// WithPropertyRefinement enables or disables the property-guided pruner.
func WithPropertyRefinement(enabled bool) Option { return propertyRefinementOption{v: enabled} }

type exportPerimeterOption struct{ v string }

func (o exportPerimeterOption) apply(c *Config) { c.ExportPerimeterStates = o.v }

// WithExportPerimeterStates configures the refinement controller to dump the
// terminal perimeter to "<path>.<pass uuid>" after every pass.
func WithExportPerimeterStates(path string) Option { return exportPerimeterOption{v: path} }

type progressEveryOption struct{ v int }

func (o progressEveryOption) apply(c *Config) { c.ProgressEvery = o.v }

// WithProgressEvery enables a progress log message every n expansions within
// a pass. n<=0 disables it.
func WithProgressEvery(n int) Option { return progressEveryOption{v: n} }

// New builds a Config from defaults, then applies opts in order.
func New(opts ...Option) *Config {
	c := defaults()
	for _, opt := range opts {
		opt.apply(&c)
	}
	return &c
}
