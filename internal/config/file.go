package config

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gerbs-11/stamina-cplusplus/internal/equeue"
)

// fileConfig is the on-disk shape accepted by FromYAML. Field names are the
// lowercase snake_case spellings used by STAMINA's own config file, so a
// config written for the reference tool can be reused here unchanged.
type fileConfig struct {
	Kappa0                float64 `yaml:"kappa_0"`
	ReduceKappa           float64 `yaml:"reduce_kappa"`
	ProbabilityWindow     float64 `yaml:"probability_window"`
	MaxIterations         int     `yaml:"max_iterations"`
	QueueMode             string  `yaml:"queue_mode"`
	NoPropRefine          bool    `yaml:"no_prop_refine"`
	ExportPerimeterStates string  `yaml:"export_perimeter_states"`
	ProgressEvery         int     `yaml:"progress_every"`
}

// FromYAML reads a Config from r, applying the documented defaults to any
// field absent from the document. Unknown fields are an error, since a typo'd
// key silently keeping the default is a common config-file footgun.
func FromYAML(r io.Reader) (*Config, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decoding yaml: %w", err)
	}

	c := defaults()
	if fc.Kappa0 != 0 {
		c.Kappa0 = fc.Kappa0
	}
	if fc.ReduceKappa != 0 {
		c.ReduceKappaFactor = fc.ReduceKappa
	}
	if fc.ProbabilityWindow != 0 {
		c.ProbabilityWindow = fc.ProbabilityWindow
	}
	c.MaxIterations = fc.MaxIterations
	if fc.QueueMode != "" {
		mode, err := parseQueueMode(fc.QueueMode)
		if err != nil {
			return nil, err
		}
		c.QueueMode = mode
	}
	c.PropertyRefinement = !fc.NoPropRefine
	c.ExportPerimeterStates = fc.ExportPerimeterStates
	c.ProgressEvery = fc.ProgressEvery
	return &c, nil
}

func parseQueueMode(s string) (equeue.Mode, error) {
	switch s {
	case "fifo":
		return equeue.FIFO, nil
	case "priority":
		return equeue.Priority, nil
	default:
		return 0, fmt.Errorf("config: unknown queue_mode %q, want \"fifo\" or \"priority\"", s)
	}
}

// envPrefix namespaces every environment variable FromEnv reads.
const envPrefix = "STAMINA_"

// FromEnv builds a Config from defaults overridden by any STAMINA_* variable
// present in the environment, for deployments that configure by environment
// rather than by file.
func FromEnv() (*Config, error) {
	c := defaults()

	if v, ok := os.LookupEnv(envPrefix + "KAPPA0"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("config: %sKAPPA0: %w", envPrefix, err)
		}
		c.Kappa0 = f
	}
	if v, ok := os.LookupEnv(envPrefix + "REDUCE_KAPPA"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("config: %sREDUCE_KAPPA: %w", envPrefix, err)
		}
		c.ReduceKappaFactor = f
	}
	if v, ok := os.LookupEnv(envPrefix + "PROBABILITY_WINDOW"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("config: %sPROBABILITY_WINDOW: %w", envPrefix, err)
		}
		c.ProbabilityWindow = f
	}
	if v, ok := os.LookupEnv(envPrefix + "MAX_ITERATIONS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: %sMAX_ITERATIONS: %w", envPrefix, err)
		}
		c.MaxIterations = n
	}
	if v, ok := os.LookupEnv(envPrefix + "QUEUE_MODE"); ok {
		mode, err := parseQueueMode(v)
		if err != nil {
			return nil, err
		}
		c.QueueMode = mode
	}
	if v, ok := os.LookupEnv(envPrefix + "NO_PROP_REFINE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config: %sNO_PROP_REFINE: %w", envPrefix, err)
		}
		c.PropertyRefinement = !b
	}
	if v, ok := os.LookupEnv(envPrefix + "EXPORT_PERIMETER_STATES"); ok {
		c.ExportPerimeterStates = v
	}
	if v, ok := os.LookupEnv(envPrefix + "PROGRESS_EVERY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: %sPROGRESS_EVERY: %w", envPrefix, err)
		}
		c.ProgressEvery = n
	}
	return &c, nil
}
