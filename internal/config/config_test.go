package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerbs-11/stamina-cplusplus/internal/equeue"
)

func TestNewAppliesDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, 1e-3, c.Kappa0)
	assert.Equal(t, 1.25, c.ReduceKappaFactor)
	assert.Equal(t, equeue.FIFO, c.QueueMode)
	assert.True(t, c.PropertyRefinement)
}

func TestNewAppliesOptionsOverDefaults(t *testing.T) {
	c := New(
		WithKappa0(0.01),
		WithQueueMode(equeue.FIFO),
		WithPropertyRefinement(false),
		WithMaxIterations(5),
	)
	assert.Equal(t, 0.01, c.Kappa0)
	assert.Equal(t, equeue.FIFO, c.QueueMode)
	assert.False(t, c.PropertyRefinement)
	assert.Equal(t, 5, c.MaxIterations)
}

func TestFromYAMLOverridesOnlyPresentFields(t *testing.T) {
	doc := `
kappa_0: 0.05
queue_mode: fifo
no_prop_refine: true
progress_every: 500
`
	c, err := FromYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 0.05, c.Kappa0)
	assert.Equal(t, equeue.FIFO, c.QueueMode)
	assert.False(t, c.PropertyRefinement)
	assert.Equal(t, 500, c.ProgressEvery)
	// untouched field keeps its default
	assert.Equal(t, 1.25, c.ReduceKappaFactor)
}

func TestFromYAMLRejectsUnknownFields(t *testing.T) {
	_, err := FromYAML(strings.NewReader("not_a_real_field: 1\n"))
	assert.Error(t, err)
}

func TestFromYAMLRejectsUnknownQueueMode(t *testing.T) {
	_, err := FromYAML(strings.NewReader("queue_mode: round_robin\n"))
	assert.Error(t, err)
}

func TestFromEnvOverridesFromEnvironment(t *testing.T) {
	t.Setenv("STAMINA_KAPPA0", "0.25")
	t.Setenv("STAMINA_QUEUE_MODE", "fifo")
	t.Setenv("STAMINA_NO_PROP_REFINE", "true")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 0.25, c.Kappa0)
	assert.Equal(t, equeue.FIFO, c.QueueMode)
	assert.False(t, c.PropertyRefinement)
}

func TestFromEnvRejectsBadValue(t *testing.T) {
	t.Setenv("STAMINA_KAPPA0", "not-a-float")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnvOverridesProgressEvery(t *testing.T) {
	t.Setenv("STAMINA_PROGRESS_EVERY", "1000")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 1000, c.ProgressEvery)
}

func TestWithProgressEveryOverridesDefault(t *testing.T) {
	c := New(WithProgressEvery(250))
	assert.Equal(t, 250, c.ProgressEvery)
}
