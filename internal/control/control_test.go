package control

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerbs-11/stamina-cplusplus/internal/oracle"
	"github.com/gerbs-11/stamina-cplusplus/internal/registry"
)

func TestStatusReflectsLastUpdate(t *testing.T) {
	m := NewMonitor(func() {})
	reg := registry.New()
	reg.GetOrInsert(oracle.Absorbing)
	reg.GetOrInsert(1)

	m.Update(2, 0.05, reg)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	NewRouter(m).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var status Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, 2, status.Iteration)
	assert.Equal(t, 0.05, status.Kappa)
	assert.Equal(t, 2, status.ExploredStates)
}

func TestCancelInvokesCancelFuncAndFlagsStatus(t *testing.T) {
	called := false
	m := NewMonitor(func() { called = true })

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cancel", nil)
	NewRouter(m).ServeHTTP(rr, req)

	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.True(t, called)
	assert.True(t, m.Snapshot().Cancelled)
}

func TestNewMonitorAcceptsNilCancel(t *testing.T) {
	m := NewMonitor(nil)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cancel", nil)
	assert.NotPanics(t, func() {
		NewRouter(m).ServeHTTP(rr, req)
	})
}
