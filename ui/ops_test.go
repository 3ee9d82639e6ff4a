package ui

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studentrisk/internal/metrics"
)

func TestOpsRouter(t *testing.T) {
	rec := metrics.NewRecorder()
	sess := newSession(t, gradeRows(), rec)
	ops := NewOpsRouter(sess, rec)

	health := get(t, ops, "/healthz")
	require.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"stage":"ready"`)

	m := get(t, ops, "/metrics")
	require.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "riskdash_dataset_rows 10")
	assert.Contains(t, m.Body.String(), "riskdash_model_accuracy")

	pprof := get(t, ops, "/debug/pprof/")
	assert.Equal(t, http.StatusOK, pprof.Code)
}

func TestOpsRouterHalted(t *testing.T) {
	sess := newSession(t, [][]string{{"school"}, {"GP"}}, nil)
	ops := NewOpsRouter(sess, nil)

	health := get(t, ops, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, health.Code)
	assert.Contains(t, health.Body.String(), `"stage":"halted"`)

	assert.Equal(t, http.StatusNotFound, get(t, ops, "/metrics").Code)
}
