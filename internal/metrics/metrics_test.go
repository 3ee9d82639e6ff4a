package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	r.ObserveRender(5*time.Millisecond, nil)
	r.ObserveRender(5*time.Millisecond, nil)
	r.ObserveRender(time.Millisecond, errors.New("boom"))
	r.ObservePrediction("At Risk")
	r.SetAccuracy(0.9)
	r.SetDatasetRows(649)
	r.SetStage(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.renders.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.renders.WithLabelValues(OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.predictions.WithLabelValues("At Risk")))
	assert.Equal(t, 0.9, testutil.ToFloat64(r.accuracy))
	assert.Equal(t, 649.0, testutil.ToFloat64(r.datasetRows))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.stage))
}

func TestHandler(t *testing.T) {
	r := NewRecorder()
	r.SetDatasetRows(10)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "riskdash_dataset_rows 10")
}
