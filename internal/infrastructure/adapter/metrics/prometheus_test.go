package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/lock-ledger/internal/domain/port/core"
)

func TestPrometheusRecorder(t *testing.T) {
	recorder := NewPrometheusRecorder(prometheus.NewRegistry())

	recorder.ObserveOperation("lock", core.OutcomeSuccess, core.Duration(5*time.Millisecond))
	recorder.ObserveOperation("lock", core.OutcomeSuccess, core.Duration(time.Millisecond))
	recorder.ObserveOperation("lock", core.OutcomeRejected, 0)
	recorder.AddLocked(150)
	recorder.AddReleased(100)
	recorder.SetEscrowBalance(50)

	assert.Equal(t, float64(2), testutil.ToFloat64(recorder.operations.WithLabelValues("lock", core.OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(recorder.operations.WithLabelValues("lock", core.OutcomeRejected)))
	assert.Equal(t, float64(150), testutil.ToFloat64(recorder.locked))
	assert.Equal(t, float64(100), testutil.ToFloat64(recorder.released))
	assert.Equal(t, float64(50), testutil.ToFloat64(recorder.escrow))
}

func TestPrometheusRecorder_Handler(t *testing.T) {
	recorder := NewPrometheusRecorder(prometheus.NewRegistry())
	recorder.SetEscrowBalance(42)

	rec := httptest.NewRecorder()
	recorder.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "lockledger_escrow_balance 42"))
}
