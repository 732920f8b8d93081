package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	t.Run("records builds with none for no section", func(t *testing.T) {
		m := NewMetrics()

		m.ObserveBuild("flow", "")
		m.ObserveBuild("flow", "MPMA")
		m.ObserveBuild("flow", "MPMA")

		assert.Equal(t, 1.0, testutil.ToFloat64(m.BuildsTotal.WithLabelValues("flow", "none")))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.BuildsTotal.WithLabelValues("flow", "MPMA")))
	})

	t.Run("ignores non-positive drop counts", func(t *testing.T) {
		m := NewMetrics()

		m.ObserveDropped(0)
		m.ObserveDropped(3)

		assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsDroppedTotal))
	})

	t.Run("fetch status follows the error", func(t *testing.T) {
		m := NewMetrics()

		m.ObserveFetch("allocators", nil, 10*time.Millisecond)
		m.ObserveFetch("audits", errors.New("boom"), time.Second)

		assert.Equal(t, 2, testutil.CollectAndCount(m.UpstreamFetchSeconds))
	})

	t.Run("nil metrics are a no-op", func(t *testing.T) {
		var m *Metrics

		assert.NotPanics(t, func() {
			m.ObserveBuild("flow", "")
			m.ObserveDropped(1)
			m.ObserveFetch("allocators", nil, time.Second)
			m.ObserveRequest(http.MethodGet, "/health", http.StatusOK)
		})
	})

	t.Run("handler exposes registered metrics", func(t *testing.T) {
		m := NewMetrics()
		m.ObserveRequest(http.MethodGet, "/v1/flow", http.StatusOK)

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "datacapflow_http_requests_total")
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	})
}
