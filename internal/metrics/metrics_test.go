package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/serroba/eightbin/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("counts collisions per namespace", func(t *testing.T) {
		m := metrics.New()

		m.Collision("root")
		m.Collision("root")
		m.Collision("f/")

		assert.InDelta(t, 2, testutil.ToFloat64(m.KeyCollisions.WithLabelValues("root")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.KeyCollisions.WithLabelValues("f/")), 0)
	})

	t.Run("labels uploads by alias kind", func(t *testing.T) {
		m := metrics.New()

		m.FileUploaded("application/pdf", false)
		m.FileUploaded("application/pdf", true)

		assert.InDelta(t, 1, testutil.ToFloat64(m.FilesUploaded.WithLabelValues("application/pdf", "generated")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.FilesUploaded.WithLabelValues("application/pdf", "custom")), 0)
	})

	t.Run("store latency records outcome", func(t *testing.T) {
		m := metrics.New()

		m.ObserveStore("put", time.Now(), nil)
		m.ObserveStore("put", time.Now(), errors.New("boom"))

		assert.Equal(t, 2, testutil.CollectAndCount(m.StoreLatency))
	})

	t.Run("instances do not share a registry", func(t *testing.T) {
		first := metrics.New()
		second := metrics.New()

		first.LinksCreated.Inc()

		assert.InDelta(t, 0, testutil.ToFloat64(second.LinksCreated), 0)
	})

	t.Run("handler exposes registered metrics", func(t *testing.T) {
		m := metrics.New()
		m.LinksCreated.Inc()
		m.RateLimited("write")

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "eightbin_links_created_total 1")
		assert.Contains(t, rec.Body.String(), `eightbin_rate_limit_rejections_total{scope="write"} 1`)
	})
}
