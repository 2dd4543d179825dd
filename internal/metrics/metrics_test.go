package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := New()
	r.WindowHidden()
	r.WindowHidden()
	r.WindowRestored()
	r.EntryDropped()
	r.CallFailed("SetBounds")
	r.SetHidden(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.hidden))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.restored))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.dropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.callFailures.WithLabelValues("SetBounds")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.hiddenWindows))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.WindowHidden()
		r.WindowRestored()
		r.EntryDropped()
		r.CallFailed("x")
		r.SetHidden(1)
		r.ObserveEnumeration(time.Millisecond, 2)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.ObserveEnumeration(10*time.Millisecond, 4)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "winhide_enumerated_windows 4"))
	assert.True(t, strings.Contains(body, "winhide_enumerate_duration_seconds_count 1"))
}
