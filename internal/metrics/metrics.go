// Package metrics exposes Prometheus collectors for the window hider.
// All Recorder methods are safe to call on a nil receiver.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "winhide"

// Recorder groups the collectors updated by the controller and enumerator.
type Recorder struct {
	registry *prometheus.Registry

	hidden        prometheus.Counter
	restored      prometheus.Counter
	dropped       prometheus.Counter
	callFailures  *prometheus.CounterVec
	hiddenWindows prometheus.Gauge
	enumerate     prometheus.Histogram
	enumerated    prometheus.Gauge
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		hidden: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "windows_hidden_total",
			Help:      "Windows hidden.",
		}),
		restored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "windows_restored_total",
			Help:      "Windows restored.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hidden_entries_dropped_total",
			Help:      "Hidden entries dropped because the window vanished.",
		}),
		callFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "window_call_failures_total",
			Help:      "Failed window-system calls by operation.",
		}, []string{"op"}),
		hiddenWindows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hidden_windows",
			Help:      "Windows currently tracked as hidden.",
		}),
		enumerate: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enumerate_duration_seconds",
			Help:      "Time spent enumerating windows.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}),
		enumerated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "enumerated_windows",
			Help:      "Windows returned by the last enumeration.",
		}),
	}

	r.registry.MustRegister(
		r.hidden,
		r.restored,
		r.dropped,
		r.callFailures,
		r.hiddenWindows,
		r.enumerate,
		r.enumerated,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) WindowHidden() {
	if r != nil {
		r.hidden.Inc()
	}
}

func (r *Recorder) WindowRestored() {
	if r != nil {
		r.restored.Inc()
	}
}

func (r *Recorder) EntryDropped() {
	if r != nil {
		r.dropped.Inc()
	}
}

// CallFailed counts a failed window-system call.
func (r *Recorder) CallFailed(op string) {
	if r != nil {
		r.callFailures.WithLabelValues(op).Inc()
	}
}

// SetHidden records the HiddenSet size.
func (r *Recorder) SetHidden(n int) {
	if r != nil {
		r.hiddenWindows.Set(float64(n))
	}
}

// ObserveEnumeration records one enumeration pass.
func (r *Recorder) ObserveEnumeration(d time.Duration, windows int) {
	if r != nil {
		r.enumerate.Observe(d.Seconds())
		r.enumerated.Set(float64(windows))
	}
}
