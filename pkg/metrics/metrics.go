// Package metrics exposes Prometheus collectors for the appliance loops.
//
// All methods are safe to call on a nil *Metrics, so components can run
// without a registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/timeheart/lumina/pkg/timeinfo"
)

const namespace = "lumina"

// Metrics groups the appliance collectors.
type Metrics struct {
	framesRendered prometheus.Counter
	rtcReadErrors  prometheus.Counter
	lockHold       prometheus.Histogram
	waveforms      *prometheus.CounterVec
	anniversary    prometheus.Gauge
	elapsed        *prometheus.GaugeVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		framesRendered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "display_frames_total",
			Help:      "Number of full ten-digit display frames rendered",
		}),
		rtcReadErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rtc_read_errors_total",
			Help:      "Number of failed time source reads",
		}),
		lockHold: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "state_lock_hold_seconds",
			Help:      "Time the shared clock state lock was held",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		waveforms: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indicator_waveforms_total",
			Help:      "Number of indicator waveforms played",
		}, []string{"waveform"}),
		anniversary: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "anniversary_match",
			Help:      "1 while the current minute matches the anniversary",
		}),
		elapsed: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "elapsed",
			Help:      "Elapsed interval since the anniversary, per unit",
		}, []string{"unit"}),
	}
}

// FrameRendered counts one display frame.
func (m *Metrics) FrameRendered() {
	if m == nil {
		return
	}
	m.framesRendered.Inc()
}

// RTCReadFailed counts one failed time source read.
func (m *Metrics) RTCReadFailed() {
	if m == nil {
		return
	}
	m.rtcReadErrors.Inc()
}

// ObserveLockHold records how long the state lock was held.
func (m *Metrics) ObserveLockHold(d time.Duration) {
	if m == nil {
		return
	}
	m.lockHold.Observe(d.Seconds())
}

// WaveformPlayed counts one indicator waveform and records the match state.
func (m *Metrics) WaveformPlayed(name string, matched bool) {
	if m == nil {
		return
	}
	m.waveforms.WithLabelValues(name).Inc()
	if matched {
		m.anniversary.Set(1)
	} else {
		m.anniversary.Set(0)
	}
}

// SetElapsed publishes the displayed interval.
func (m *Metrics) SetElapsed(e timeinfo.Elapsed) {
	if m == nil {
		return
	}
	m.elapsed.WithLabelValues("years").Set(float64(e.Years))
	m.elapsed.WithLabelValues("months").Set(float64(e.Months))
	m.elapsed.WithLabelValues("days").Set(float64(e.Days))
	m.elapsed.WithLabelValues("hours").Set(float64(e.Hours))
	m.elapsed.WithLabelValues("minutes").Set(float64(e.Minutes))
	m.elapsed.WithLabelValues("seconds").Set(float64(e.Seconds))
}
