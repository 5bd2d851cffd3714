package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the Prometheus collectors of one run. Each run owns its
// registry so concurrent runs never share series.
type Recorder struct {
	Registry *prometheus.Registry

	days         prometheus.Counter
	years        *prometheus.CounterVec
	soilC        prometheus.Gauge
	totalC       prometheus.Gauge
	trend        prometheus.Gauge
	drift        *prometheus.GaugeVec
	yearDuration prometheus.Histogram
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		Registry: reg,
		days: f.NewCounter(prometheus.CounterOpts{
			Name: "ecosim_days_simulated_total",
			Help: "Simulated days completed.",
		}),
		years: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ecosim_years_simulated_total",
			Help: "Simulated years completed, by run mode.",
		}, []string{"mode"}),
		soilC: f.NewGauge(prometheus.GaugeOpts{
			Name: "ecosim_soil_carbon_kg_m2",
			Help: "Soil organic carbon at the end of the last year.",
		}),
		totalC: f.NewGauge(prometheus.GaugeOpts{
			Name: "ecosim_total_carbon_kg_m2",
			Help: "Total ecosystem carbon at the end of the last year.",
		}),
		trend: f.NewGauge(prometheus.GaugeOpts{
			Name: "ecosim_spinup_trend",
			Help: "Last measured spinup soil carbon trend, kgC m-2 yr-1.",
		}),
		drift: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ecosim_balance_drift",
			Help: "Largest day-to-day balance change seen, by domain.",
		}, []string{"domain"}),
		yearDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ecosim_year_duration_seconds",
			Help:    "Wall time per simulated year.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}
}

func (r *Recorder) Day() { r.days.Inc() }

// Year records the end of a simulated year.
func (r *Recorder) Year(mode string, soilC, totalC, seconds float64) {
	r.years.WithLabelValues(mode).Inc()
	r.soilC.Set(soilC)
	r.totalC.Set(totalC)
	r.yearDuration.Observe(seconds)
}

func (r *Recorder) SpinupTrend(t float64) { r.trend.Set(t) }

func (r *Recorder) BalanceDrift(domain string, v float64) {
	r.drift.WithLabelValues(domain).Set(v)
}

// WriteTextfile dumps the registry in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
