// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	VisaClassifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visa_classifications_total",
			Help: "Visa evaluation results by visa code and status",
		},
		[]string{"visa_code", "status"},
	)

	EvaluationCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visa_evaluation_cache_lookups_total",
			Help: "Result cache lookups by outcome (hit, miss)",
		},
		[]string{"result"},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visa_catalog_reloads_total",
			Help: "Catalog load attempts by outcome (success, failure)",
		},
		[]string{"result"},
	)

	CatalogRules = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "visa_catalog_rules",
			Help: "Number of rules in the active visa catalog",
		},
	)
)

// ObserveCompatibility counts one evaluation's results per visa.
func ObserveCompatibility(eligible, conditional, blocked []string) {
	for _, code := range eligible {
		VisaClassifications.WithLabelValues(code, "eligible").Inc()
	}
	for _, code := range conditional {
		VisaClassifications.WithLabelValues(code, "conditional").Inc()
	}
	for _, code := range blocked {
		VisaClassifications.WithLabelValues(code, "blocked").Inc()
	}
}
