// Package metrics provides Prometheus metrics for the planner.
// Report gauges describe the latest computed report; counters track API and
// store activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warp/resource-planner/planning"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// REPORT METRICS - Planning health
// =============================================================================

// OverallocatedResources is the number of resources with any day above 100%.
var OverallocatedResources = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "overallocated_resources",
	Help:      "Resources booked above 100% on at least one day in the report period",
})

// ConflictDays is the number of (resource, day) conflicts.
var ConflictDays = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "conflict_days",
	Help:      "Resource-days with combined allocation above 100%",
})

// ResourceUtilization is the per-resource utilization percentage.
var ResourceUtilization = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "resource_utilization_percent",
	Help:      "Utilization percentage per resource, capped at 100 per day",
}, []string{"resource", "type"})

// IntegrityIssues counts structural defects by kind.
var IntegrityIssues = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "integrity_issues",
	Help:      "Membership defects found by the integrity check",
}, []string{"kind"})

// DataErrors is the number of records skipped by the timeline builder.
var DataErrors = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "timeline_data_errors",
	Help:      "Projects or allocations skipped as malformed in the latest report",
})

// OverBudgetProjects is the number of projects whose cost exceeds budget.
var OverBudgetProjects = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "over_budget_projects",
	Help:      "Projects whose timeline cost exceeds the allocated budget",
})

// =============================================================================
// OPERATIONAL METRICS
// =============================================================================

// ReportBuildsTotal counts report builds.
var ReportBuildsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "planner",
	Name:      "report_builds_total",
	Help:      "Total number of reports computed",
})

// ReportBuildSeconds measures report build latency.
var ReportBuildSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "planner",
	Name:      "report_build_seconds",
	Help:      "Time spent computing a full report",
	Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
})

// DocumentSavesTotal counts document saves by result.
var DocumentSavesTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "planner",
	Name:      "document_saves_total",
	Help:      "Document saves by result (ok, error)",
}, []string{"result"})

// DocumentReloadsTotal counts reloads triggered by the file watcher.
var DocumentReloadsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "planner",
	Name:      "document_reloads_total",
	Help:      "Document reloads from disk by result (ok, error)",
}, []string{"result"})

// =============================================================================
// HELPERS
// =============================================================================

// RecordReport publishes the gauges for a freshly built report.
func RecordReport(r *planning.Report, took time.Duration) {
	ReportBuildsTotal.Inc()
	ReportBuildSeconds.Observe(took.Seconds())

	overallocated := 0
	ResourceUtilization.Reset()
	for _, u := range r.Utilization.Utilization {
		ResourceUtilization.WithLabelValues(u.Resource, string(u.Type)).Set(u.Utilization)
		if u.ConflictDays > 0 {
			overallocated++
		}
	}
	OverallocatedResources.Set(float64(overallocated))
	ConflictDays.Set(float64(len(r.Utilization.Conflicts)))
	DataErrors.Set(float64(len(r.Timeline.Errors)))

	IntegrityIssues.WithLabelValues("cycle").Set(float64(len(r.Integrity.Cycles)))
	IntegrityIssues.WithLabelValues("multi_team").Set(float64(len(r.Integrity.MultiTeam)))
	IntegrityIssues.WithLabelValues("multi_department_person").Set(float64(len(r.Integrity.MultiDepartmentPeople)))
	IntegrityIssues.WithLabelValues("multi_department_team").Set(float64(len(r.Integrity.MultiDepartmentTeams)))

	overBudget := 0
	for _, c := range r.ProjectCosts {
		if c.OverBudget {
			overBudget++
		}
	}
	OverBudgetProjects.Set(float64(overBudget))
}

// RecordSave counts a document save.
func RecordSave(err error) {
	DocumentSavesTotal.WithLabelValues(result(err)).Inc()
}

// RecordReload counts a watcher-triggered reload.
func RecordReload(err error) {
	DocumentReloadsTotal.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
