/*
scheduler.go - Background report refresh

PURPOSE:
  Periodically rebuilds the full planning report from the live document and
  publishes it as Prometheus gauges, so dashboards and alerts see
  overallocation without anyone opening the UI.

DESIGN:
  - Runs a background goroutine with configurable refresh interval
  - Builds from a copy of the live document; handlers are never blocked
  - Keeps the last report for callers that want it without rebuilding

CONFIGURATION:
  - RefreshInterval: How often to rebuild (default: 1 minute)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewReportScheduler(handler, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - metrics/metrics.go: RecordReport
  - planning/report.go: BuildReport
*/
package api

import (
	"log/slog"
	"sync"
	"time"

	"github.com/warp/resource-planner/metrics"
	"github.com/warp/resource-planner/planning"
)

// DocumentSource supplies the document to report on.
type DocumentSource interface {
	Document() *planning.Document
}

// ReportScheduler rebuilds the report on a ticker.
type ReportScheduler struct {
	Source          DocumentSource
	RefreshInterval time.Duration
	Enabled         bool
	Logger          *slog.Logger

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	lastMu sync.RWMutex
	last   *planning.Report
}

// NewReportScheduler creates a new scheduler.
func NewReportScheduler(source DocumentSource, logger *slog.Logger) *ReportScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportScheduler{
		Source:          source,
		RefreshInterval: time.Minute,
		Enabled:         true,
		Logger:          logger.With(slog.String("component", "scheduler")),
	}
}

// Start begins the scheduler.
func (rs *ReportScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.Logger.Info("Disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.RefreshInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run()

	rs.Logger.Info("Started", slog.Duration("interval", rs.RefreshInterval))
}

// Stop stops the scheduler.
func (rs *ReportScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.Logger.Info("Stopped")
	}
}

// Last returns the most recent report, or nil before the first run.
func (rs *ReportScheduler) Last() *planning.Report {
	rs.lastMu.RLock()
	defer rs.lastMu.RUnlock()
	return rs.last
}

func (rs *ReportScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.Refresh()

	for {
		select {
		case <-rs.ticker.C:
			rs.Refresh()
		case <-rs.stop:
			return
		}
	}
}

// Refresh rebuilds the report once and publishes it.
func (rs *ReportScheduler) Refresh() {
	start := time.Now()
	report, err := planning.BuildReport(rs.Source.Document(), planning.AggregateOptions{})
	if err != nil {
		rs.Logger.Error("Report build failed", slog.String("error", err.Error()))
		return
	}
	took := time.Since(start)
	metrics.RecordReport(report, took)

	rs.lastMu.Lock()
	rs.last = report
	rs.lastMu.Unlock()

	rs.Logger.Debug("Report refreshed",
		slog.Int("rows", len(report.Timeline.Rows)),
		slog.Int("conflicts", len(report.Utilization.Conflicts)),
		slog.Int("integrity_issues", report.Integrity.IssueCount()),
		slog.Duration("took", took))
}
