package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"pms_metrics/models"
	"pms_metrics/services"
)

// MetricsWorker periodically recomputes metric records across the portfolio
// and drains the report inbox. Reports are processed first so the same pass
// picks up funnel and delinquency rows they produce.
type MetricsWorker struct {
	metrics   *services.MetricsService
	reports   *services.ReportService
	triggerCh chan struct{}
	logFunc   LogFunc
}

func NewMetricsWorker(metrics *services.MetricsService, reports *services.ReportService) *MetricsWorker {
	return &MetricsWorker{
		metrics:   metrics,
		reports:   reports,
		triggerCh: make(chan struct{}, 1),
		logFunc:   NoOpLogger,
	}
}

func (w *MetricsWorker) SetLogger(fn LogFunc) {
	w.logFunc = fn
}

// Trigger causes the worker to run immediately
func (w *MetricsWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

func (w *MetricsWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Metrics worker stopping")
			return
		case <-ticker.C:
			w.runPass(ctx)
		case <-w.triggerCh:
			log.Println("Metrics worker triggered manually")
			w.runPass(ctx)
		}
	}
}

func (w *MetricsWorker) runPass(ctx context.Context) {
	start := time.Now()

	if w.reports != nil {
		processed, err := w.reports.ProcessInbox(ctx)
		if err != nil {
			log.Printf("Warning: report inbox: %v", err)
			w.logFunc(models.LogLevelWarn, "metrics", fmt.Sprintf("report inbox: %v", err))
		} else if processed > 0 {
			log.Printf("Metrics worker processed %d reports", processed)
		}
	}

	if err := w.metrics.ComputeAll(ctx); err != nil {
		log.Printf("Warning: metrics pass: %v", err)
		w.logFunc(models.LogLevelWarn, "metrics", fmt.Sprintf("metrics pass: %v", err))
		return
	}

	w.logFunc(models.LogLevelInfo, "metrics", fmt.Sprintf("metrics pass done in %s", time.Since(start).Round(time.Millisecond)))
}
