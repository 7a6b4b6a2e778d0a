package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"pms_metrics/models"
	"pms_metrics/services"
)

// WatchlistWorker sweeps every property's current residents through the
// renewal risk scorer and appends the resulting watchlist records.
type WatchlistWorker struct {
	metrics   *services.MetricsService
	triggerCh chan struct{}
	logFunc   LogFunc
}

func NewWatchlistWorker(metrics *services.MetricsService) *WatchlistWorker {
	return &WatchlistWorker{
		metrics:   metrics,
		triggerCh: make(chan struct{}, 1),
		logFunc:   NoOpLogger,
	}
}

func (w *WatchlistWorker) SetLogger(fn LogFunc) {
	w.logFunc = fn
}

// Trigger causes the worker to run immediately
func (w *WatchlistWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

func (w *WatchlistWorker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Watchlist worker stopping")
			return
		case <-ticker.C:
			w.runSweep(ctx)
		case <-w.triggerCh:
			log.Println("Watchlist worker triggered manually")
			w.runSweep(ctx)
		}
	}
}

func (w *WatchlistWorker) runSweep(ctx context.Context) {
	scored, err := w.metrics.RunWatchlist(ctx)
	if err != nil {
		log.Printf("Warning: watchlist sweep: %v", err)
		w.logFunc(models.LogLevelWarn, "watchlist", fmt.Sprintf("sweep: %v", err))
		return
	}
	if scored > 0 {
		log.Printf("Watchlist scored %d residents", scored)
	}
	w.logFunc(models.LogLevelInfo, "watchlist", fmt.Sprintf("scored %d residents", scored))
}
