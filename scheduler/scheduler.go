package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"pms_metrics/config"
	"pms_metrics/models"
	"pms_metrics/services"
	"pms_metrics/storage"
)

// Triggerable allows workers to be triggered manually
type Triggerable interface {
	Trigger()
}

type Scheduler struct {
	cfg    *config.Config
	syncer *services.SyncService
	store  *storage.SQLiteStore
	cron   *cron.Cron
	ticker *time.Ticker
	stopCh chan struct{}

	mu     sync.Mutex
	paused bool

	metricsWorker   Triggerable
	watchlistWorker Triggerable
}

func New(cfg *config.Config, syncService *services.SyncService, store *storage.SQLiteStore) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		syncer: syncService,
		store:  store,
		cron:   cron.New(),
		stopCh: make(chan struct{}),
	}
}

// SetWorkers registers background workers for manual triggering
func (s *Scheduler) SetWorkers(metrics, watchlist Triggerable) {
	s.metricsWorker = metrics
	s.watchlistWorker = watchlist
}

func (s *Scheduler) Start(ctx context.Context) error {
	go s.pollCommands(ctx)

	if s.cfg.Scheduler.Cron != "" {
		log.Printf("Starting scheduler with cron: %s", s.cfg.Scheduler.Cron)
		_, err := s.cron.AddFunc(s.cfg.Scheduler.Cron, func() {
			s.runScheduled(ctx)
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		s.cron.Start()
	} else if s.cfg.Scheduler.Interval > 0 {
		log.Printf("Starting scheduler with interval: %s", s.cfg.Scheduler.Interval)
		s.ticker = time.NewTicker(s.cfg.Scheduler.Interval)
		go func() {
			for {
				select {
				case <-s.ticker.C:
					s.runScheduled(ctx)
				case <-s.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		log.Println("No schedule configured, daemon will only respond to commands")
	}

	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

func (s *Scheduler) isPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *Scheduler) setPaused(paused bool) {
	s.mu.Lock()
	s.paused = paused
	s.mu.Unlock()
}

func (s *Scheduler) runScheduled(ctx context.Context) {
	if s.isPaused() {
		log.Println("Scheduler paused, skipping scheduled sync")
		return
	}
	s.syncer.SyncAll(ctx)
	if s.metricsWorker != nil {
		s.metricsWorker.Trigger()
	}
}

func (s *Scheduler) pollCommands(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cmds, err := s.store.GetPendingCommands()
			if err != nil {
				log.Printf("Error getting commands: %v", err)
				continue
			}

			for _, cmd := range cmds {
				log.Printf("Processing command: %s", cmd.Command)
				if err := s.handleCommand(ctx, &cmd); err != nil {
					log.Printf("Command error: %v", err)
				}
				if err := s.store.MarkCommandProcessed(cmd.ID); err != nil {
					log.Printf("Error marking command processed: %v", err)
				}
			}
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) handleCommand(ctx context.Context, cmd *models.Command) error {
	params, err := s.store.ParseCommandParams(cmd)
	if err != nil {
		return fmt.Errorf("parse params: %w", err)
	}

	switch cmd.Command {
	case models.CmdSyncNow:
		s.syncer.SyncAll(ctx)
		return nil
	case models.CmdSyncSource:
		if params.Source == "" {
			return fmt.Errorf("sync_source requires a source")
		}
		return s.syncer.SyncSource(ctx, params.Source)
	case models.CmdComputeMetrics:
		if s.metricsWorker != nil {
			s.metricsWorker.Trigger()
			log.Println("Metrics worker triggered via command")
		}
		return nil
	case models.CmdRunWatchlist:
		if s.watchlistWorker != nil {
			s.watchlistWorker.Trigger()
			log.Println("Watchlist worker triggered via command")
		}
		return nil
	case models.CmdPause:
		s.setPaused(true)
		log.Println("Scheduled syncs paused")
		return nil
	case models.CmdResume:
		s.setPaused(false)
		log.Println("Scheduled syncs resumed")
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd.Command)
	}
}

func (s *Scheduler) TriggerNow(ctx context.Context) {
	s.syncer.SyncAll(ctx)
}
