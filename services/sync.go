package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"pms_metrics/config"
	"pms_metrics/models"
	"pms_metrics/normalize"
	"pms_metrics/pms"
	"pms_metrics/storage"
)

// SyncService runs the fetch -> normalize -> replace pipeline for each
// configured source. One SyncSource call is one run; a failed property marks
// the run partial but never stops the remaining properties.
type SyncService struct {
	cfg     *config.Config
	store   *storage.PostgresStore
	ops     *storage.SQLiteStore
	cache   *storage.SnapshotCache
	clients map[string]pms.Client
}

func NewSyncService(cfg *config.Config, store *storage.PostgresStore, ops *storage.SQLiteStore, cache *storage.SnapshotCache, clients map[string]pms.Client) *SyncService {
	return &SyncService{
		cfg:     cfg,
		store:   store,
		ops:     ops,
		cache:   cache,
		clients: clients,
	}
}

func (s *SyncService) SyncAll(ctx context.Context) {
	for id := range s.cfg.Sources {
		if err := s.SyncSource(ctx, id); err != nil {
			log.Printf("Warning: sync %s: %v", id, err)
		}
	}
}

func (s *SyncService) SyncSource(ctx context.Context, sourceID string) error {
	srcCfg, ok := s.cfg.Sources[sourceID]
	if !ok {
		return fmt.Errorf("unknown source: %s", sourceID)
	}
	client, ok := s.clients[sourceID]
	if !ok {
		return fmt.Errorf("no client for source: %s", sourceID)
	}

	run := &models.SyncRun{
		Source:    sourceID,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	runID, err := s.ops.CreateRun(run)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	run.ID = runID

	log.Printf("Starting sync for %s (%d properties)", sourceID, len(srcCfg.Properties))
	s.ops.Log(&runID, models.LogLevelInfo, "sync started", sourceID)

	var failures int
	for _, propertyID := range srcCfg.Properties {
		if err := s.syncProperty(ctx, client, propertyID, run); err != nil {
			failures++
			run.ErrorsCount++
			run.ErrorMessage = err.Error()
			log.Printf("Warning: sync %s/%s: %v", sourceID, propertyID, err)
			s.ops.Log(&runID, models.LogLevelError, fmt.Sprintf("property %s: %v", propertyID, err), sourceID)
		}

		if srcCfg.RateLimitMS > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(srcCfg.RateLimitMS) * time.Millisecond):
			}
		}
	}

	now := time.Now()
	run.FinishedAt = &now
	switch {
	case failures == 0:
		run.Status = models.RunStatusCompleted
	case failures == len(srcCfg.Properties):
		run.Status = models.RunStatusFailed
	default:
		run.Status = models.RunStatusPartial
	}

	if err := s.ops.UpdateRun(run); err != nil {
		log.Printf("Warning: update run %d: %v", runID, err)
	}
	if err := s.ops.UpdateSourceStats(sourceID, run.PropertiesSeen, run.UnitsSeen); err != nil {
		log.Printf("Warning: update source stats %s: %v", sourceID, err)
	}

	log.Printf("Sync %s finished: %d properties, %d units, %d residents, %d leases, %d skipped, %d errors",
		sourceID, run.PropertiesSeen, run.UnitsSeen, run.ResidentsSeen, run.LeasesSeen,
		run.RecordsSkipped, run.ErrorsCount)
	s.ops.Log(&runID, models.LogLevelInfo, "sync finished: "+string(run.Status), sourceID)

	if run.Status == models.RunStatusFailed {
		return fmt.Errorf("all %d properties failed", failures)
	}
	return nil
}

func (s *SyncService) syncProperty(ctx context.Context, client pms.Client, propertyID string, run *models.SyncRun) error {
	raw := &normalize.RawSnapshot{}
	var err error

	if raw.Property, err = client.FetchProperty(ctx, propertyID); err != nil {
		return fmt.Errorf("fetch property: %w", err)
	}
	if raw.Units, err = client.FetchUnits(ctx, propertyID); err != nil {
		return fmt.Errorf("fetch units: %w", err)
	}
	if raw.Residents, err = client.FetchResidents(ctx, propertyID); err != nil {
		return fmt.Errorf("fetch residents: %w", err)
	}
	if raw.Leases, err = client.FetchLeases(ctx, propertyID); err != nil {
		return fmt.Errorf("fetch leases: %w", err)
	}

	normalizer, err := normalize.New(client.Source())
	if err != nil {
		return err
	}

	result, err := normalize.Snapshot(normalizer, raw, time.Now())
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	for _, skipErr := range result.Skipped {
		log.Printf("Warning: skipped record for %s: %v", propertyID, skipErr)
	}

	if err := s.store.ReplaceSnapshot(ctx, result.Snapshot); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	s.cache.Invalidate(propertyID)

	run.PropertiesSeen++
	run.UnitsSeen += len(result.Snapshot.Units)
	run.ResidentsSeen += len(result.Snapshot.Residents)
	run.LeasesSeen += len(result.Snapshot.Leases)
	run.RecordsSkipped += len(result.Skipped)
	return nil
}
