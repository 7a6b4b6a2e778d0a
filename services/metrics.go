package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"pms_metrics/config"
	"pms_metrics/metrics"
	"pms_metrics/models"
	"pms_metrics/storage"
)

// MetricsService computes and appends metric records from stored canonical
// snapshots. Records are never updated: each pass appends new rows.
type MetricsService struct {
	cfg   *config.Config
	store *storage.PostgresStore
	cache *storage.SnapshotCache
}

func NewMetricsService(cfg *config.Config, store *storage.PostgresStore, cache *storage.SnapshotCache) *MetricsService {
	return &MetricsService{
		cfg:   cfg,
		store: store,
		cache: cache,
	}
}

func (s *MetricsService) snapshot(ctx context.Context, propertyID string) (*models.PropertySnapshot, error) {
	if snap, ok := s.cache.Get(propertyID); ok {
		return snap, nil
	}
	snap, err := s.store.GetSnapshot(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, fmt.Errorf("no snapshot for property: %s", propertyID)
	}
	s.cache.Put(propertyID, snap)
	return snap, nil
}

// ComputeProperty runs every snapshot-driven calculator for one property and
// timeframe, appending one record per metric family.
func (s *MetricsService) ComputeProperty(ctx context.Context, propertyID, timeframe string) error {
	snap, err := s.snapshot(ctx, propertyID)
	if err != nil {
		return err
	}

	win, err := metrics.ResolveWindow(timeframe, time.Time{})
	if err != nil {
		return err
	}

	prev, err := s.store.GetLatestOccupancy(ctx, propertyID, timeframe)
	if err != nil {
		return fmt.Errorf("latest occupancy: %w", err)
	}

	occ := metrics.ComputeOccupancy(snap, win)
	if err := s.store.InsertOccupancyMetrics(ctx, &occ); err != nil {
		return fmt.Errorf("insert occupancy: %w", err)
	}
	if prev != nil && occ.PhysicalOccupancy != prev.PhysicalOccupancy {
		log.Printf("Occupancy %s %s: %.1f%% -> %.1f%%",
			propertyID, timeframe, prev.PhysicalOccupancy, occ.PhysicalOccupancy)
	}

	exp := metrics.ComputeExposure(snap, win)
	if err := s.store.InsertExposureMetrics(ctx, &exp); err != nil {
		return fmt.Errorf("insert exposure: %w", err)
	}

	pricing := metrics.ComputePricing(snap, win.End)
	if err := s.store.InsertPricingMetrics(ctx, &pricing); err != nil {
		return fmt.Errorf("insert pricing: %w", err)
	}

	rows := metrics.TradeOutsFromLeases(snap.Leases)
	tradeOuts := metrics.ComputeTradeOuts(rows, propertyID, win.End)
	if err := s.store.InsertTradeOutSummary(ctx, &tradeOuts); err != nil {
		return fmt.Errorf("insert tradeouts: %w", err)
	}

	return nil
}

// ComputeAll computes every configured timeframe for every known property.
func (s *MetricsService) ComputeAll(ctx context.Context) error {
	propertyIDs, err := s.store.ListPropertyIDs(ctx)
	if err != nil {
		return fmt.Errorf("list properties: %w", err)
	}

	var failures int
	for _, propertyID := range propertyIDs {
		for _, timeframe := range s.cfg.Metrics.Timeframes {
			if err := s.ComputeProperty(ctx, propertyID, timeframe); err != nil {
				failures++
				log.Printf("Warning: compute %s %s: %v", propertyID, timeframe, err)
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d property/timeframe computations failed", failures)
	}
	return nil
}

// ComputeFunnel appends a leasing-funnel record from parsed activity counts.
func (s *MetricsService) ComputeFunnel(ctx context.Context, activity models.LeasingActivity) error {
	win, err := metrics.ResolveWindow(activity.Timeframe, time.Time{})
	if err != nil {
		return err
	}
	funnel := metrics.ComputeLeasingFunnel(activity, win)
	if err := s.store.InsertLeasingFunnelMetrics(ctx, &funnel); err != nil {
		return fmt.Errorf("insert funnel: %w", err)
	}
	return nil
}

// Portfolio aggregates across all known properties in the requested mode.
func (s *MetricsService) Portfolio(ctx context.Context, mode models.AggregationMode, timeframe string) (*metrics.PortfolioView, error) {
	win, err := metrics.ResolveWindow(timeframe, time.Time{})
	if err != nil {
		return nil, err
	}

	propertyIDs, err := s.store.ListPropertyIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	snaps := make([]*models.PropertySnapshot, 0, len(propertyIDs))
	for _, propertyID := range propertyIDs {
		snap, err := s.snapshot(ctx, propertyID)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}

	return metrics.AggregatePortfolio(mode, snaps, win)
}

// PortfolioDelinquency rolls every property's stored delinquent units for
// one report date into a single portfolio summary. Properties with no rows
// for that date contribute nothing.
func (s *MetricsService) PortfolioDelinquency(ctx context.Context, reportDate time.Time) (*models.DelinquencySummary, error) {
	propertyIDs, err := s.store.ListPropertyIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	var summaries []models.DelinquencySummary
	for _, propertyID := range propertyIDs {
		units, err := s.store.GetDelinquentUnits(ctx, propertyID, reportDate)
		if err != nil {
			return nil, fmt.Errorf("delinquent units %s: %w", propertyID, err)
		}
		if len(units) == 0 {
			continue
		}
		summaries = append(summaries, metrics.AggregateDelinquency(units, propertyID, reportDate))
	}

	summary := metrics.AggregateDelinquencySummaries(summaries)
	summary.ReportDate = reportDate
	return &summary, nil
}

// RunWatchlist scores every current resident and appends the risk records.
func (s *MetricsService) RunWatchlist(ctx context.Context) (int, error) {
	propertyIDs, err := s.store.ListPropertyIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list properties: %w", err)
	}

	asOf := time.Now()
	var total int
	for _, propertyID := range propertyIDs {
		snap, err := s.snapshot(ctx, propertyID)
		if err != nil {
			return total, err
		}
		scores := metrics.ScoreSnapshot(snap, asOf)
		if len(scores) == 0 {
			continue
		}
		if err := s.store.InsertRiskScores(ctx, scores); err != nil {
			return total, fmt.Errorf("insert risk scores %s: %w", propertyID, err)
		}
		total += len(scores)
	}
	return total, nil
}
