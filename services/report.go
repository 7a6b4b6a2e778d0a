package services

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"pms_metrics/config"
	"pms_metrics/metrics"
	"pms_metrics/reportparse"
	"pms_metrics/storage"
)

// ReportService drains the report inbox bucket: download, parse, aggregate,
// persist, archive. Report type is carried in the filename; property and
// report date are carried in the key.
type ReportService struct {
	cfg     *config.Config
	bucket  *storage.ReportBucket
	store   *storage.PostgresStore
	metrics *MetricsService
}

func NewReportService(cfg *config.Config, bucket *storage.ReportBucket, store *storage.PostgresStore, metricsService *MetricsService) *ReportService {
	return &ReportService{
		cfg:     cfg,
		bucket:  bucket,
		store:   store,
		metrics: metricsService,
	}
}

// ProcessInbox processes every report currently in the inbox prefix.
// A failed report is logged and left in place for the next pass.
func (s *ReportService) ProcessInbox(ctx context.Context) (int, error) {
	keys, err := s.bucket.ListReports(ctx, s.cfg.Reports.InboxPrefix)
	if err != nil {
		return 0, fmt.Errorf("list inbox: %w", err)
	}

	processed := 0
	for _, key := range keys {
		if err := s.ProcessReport(ctx, key); err != nil {
			log.Printf("Warning: process report %s: %v", key, err)
			continue
		}
		if err := s.bucket.Archive(ctx, key, time.Now()); err != nil {
			log.Printf("Warning: archive report %s: %v", key, err)
			continue
		}
		processed++
	}
	return processed, nil
}

// reportKey is the parsed form of an inbox object key:
// {prefix}{source}/{property_id}/{report_date}/{filename}
type reportKey struct {
	Source     string
	PropertyID string
	ReportDate time.Time
	Filename   string
}

func (s *ReportService) parseKey(key string) (*reportKey, error) {
	trimmed := strings.TrimPrefix(key, s.cfg.Reports.InboxPrefix)
	parts := strings.Split(trimmed, "/")
	if len(parts) != 4 {
		return nil, fmt.Errorf("malformed report key: %s", key)
	}

	reportDate, err := time.Parse("2006-01-02", parts[2])
	if err != nil {
		return nil, fmt.Errorf("report date in key %s: %w", key, err)
	}

	return &reportKey{
		Source:     parts[0],
		PropertyID: parts[1],
		ReportDate: reportDate,
		Filename:   parts[3],
	}, nil
}

func (s *ReportService) ProcessReport(ctx context.Context, key string) error {
	rk, err := s.parseKey(key)
	if err != nil {
		return err
	}

	body, err := s.bucket.Download(ctx, key)
	if err != nil {
		return err
	}
	defer body.Close()

	grid, err := reportparse.ReadWorkbook(body, "")
	if err != nil {
		return fmt.Errorf("read workbook: %w", err)
	}

	switch reportType(rk.Filename) {
	case reportDelinquency:
		return s.processDelinquency(ctx, rk, grid)
	case reportTradeOut:
		return s.processTradeOuts(ctx, rk, grid)
	case reportActivity:
		return s.processActivity(ctx, rk, grid)
	case reportRentRoll:
		return s.processRentRoll(ctx, rk, grid)
	default:
		return fmt.Errorf("unrecognized report type: %s", rk.Filename)
	}
}

const (
	reportDelinquency = "delinquency"
	reportTradeOut    = "tradeout"
	reportActivity    = "activity"
	reportRentRoll    = "rentroll"
	reportUnknown     = ""
)

// reportType classifies an inbox filename by substring. Exports are named
// by the PMS, so matching stays loose: "Aging_Detail.xlsx" and
// "delinquency-2026-01.xlsx" are the same report.
func reportType(filename string) string {
	name := strings.ToLower(strings.TrimSuffix(filename, path.Ext(filename)))
	switch {
	case strings.Contains(name, "delinquency") || strings.Contains(name, "aging"):
		return reportDelinquency
	case strings.Contains(name, "tradeout") || strings.Contains(name, "trade_out"):
		return reportTradeOut
	case strings.Contains(name, "activity"):
		return reportActivity
	case strings.Contains(name, "rentroll") || strings.Contains(name, "rent_roll"):
		return reportRentRoll
	default:
		return reportUnknown
	}
}

func (s *ReportService) processDelinquency(ctx context.Context, rk *reportKey, grid [][]string) error {
	extractor := reportparse.NewDelinquencyExtractor(reportparse.DefaultDelinquencyLayout)
	units, totals, err := extractor.Extract(grid, rk.PropertyID, rk.ReportDate)
	if err != nil {
		return fmt.Errorf("extract delinquency: %w", err)
	}

	if err := s.store.ReplaceDelinquentUnits(ctx, rk.PropertyID, rk.ReportDate, units); err != nil {
		return fmt.Errorf("store delinquent units: %w", err)
	}

	summary := metrics.AggregateDelinquency(units, rk.PropertyID, rk.ReportDate)
	if err := s.store.InsertDelinquencySummary(ctx, &summary); err != nil {
		return fmt.Errorf("store delinquency summary: %w", err)
	}

	log.Printf("Delinquency %s %s: %d units emitted, grand total %.2f",
		rk.PropertyID, rk.ReportDate.Format("2006-01-02"), len(units), totals.Balance)
	return nil
}

func (s *ReportService) processTradeOuts(ctx context.Context, rk *reportKey, grid [][]string) error {
	rows := reportparse.ExtractTradeOuts(grid, reportparse.DefaultTradeOutLayout)
	summary := metrics.ComputeTradeOuts(rows, rk.PropertyID, rk.ReportDate)
	if err := s.store.InsertTradeOutSummary(ctx, &summary); err != nil {
		return fmt.Errorf("store tradeout summary: %w", err)
	}

	log.Printf("Trade-outs %s %s: %d retained, %d discarded",
		rk.PropertyID, rk.ReportDate.Format("2006-01-02"), summary.Count, summary.Discarded)
	return nil
}

func (s *ReportService) processRentRoll(ctx context.Context, rk *reportKey, grid [][]string) error {
	rows, err := reportparse.ExtractRentRoll(grid, reportparse.DefaultRentRollLayout)
	if err != nil {
		return fmt.Errorf("extract rent roll: %w", err)
	}

	if err := s.store.ReplaceRentRollRows(ctx, rk.PropertyID, rk.ReportDate, rows); err != nil {
		return fmt.Errorf("store rent roll rows: %w", err)
	}

	var market, actual float64
	for _, r := range rows {
		market += r.MarketRent
		actual += r.ActualRent
	}
	log.Printf("Rent roll %s %s: %d units, market %.2f, actual %.2f",
		rk.PropertyID, rk.ReportDate.Format("2006-01-02"), len(rows), market, actual)
	return nil
}

func (s *ReportService) processActivity(ctx context.Context, rk *reportKey, grid [][]string) error {
	// Leasing activity exports cover the prior closed month.
	activity, err := reportparse.ExtractLeasingActivity(grid, reportparse.DefaultActivityLayout, rk.PropertyID, "PM")
	if err != nil {
		return fmt.Errorf("extract activity: %w", err)
	}
	return s.metrics.ComputeFunnel(ctx, activity)
}
