package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pms_metrics/config"
	"pms_metrics/httputil"
	"pms_metrics/logging"
	"pms_metrics/metrics"
	"pms_metrics/models"
	"pms_metrics/pms"
	"pms_metrics/scheduler"
	"pms_metrics/services"
	"pms_metrics/storage"
	"pms_metrics/workers"
)

var (
	syncNow    = flag.Bool("sync", false, "Run a full sync once and exit")
	computeNow = flag.Bool("compute", false, "Compute metrics for all properties once and exit")
	enqueue    = flag.String("enqueue", "", "Enqueue a command for the running daemon and exit (sync_now, sync_source, compute_metrics, run_watchlist, pause, resume)")
	cmdSource  = flag.String("source", "", "Source id for -enqueue sync_source")
	portfolio  = flag.String("portfolio", "", "Print a portfolio summary for the given timeframe and exit")
	aggMode    = flag.String("mode", string(models.AggWeighted), "Aggregation mode for -portfolio (weighted or row_metrics)")
	reportDate = flag.String("report-date", "", "Include portfolio delinquency for this report date (YYYY-MM-DD) with -portfolio")
)

func main() {
	flag.Parse()

	logFile, err := logging.Setup("daemon.log", 0)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting pms_metrics...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Loaded %d source configs", len(cfg.Sources))
	for id, src := range cfg.Sources {
		log.Printf("  - %s (%s, %d properties)", src.Name, id, len(src.Properties))
	}

	clients := httputil.NewClients()
	ctx := context.Background()

	pgStore, err := storage.NewPostgresStore(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pgStore.Close()
	log.Printf("Connected to Postgres: %s", maskConnectionString(cfg.DBURL))

	opsStore, err := storage.NewSQLiteStore(cfg.OpsDBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer opsStore.Close()
	log.Printf("Operational database: %s", cfg.OpsDBPath)

	if *enqueue != "" {
		enqueueCommand(opsStore, *enqueue, *cmdSource)
		return
	}

	for id := range cfg.Sources {
		stats, err := opsStore.GetSourceStats(id)
		if err != nil || stats == nil {
			continue
		}
		last, _ := opsStore.GetLastRunTime(id)
		if last.IsZero() {
			log.Printf("  - %s: %d properties, %d units tracked, never synced", id, stats.TotalProperties, stats.TotalUnits)
		} else {
			log.Printf("  - %s: %d properties, %d units tracked, last synced %s", id, stats.TotalProperties, stats.TotalUnits, last.Format(time.RFC3339))
		}
	}

	pmsClients := make(map[string]pms.Client)
	for id, src := range cfg.Sources {
		client, err := pms.NewClient(src, clients)
		if err != nil {
			log.Fatalf("Failed to build client for %s: %v", id, err)
		}
		pmsClients[id] = client
	}

	cache := storage.NewSnapshotCache(cfg.Metrics.CacheTTL)

	syncService := services.NewSyncService(cfg, pgStore, opsStore, cache, pmsClients)
	metricsService := services.NewMetricsService(cfg, pgStore, cache)

	var reportService *services.ReportService
	if cfg.Reports.Bucket != "" {
		bucket, err := storage.NewReportBucket(ctx, storage.S3Config{
			Bucket:          cfg.Reports.Bucket,
			Region:          cfg.Reports.Region,
			Endpoint:        cfg.Reports.Endpoint,
			AccessKeyID:     cfg.Reports.AccessKeyID,
			SecretAccessKey: cfg.Reports.SecretAccessKey,
			HTTPClient:      clients.Reports,
		})
		if err != nil {
			log.Fatalf("Failed to open report bucket: %v", err)
		}
		reportService = services.NewReportService(cfg, bucket, pgStore, metricsService)
		log.Printf("Report inbox: s3://%s/%s", cfg.Reports.Bucket, cfg.Reports.InboxPrefix)
	} else {
		log.Println("No report bucket configured, report processing disabled")
	}

	log.Println("Services initialized")

	// Handle one-shot commands
	if *syncNow {
		log.Println("Running sync...")
		syncService.SyncAll(ctx)
		log.Println("Sync complete!")
		return
	}
	if *computeNow {
		log.Println("Computing metrics...")
		if err := metricsService.ComputeAll(ctx); err != nil {
			log.Fatalf("Compute failed: %v", err)
		}
		log.Println("Compute complete!")
		return
	}
	if *portfolio != "" {
		printPortfolio(ctx, metricsService, *portfolio, *aggMode, *reportDate)
		return
	}

	// Daemon mode
	sched := scheduler.New(cfg, syncService, opsStore)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opsLog := func(level models.LogLevel, source, message string) {
		opsStore.Log(nil, level, message, source)
	}

	metricsWorker := workers.NewMetricsWorker(metricsService, reportService)
	metricsWorker.SetLogger(opsLog)
	go metricsWorker.Run(ctx, time.Hour)
	log.Println("Metrics worker started")

	watchlistWorker := workers.NewWatchlistWorker(metricsService)
	watchlistWorker.SetLogger(opsLog)
	go watchlistWorker.Run(ctx, 24*time.Hour)
	log.Println("Watchlist worker started")

	sched.SetWorkers(metricsWorker, watchlistWorker)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	sched.Stop()
	log.Println("Goodbye!")
}

// printPortfolio writes portfolio-level metrics to stdout as JSON.
func printPortfolio(ctx context.Context, metricsService *services.MetricsService, timeframe, mode, reportDateStr string) {
	view, err := metricsService.Portfolio(ctx, models.AggregationMode(mode), timeframe)
	if err != nil {
		log.Fatalf("Portfolio aggregation failed: %v", err)
	}

	out := struct {
		*metrics.PortfolioView
		Delinquency *models.DelinquencySummary `json:",omitempty"`
	}{PortfolioView: view}

	if reportDateStr != "" {
		day, err := time.Parse("2006-01-02", reportDateStr)
		if err != nil {
			log.Fatalf("Invalid report date %q: %v", reportDateStr, err)
		}
		summary, err := metricsService.PortfolioDelinquency(ctx, day)
		if err != nil {
			log.Fatalf("Portfolio delinquency failed: %v", err)
		}
		out.Delinquency = summary
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("Encode portfolio: %v", err)
	}
}

// enqueueCommand validates and queues a daemon command, picked up by the
// scheduler's next poll.
func enqueueCommand(opsStore *storage.SQLiteStore, command, source string) {
	cmd := models.CommandType(command)
	switch cmd {
	case models.CmdSyncNow, models.CmdSyncSource, models.CmdComputeMetrics,
		models.CmdRunWatchlist, models.CmdPause, models.CmdResume:
	default:
		log.Fatalf("Unknown command: %s", command)
	}

	var params *models.CommandParams
	if cmd == models.CmdSyncSource {
		if source == "" {
			log.Fatal("sync_source requires -source")
		}
		params = &models.CommandParams{Source: source}
	}

	if err := opsStore.EnqueueCommand(cmd, params); err != nil {
		log.Fatalf("Failed to enqueue command: %v", err)
	}
	log.Printf("Enqueued %s", cmd)
}

// maskConnectionString masks password in connection string for logging
func maskConnectionString(connStr string) string {
	start := 0
	for i := 0; i < len(connStr)-3; i++ {
		if connStr[i:i+3] == "://" {
			start = i + 3
			break
		}
	}
	if start == 0 {
		return connStr
	}

	colonIdx := -1
	atIdx := -1
	for i := start; i < len(connStr); i++ {
		if connStr[i] == ':' && colonIdx == -1 {
			colonIdx = i
		}
		if connStr[i] == '@' {
			atIdx = i
			break
		}
	}

	if colonIdx > 0 && atIdx > colonIdx {
		return connStr[:colonIdx+1] + "****" + connStr[atIdx:]
	}
	return connStr
}
