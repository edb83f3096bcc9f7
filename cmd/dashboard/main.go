package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Mash24/Job-Connect-sub000/internal/api"
	"github.com/Mash24/Job-Connect-sub000/internal/config"
	"github.com/Mash24/Job-Connect-sub000/internal/dashboard"
	"github.com/Mash24/Job-Connect-sub000/internal/kpicache"
	"github.com/Mash24/Job-Connect-sub000/internal/metrics"
	"github.com/Mash24/Job-Connect-sub000/internal/refresher"
	"github.com/Mash24/Job-Connect-sub000/internal/store/postgres"

	_ "github.com/lib/pq"
)

// Build-time variables set via -ldflags
var (
	version = "dev"
	commit  = "unknown"
)

const (
	exitSuccess       = 0
	exitRuntimeError  = 1
	exitInvalidConfig = 2
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitRuntimeError)
	}

	cmd := os.Args[1]

	switch cmd {
	case "serve":
		os.Exit(runServe())
	case "validate":
		os.Exit(runValidate())
	case "config":
		os.Exit(runConfig())
	case "version":
		os.Exit(runVersion())
	case "--help", "-h", "help":
		printUsage()
		os.Exit(exitSuccess)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(exitRuntimeError)
	}
}

func printUsage() {
	fmt.Println(`jobconnect-dashboard - analytics API for the admin dashboard

Usage:
  jobconnect-dashboard <command>

Commands:
  serve      Start the analytics HTTP server
  validate   Validate configuration (no connections made)
  config     Print effective configuration as JSON (secrets masked)
  version    Print version information

Environment Variables:
  DATABASE_URL              PostgreSQL connection string (required)
  REDIS_ADDR                Redis address for KPI cache (optional)
  HTTP_ADDR                 HTTP server address (default: ":8080")

  DB_OP_TIMEOUT             Database operation timeout (default: "5s")
  DB_MAX_OPEN_CONNS         Max open database connections (default: "25")
  DB_MAX_IDLE_CONNS         Max idle database connections (default: "5")
  DB_CONN_MAX_LIFETIME      Max connection lifetime (default: "30m")
  DB_CONN_MAX_IDLE_TIME     Max connection idle time (default: "5m")

  HTTP_SHUTDOWN_TIMEOUT     Graceful HTTP shutdown timeout (default: "10s")

  METRICS_ENABLED           Enable Prometheus metrics (default: "false")
  METRICS_PATH              Metrics endpoint path (default: "/metrics")
  METRICS_PORT              Metrics server port (default: "9090")

  REFRESH_SCHEDULE          Cron expression for snapshot reloads (default: "*/15 * * * *")
  REFRESH_TIMEZONE          Timezone for the refresh schedule (default: "UTC")
  SNAPSHOT_WINDOW_DAYS      How far back to load records (default: "365")
  SNAPSHOT_ROW_LIMIT        Max rows loaded per collection (default: "100000")

  RETENTION_HORIZONS        Default retention horizons in days (default: "7,14,30")
  FORECAST_HORIZON_DAYS     Default forecast horizon (default: "14")
  SUMMARY_WINDOW_DAYS       Default KPI summary window (default: "30")
  KPI_CACHE_TTL             TTL for cached KPI summaries (default: "24h")`)
}

func runServe() int {
	cfg := config.Load()

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return exitInvalidConfig
	}

	logConfigWarnings(cfg)

	// Connect to PostgreSQL
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		return exitRuntimeError
	}
	defer db.Close()

	// Configure connection pool
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.DBConnMaxIdleTime)

	log.Printf("dashboard: db pool configured (max_open=%d, max_idle=%d, max_lifetime=%s, max_idle_time=%s)",
		cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetime, cfg.DBConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		return exitRuntimeError
	}

	if err := probeSnapshotTables(db); err != nil {
		fmt.Fprintf(os.Stderr, "schema probe failed: %v\n", err)
		return exitRuntimeError
	}

	store := postgres.New(db, cfg.DBOpTimeout)

	// Initialize metrics sink (optional)
	var metricsSink *metrics.PrometheusSink
	var metricsServer *http.Server

	if cfg.MetricsEnabled {
		metricsSink = metrics.NewPrometheusSink(prometheus.DefaultRegisterer)
		log.Printf("dashboard: metrics enabled (port=%s, path=%s)", cfg.MetricsPort, cfg.MetricsPath)

		// Start metrics HTTP server on separate port
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.MetricsPath, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:    ":" + cfg.MetricsPort,
			Handler: metricsMux,
		}
		go func() {
			log.Printf("dashboard: metrics server listening on :%s", cfg.MetricsPort)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("dashboard: metrics server error: %v", err)
			}
		}()
	} else {
		log.Println("dashboard: METRICS_ENABLED not set; metrics disabled")
	}

	svc := dashboard.New(
		dashboard.Config{
			SnapshotWindow:    time.Duration(cfg.SnapshotWindowDays) * 24 * time.Hour,
			SnapshotRowLimit:  cfg.SnapshotRowLimit,
			RetentionHorizons: cfg.RetentionHorizons,
			ForecastHorizon:   cfg.ForecastHorizonDays,
			SummaryWindow:     time.Duration(cfg.SummaryWindowDays) * 24 * time.Hour,
		},
		store,
	)
	if metricsSink != nil {
		svc = svc.WithMetrics(metricsSink)
	}

	// Wire the KPI cache if Redis is configured
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		svc = svc.WithKPIPublisher(kpicache.NewRedisPublisher(redisClient, cfg.KPICacheTTL))
		log.Printf("dashboard: kpi cache enabled (redis=%s, ttl=%s)", cfg.RedisAddr, cfg.KPICacheTTL)
	} else {
		log.Println("dashboard: REDIS_ADDR not set; kpi cache disabled")
	}

	// Load the first snapshot before accepting traffic so early requests
	// never see an empty dataset on a populated database.
	initCtx, initCancel := context.WithTimeout(context.Background(), 2*cfg.DBOpTimeout)
	err = svc.Refresh(initCtx)
	initCancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "initial snapshot load failed: %v\n", err)
		return exitRuntimeError
	}

	refr, err := refresher.New(cfg.RefreshSchedule, cfg.RefreshTimezone, svc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid refresh schedule: %v\n", err)
		return exitInvalidConfig
	}

	apiHandler := api.NewHandler(svc).WithHealthChecker(db)
	if metricsSink != nil {
		apiHandler = apiHandler.WithMetrics(metricsSink)
	}

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: apiHandler,
	}

	go func() {
		log.Printf("dashboard: http server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("dashboard: http server error: %v", err)
		}
	}()

	refresherCtx, cancelRefresher := context.WithCancel(context.Background())
	var refresherWg sync.WaitGroup
	refresherWg.Add(1)
	go func() {
		defer refresherWg.Done()
		refr.Run(refresherCtx)
	}()

	log.Printf("dashboard: started (schedule=%q, http=%s)", cfg.RefreshSchedule, cfg.HTTPAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig

	log.Printf("dashboard: received signal %v, shutting down", received)

	// Phase 1: Stop the refresher (no new snapshot reloads)
	log.Println("dashboard: stopping refresher...")
	cancelRefresher()
	refresherWg.Wait()
	log.Println("dashboard: refresher stopped")

	// Phase 2: Stop HTTP server with graceful shutdown
	log.Println("dashboard: stopping http server...")
	httpShutdownCtx, httpShutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer httpShutdownCancel()
	if err := httpServer.Shutdown(httpShutdownCtx); err != nil {
		log.Printf("dashboard: http server shutdown error: %v", err)
	}
	log.Println("dashboard: http server stopped")

	// Phase 3: Stop metrics server if running (with same timeout)
	if metricsServer != nil {
		log.Println("dashboard: stopping metrics server...")
		metricsShutdownCtx, metricsShutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer metricsShutdownCancel()
		if err := metricsServer.Shutdown(metricsShutdownCtx); err != nil {
			log.Printf("dashboard: metrics server shutdown error: %v", err)
		}
		log.Println("dashboard: metrics server stopped")
	}

	log.Println("dashboard: stopped")
	return exitSuccess
}

// probeSnapshotTables verifies the three source tables exist before serving.
// A missing table would otherwise only surface on the first refresh.
func probeSnapshotTables(db *sql.DB) error {
	for _, table := range []string{"users", "jobs", "applications"} {
		var one int
		query := `SELECT 1 FROM information_schema.tables WHERE table_name = $1`
		if err := db.QueryRow(query, table).Scan(&one); err != nil {
			if err == sql.ErrNoRows {
				return fmt.Errorf("table %q not found", table)
			}
			return fmt.Errorf("probe table %q: %w", table, err)
		}
	}
	return nil
}

// logConfigWarnings flags configurations that run but degrade the
// dashboard's usefulness.
func logConfigWarnings(cfg config.Config) {
	if cfg.RedisAddr == "" {
		log.Println("WARNING [P1]: REDIS_ADDR not set; KPI summaries will not be published after refreshes")
	}
	if !cfg.MetricsEnabled {
		log.Println("WARNING [P1]: METRICS_ENABLED=false; refresh failures and compute latency will not be observable")
	}
	if cfg.SnapshotRowLimit < 1000 {
		log.Printf("WARNING [P0]: SNAPSHOT_ROW_LIMIT=%d; aggregates may be computed over a truncated snapshot", cfg.SnapshotRowLimit)
	}
	if cfg.ForecastHorizonDays > cfg.SnapshotWindowDays {
		log.Printf("INFO: FORECAST_HORIZON_DAYS=%d exceeds SNAPSHOT_WINDOW_DAYS=%d; projections extrapolate far beyond the observed series",
			cfg.ForecastHorizonDays, cfg.SnapshotWindowDays)
	}
}

func runValidate() int {
	cfg := config.Load()

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitInvalidConfig
	}

	fmt.Println("configuration valid")
	return exitSuccess
}

func runConfig() int {
	cfg := config.Load()

	data, err := cfg.MaskedJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal config: %v\n", err)
		return exitRuntimeError
	}

	fmt.Println(string(data))
	return exitSuccess
}

func runVersion() int {
	fmt.Printf("jobconnect-dashboard version %s (commit: %s)\n", version, commit)
	return exitSuccess
}
