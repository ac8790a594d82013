package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scorecard/internal/adapters/repository"
	"github.com/okian/scorecard/internal/adapters/repository/memory"
	"github.com/okian/scorecard/internal/adapters/repository/postgres"
	"github.com/okian/scorecard/internal/adapters/repository/sqlite"
	"github.com/okian/scorecard/internal/adapters/source"
	service "github.com/okian/scorecard/internal/app"
	"github.com/okian/scorecard/internal/config"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/pkg/logger"
	"github.com/okian/scorecard/pkg/metrics"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"config":       "config",
	"data-dir":     "data_dir",
	"pattern":      "pattern",
	"driver":       "driver",
	"db-url":       "database_url",
	"init-schema":  "init_schema",
	"dry-run":      "dry_run",
	"metrics-file": "metrics_file",
	"log-level":    "log_level",
	"log-format":   "log_format",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	if err := logger.Init(); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging:", err)
		return exitFailed
	}
	defer func() { _ = logger.Sync() }()

	overrides, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Load(ctx, overrides)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config:", err)
		return exitUsage
	}
	if err := logger.SetFormat(cfg.LogFormat); err != nil {
		fmt.Fprintln(stderr, "invalid log_format:", err)
		return exitUsage
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	runID := uuid.New()
	log := logger.Named("ingest").With(logger.String("run_id", runID.String()))

	files, err := source.Discover(cfg.DataDir, cfg.Pattern)
	if err != nil {
		log.Error(ctx, "no scorecards to ingest", logger.String("data_dir", cfg.DataDir), logger.Error(err))
		return exitFailed
	}
	log.Info(ctx, "found scorecards", logger.Int("files", len(files)), logger.String("data_dir", cfg.DataDir))

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to open store", logger.String("driver", cfg.EffectiveDriver()), logger.Error(err))
		return exitFailed
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn(ctx, "store close failed", logger.Error(err))
		}
		log.Info(ctx, "store closed")
	}()

	if cfg.InitSchema || cfg.EffectiveDriver() == config.DriverMemory {
		if err := store.EnsureSchema(ctx); err != nil {
			log.Error(ctx, "failed to initialize schema", logger.Error(err))
			return exitFailed
		}
	}

	started := time.Now()
	reader := source.NewReader(files,
		source.WithPrefetch(cfg.Prefetch),
		source.WithLogger(log.Named("source")),
	)
	loader := service.New(store,
		service.WithLogger(log.Named("loader")),
		service.WithDedupeSize(cfg.DedupeSize),
	)
	sum := loader.Run(ctx, reader.Documents(ctx))

	report(ctx, log, store, cfg, model.Run{
		ID:        runID.String(),
		StartedAt: started,
		Duration:  sum.Duration,
		Attempted: sum.Attempted,
		Succeeded: sum.Succeeded,
		Skipped:   sum.Skipped,
		Failed:    sum.Failed,
	})

	if ctx.Err() != nil {
		return exitFailed
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (map[string]any, error) {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("config", "", "Path to a YAML config file (env CRICKET_CONFIG)")
	fs.String("data-dir", "./", "Directory containing scorecard files")
	fs.String("pattern", "*.yaml", "Glob pattern for scorecard files")
	fs.String("driver", config.DriverPostgres, "Storage driver: postgres, sqlite or memory")
	fs.String("db-url", "", "Database URL or SQLite path (env DATABASE_URL)")
	fs.Bool("init-schema", false, "Create tables before ingesting")
	fs.Bool("dry-run", false, "Extract and validate without a database")
	fs.String("metrics-file", "", "Write Prometheus metrics to this textfile when done")
	fs.String("log-level", "info", "Log level: debug, info, warn or error")
	fs.String("log-format", "text", "Log format: text or json")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(stderr, "unexpected arguments:", fs.Args())
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	// Only flags given on the command line override file and env values.
	overrides := map[string]any{}
	fs.Visit(func(f *flag.Flag) {
		if getter, ok := f.Value.(flag.Getter); ok {
			overrides[flagKeys[f.Name]] = getter.Get()
		}
	})
	return overrides, nil
}

func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	switch cfg.EffectiveDriver() {
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DatabaseURL, postgres.WithLogger(log.Named("postgres")))
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.DatabaseURL, sqlite.WithLogger(log.Named("sqlite")))
	case config.DriverMemory:
		log.Info(ctx, "dry run, nothing is persisted")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

// report logs the run summary and database totals, records the run and writes metrics.
func report(ctx context.Context, log logger.Logger, store repository.Store, cfg *config.Config, run model.Run) {
	log.Info(ctx, "run summary",
		logger.Int("succeeded", run.Succeeded),
		logger.Int("skipped", run.Skipped),
		logger.Int("failed", run.Failed),
		logger.Duration("duration", run.Duration),
	)

	// The run may have been cancelled; totals and bookkeeping still go through.
	bg := context.WithoutCancel(ctx)
	if st, err := store.Stats(bg); err != nil {
		log.Warn(ctx, "failed to read database stats", logger.Error(err))
	} else {
		log.Info(ctx, "database stats",
			logger.Int64("matches", st.Matches),
			logger.Int64("innings", st.Innings),
			logger.Int64("deliveries", st.Deliveries),
			logger.Int64("players", st.Players),
		)
	}
	if err := store.RecordRun(bg, run); err != nil {
		log.Warn(ctx, "failed to record run", logger.Error(err))
	}

	metrics.RecordRun(run.Attempted, run.Duration, time.Now())
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn(ctx, "failed to write metrics", logger.Error(err))
		}
	}
}
