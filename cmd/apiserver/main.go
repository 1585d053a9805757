// The apiserver binary runs the LexDocket HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/LexDocket/internal/application/cascade"
	"github.com/turtacn/LexDocket/internal/application/deadlines"
	"github.com/turtacn/LexDocket/internal/config"
	"github.com/turtacn/LexDocket/internal/domain/calendar"
	"github.com/turtacn/LexDocket/internal/domain/docket"
	"github.com/turtacn/LexDocket/internal/domain/rules"
	"github.com/turtacn/LexDocket/internal/infrastructure/database/postgres"
	"github.com/turtacn/LexDocket/internal/infrastructure/database/redis"
	"github.com/turtacn/LexDocket/internal/infrastructure/database/repositories"
	"github.com/turtacn/LexDocket/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/prometheus"
	httpapi "github.com/turtacn/LexDocket/internal/interfaces/http"
	"github.com/turtacn/LexDocket/internal/interfaces/http/handlers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (env-only when empty)")
	migrate := flag.Bool("migrate", false, "apply schema migrations and exit")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	logging.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()
	if *migrate {
		return conn.RunMigrations()
	}

	collector := prometheus.NewCollector("lexdocket")
	metrics := prometheus.NewEngineMetrics(collector)

	checkers := map[string]handlers.HealthChecker{"postgres": conn}

	var holidayProvider calendar.Provider = calendar.NewRuleProvider()
	if cfg.Redis.Enabled {
		cache, err := redis.NewCache(ctx, cfg.Redis, log)
		if err != nil {
			return err
		}
		defer cache.Close()
		checkers["redis"] = cache
		holidayProvider = deadlines.NewCachedHolidayProvider(
			holidayProvider, cache, cfg.Engine.HolidayCacheTTL, log, metrics)
	}

	var publisher cascade.EventPublisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, log)
		defer producer.Close()
		publisher = producer
	}

	calc := docket.NewCalculator(holidayProvider, docket.NewTableResolver())
	uow := repositories.NewSQLUnitOfWork(conn.DB, log)
	engine := cascade.NewEngine(uow, rules.NewBuiltinRegistry(), calc, publisher, log, metrics)
	svc := deadlines.NewService(calc, holidayProvider, log, metrics)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Service:   svc,
		Engine:    engine,
		Logger:    log,
		Metrics:   metrics,
		Collector: collector,
		Checkers:  checkers,
	})
	server := httpapi.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
