package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"registrar/internal/audit"
	"registrar/internal/company/handler"
	"registrar/internal/company/metrics"
	"registrar/internal/company/service"
	"registrar/internal/company/store"
	applicationstore "registrar/internal/company/store/application"
	companystore "registrar/internal/company/store/company"
	"registrar/internal/company/validation"
	"registrar/internal/division"
	"registrar/internal/platform/config"
	"registrar/internal/platform/httpserver"
	"registrar/internal/platform/logger"
	"registrar/internal/platform/middleware"
	platformredis "registrar/internal/platform/redis"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	companies, applications, cleanup, err := buildStores(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	resolver := buildDivisionResolver(cfg, log)
	publisher, pubClose := buildAuditPublisher(cfg, log)
	defer pubClose()

	policy := validation.RosterPolicy{
		RequireLegalRepFromManagement: cfg.StrictLegalRep,
	}
	svc := service.New(policy, companies, applications,
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithAuditPublisher(publisher),
		service.WithDivisionResolver(resolver),
	)

	verifier := middleware.NewTokenVerifier(cfg.JWTSigningKey)
	router := handler.NewRouter(handler.New(svc, log, verifier))
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("registrar listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// buildStores prefers Postgres when configured and falls back to the
// in-memory stores, which keeps local development dependency-free.
func buildStores(ctx context.Context, cfg config.Server, log *slog.Logger) (store.CompanyStore, store.ApplicationStore, func(), error) {
	if cfg.PostgresURL == "" {
		log.Warn("POSTGRES_URL not set, using in-memory stores")
		return companystore.NewInMemory(), applicationstore.NewInMemory(), func() {}, nil
	}
	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	return companystore.NewPostgres(pool), applicationstore.NewPostgres(pool), pool.Close, nil
}

// buildDivisionResolver layers the optional Redis cache over the static
// hierarchy table. Cache failures degrade to direct lookups, never errors.
func buildDivisionResolver(cfg config.Server, log *slog.Logger) division.Resolver {
	var resolver division.Resolver = division.NewStaticResolver(division.DefaultHierarchy)
	client, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, division cache disabled", "error", err)
		return resolver
	}
	if client == nil {
		return resolver
	}
	return division.NewCachedResolver(resolver, client.Client, config.DivisionCacheTTL)
}

// buildAuditPublisher emits to Kafka when brokers are configured, otherwise
// to the structured log so the trail is never silently dropped.
func buildAuditPublisher(cfg config.Server, log *slog.Logger) (audit.Publisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Warn("KAFKA_BROKERS not set, audit events go to the log")
		return audit.NewLogPublisher(log), func() {}
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.KafkaBrokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		log.Warn("kafka unavailable, audit events go to the log", "error", err)
		return audit.NewLogPublisher(log), func() {}
	}
	return audit.NewKafkaPublisher(client, cfg.AuditTopic), client.Close
}
