package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"lumina-crm/backend/internal/approval"
	"lumina-crm/backend/internal/approval/capability"
	approvalrepo "lumina-crm/backend/internal/approval/repository"
	"lumina-crm/backend/internal/config"
	"lumina-crm/backend/internal/db"
	membershiprepo "lumina-crm/backend/internal/membership/repository"
	"lumina-crm/backend/internal/orgcontext"
	orgrepo "lumina-crm/backend/internal/organization/repository"
	"lumina-crm/backend/internal/server"
	"lumina-crm/backend/internal/server/middleware"
	oteltrace "lumina-crm/backend/internal/telemetry/otel"
	"lumina-crm/backend/internal/tenantcache"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "lumina-core").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := oteltrace.NewProviders(ctx, cfg.OTLPEndpoint, "lumina-core", cfg.OTLPInsecure)
	if err != nil {
		log.Fatal().Err(err).Msg("telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	defer sqlDB.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	cache := tenantcache.New(redisClient, cfg.CacheTTL())

	tokens, err := orgcontext.NewTokenCodec([]byte(cfg.OrgTokenSecret), cfg.OrgTokenLifetime())
	if err != nil {
		log.Fatal().Err(err).Msg("token codec")
	}
	memberships := membershiprepo.NewPostgresRepository(sqlDB)
	resolver := orgcontext.NewResolver(memberships, tokens, cache)

	capabilities, err := capability.NewOPAEvaluator(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("capability policy")
	}
	workflow := approval.NewWorkflow(approvalrepo.NewPostgresRepository(sqlDB), capabilities)

	rateLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("rate limiter")
	}

	handler := server.NewRouter(server.Deps{
		Resolver:            resolver,
		Workflow:            workflow,
		Orgs:                orgrepo.NewPostgresRepository(sqlDB),
		HealthPinger:        sqlDB,
		HealthPolicyChecker: capabilities,
		Log:                 log,
		RateLimit:           rateLimit,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("serve")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("http server stopped")
}
