// Command api serves the risk back office HTTP API.
//
//	@title						Risk Back Office API
//	@version					1.0
//	@description				Column-driven listings, overdue reporting and credit-limit actions.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	_ "github.com/traderisk/risk-backoffice/docs"
	"github.com/traderisk/risk-backoffice/internal/api"
	"github.com/traderisk/risk-backoffice/internal/api/metrics"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
	"github.com/traderisk/risk-backoffice/internal/core/query"
	"github.com/traderisk/risk-backoffice/internal/core/registry"
	"github.com/traderisk/risk-backoffice/internal/core/service"
	"github.com/traderisk/risk-backoffice/internal/infrastructure/db/mongo"
	"github.com/traderisk/risk-backoffice/internal/infrastructure/db/redis"
	"github.com/traderisk/risk-backoffice/internal/pkg/config"
	"github.com/traderisk/risk-backoffice/pkg/logger"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "risk-api",
		Env:     cfg.Env,
	})
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "risk-api",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	// Redis only backs the idempotency guard; the API runs without it.
	var (
		rdb   *goredis.Client
		guard ports.IdempotencyGuard
	)
	rdb, err = redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, idempotency keys disabled")
	} else {
		defer rdb.Close()
		guard = redis.NewIdempotencyGuard(rdb, cfg.Redis.IdempotencyTTL)
	}

	reg := registry.Default()
	builder := query.NewDefaultBuilder()

	prefs := mongo.NewPreferenceRepository(db)
	roster := mongo.NewClientRosterRepository(db)
	creditLimits := mongo.NewCreditLimitRepository(db)
	overdues, err := mongo.NewOverdueRepository(db, reg, builder, cfg.Query.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("overdue repository")
	}
	if err := mongo.EnsureIndexes(ctx, roster, creditLimits, overdues); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	exec := metrics.InstrumentExecutor(mongo.NewPipelineExecutor(db, cfg.Query.Timeout, log))

	scopes := service.NewScopeService(roster, log)
	columns := service.NewColumnService(reg, prefs, log)

	e := api.NewRouter(api.Deps{
		Log:          log,
		JWTSecret:    cfg.JWTSecret,
		Columns:      columns,
		Lists:        service.NewListService(reg, builder, columns, scopes, exec, log),
		Overdues:     service.NewOverdueService(reg, builder, scopes, exec, overdues, cfg.Query.LookbackMonths, log),
		CreditLimits: service.NewCreditLimitService(creditLimits, scopes, guard, log),
		Mongo:        db,
		Redis:        rdb,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("http server shutdown")
	}
}
