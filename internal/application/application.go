package application

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"nexaway/internal/config"
	agencyservice "nexaway/internal/domain/service/agency"
	offerservice "nexaway/internal/domain/service/offer"
	reviewservice "nexaway/internal/domain/service/review"
	"nexaway/internal/infrastructure/notifier"
	"nexaway/internal/infrastructure/persistence"
	"nexaway/internal/infrastructure/registry"
	"nexaway/internal/server"
	"nexaway/internal/worker"
	"nexaway/pkg/application/connectors"
	"nexaway/pkg/application/modules"
	"nexaway/pkg/logx"
	"nexaway/pkg/middlewarex"
)

const eventChannelSize = 100

// Run wires the whole service together and blocks until the context ends
// or a module fails.
func Run(ctx context.Context) error { //nolint:funlen
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db.PingContext: %w", err)
	}

	redisConn := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := redisConn.Client(ctx)
	defer redisConn.Close(ctx)

	agencyRepo := persistence.NewAgencyRepository(db)
	reviewRepo := persistence.NewReviewRepository(db)
	offerRepo := persistence.NewOfferRepository(db)

	masker := logx.NewSensitiveDataMasker()

	registryClient := registry.NewClient(cfg.Registry.BaseURL, cfg.Registry.Timeout, masker)
	registryCache := cache.New(cfg.Registry.CacheTTL, time.Hour)

	events := make(chan agencyservice.Event, eventChannelSize)

	agencyService := agencyservice.NewAgencyService(agencyRepo, reviewRepo, registryClient, registryCache).
		WithEvents(events)
	reviewService := reviewservice.NewReviewService(reviewRepo, agencyRepo, reviewservice.NewGuardian())
	offerService := offerservice.NewOfferService(offerRepo, agencyRepo)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Bot.Token != "" {
		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}

		g.Go(func() error {
			if err := bot.Run(ctx, events); err != nil && ctx.Err() == nil {
				logger(ctx).Error("notifier bot stopped", logx.Error(err))
			}

			return nil
		})
	}

	recalculator := worker.NewRecalculator(agencyService, cfg.Worker.RecalcInterval)
	if err := recalculator.Start(ctx); err != nil {
		return fmt.Errorf("recalculator.Start: %w", err)
	}
	defer recalculator.Stop()

	asynqRedis := modules.AsynqRedisConn{Client: redisClient}

	asynqClient := asynq.NewClient(asynqRedis)

	taskClient := worker.NewTaskClient(asynqClient)

	asynqServer := modules.AsynqServer{Redis: asynqRedis}
	asynqServer.Run(ctx, g,
		modules.AsynqQueues{cfg.Worker.QueueName: cfg.Worker.Concurrency},
		modules.AsynqHandler{
			Pattern: worker.TypeTrustRecalculate,
			Handle:  worker.NewTrustRecalculateHandler(agencyService).Handle,
		},
	)

	srv := server.NewServer(
		server.NewAgencyServer(agencyService, taskClient),
		server.NewReviewServer(reviewService),
		server.NewOfferServer(offerService),
	)

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.ClientID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.HTTP.LogFieldMaxLen),
	)
	srv.RegisterRoutes(router)

	httpServer := &http.Server{ //nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	modules.HTTPServer{ShutdownTimeout: cfg.HTTP.ShutdownTimeout}.Run(ctx, g, httpServer)
	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
	}.Run(ctx, g)
	modules.MetricServer{ListenAddress: cfg.HTTP.MetricListenAddress}.Run(ctx, g)

	logger(ctx).Info("application started")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}
