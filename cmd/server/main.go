package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/identigo/backend/api/handler"
	"github.com/identigo/backend/internal/config"
	"github.com/identigo/backend/internal/i18n"
	"github.com/identigo/backend/internal/infrastructure/journal"
	"github.com/identigo/backend/internal/infrastructure/mailer"
	"github.com/identigo/backend/internal/infrastructure/monitor"
	pgInfra "github.com/identigo/backend/internal/infrastructure/postgres"
	redisInfra "github.com/identigo/backend/internal/infrastructure/redis"
	"github.com/identigo/backend/internal/middleware"
	"github.com/identigo/backend/internal/router"
	"github.com/identigo/backend/internal/services"
	"github.com/identigo/backend/internal/services/lifecycle"
	"github.com/identigo/backend/pkg/httpcontext"
	"github.com/identigo/backend/pkg/logger"
	"github.com/identigo/backend/pkg/password"
	"github.com/identigo/backend/repository/postgres"
	redisRepo "github.com/identigo/backend/repository/redis"
	authUC "github.com/identigo/backend/usecase/auth"
	registrationUC "github.com/identigo/backend/usecase/registration"
	usersUC "github.com/identigo/backend/usecase/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if cfg.Migrations.Enabled {
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	journalStore, err := journal.Open(cfg.Journal.Path, "pending_deletes")
	if err != nil {
		zapLogger.Fatal("failed to open journal store", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return journalStore.Close()
	})

	mon := monitor.New(pool, redisClient, journalStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	activationMailer, err := mailer.New(cfg.SMTP, zapLogger)
	if err != nil {
		zapLogger.Fatal("mailer setup failed", zap.Error(err))
	}

	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := redisRepo.NewTokenRepository(redisClient, cfg.Auth.TokenTTL)

	journalProcessor := services.NewJournalProcessor(
		journalStore,
		mon,
		userRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Journal.SyncInterval,
			BatchSize:  cfg.Journal.BatchSize,
			MaxRetries: cfg.Journal.MaxRetry,
		},
	)
	journalProcessor.Start()
	manager.Register("journal_processor", func(ctx context.Context) error {
		journalProcessor.Stop(ctx)
		return nil
	})

	journalBridge := services.NewJournalBridge(journalProcessor)

	hasher := password.NewHasher(cfg.Auth.BcryptCost)

	registrationUseCase := registrationUC.New(userRepo, hasher, activationMailer, journalBridge, zapLogger)
	authUseCase := authUC.New(userRepo, tokenRepo, hasher, cfg.Auth.TokenTTL, zapLogger)
	usersUseCase := usersUC.New(userRepo, zapLogger)

	catalog, err := i18n.New()
	if err != nil {
		zapLogger.Fatal("message catalog failed", zap.Error(err))
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		User:   apiHandler.NewUserHandler(registrationUseCase, usersUseCase, ctxAdapter, catalog, zapLogger),
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, catalog, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, catalog, zapLogger),
	}

	basicAuth := middleware.BasicAuth(authUseCase, ctxAdapter, zapLogger)
	bearerAuth := middleware.BearerAuth(authUseCase, ctxAdapter, zapLogger)
	r := router.New(handlers, basicAuth, bearerAuth)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
