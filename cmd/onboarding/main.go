package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/mewayz/onboarding/internal/adapter/cache"
	mailadapter "github.com/mewayz/onboarding/internal/adapter/mail"
	"github.com/mewayz/onboarding/internal/auth"
	"github.com/mewayz/onboarding/internal/bootstrap"
	"github.com/mewayz/onboarding/internal/catalog"
	"github.com/mewayz/onboarding/internal/config"
	httptransport "github.com/mewayz/onboarding/internal/http"
	"github.com/mewayz/onboarding/internal/http/handler"
	httpmiddleware "github.com/mewayz/onboarding/internal/http/middleware"
	apimiddleware "github.com/mewayz/onboarding/internal/middleware"
	"github.com/mewayz/onboarding/internal/repository"
	"github.com/mewayz/onboarding/internal/server"
	"github.com/mewayz/onboarding/internal/service"
	"github.com/mewayz/onboarding/internal/telemetry"
	"github.com/mewayz/onboarding/internal/wizard"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newPGXPool,
			newCatalogRepository,
			newWorkspaceRepository,
			newInvitationRepository,
			newRedisClient,
			newWizardStore,
			newVerifier,
			newRateLimiter,
			newInvitationSender,
			catalog.NewResolver,
			service.NewWizardService,
			handler.NewWizardHandler,
			handler.NewCatalogHandler,
			newAuthMiddleware,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.SeedCatalog, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newCatalogRepository(pool *pgxpool.Pool) repository.CatalogRepository {
	return repository.NewPostgresCatalogRepo(pool)
}

func newWorkspaceRepository(pool *pgxpool.Pool) repository.WorkspaceRepository {
	return repository.NewPostgresWorkspaceRepo(pool)
}

func newInvitationRepository(pool *pgxpool.Pool) repository.InvitationRepository {
	return repository.NewPostgresInvitationRepo(pool)
}

func newRedisClient(lc fx.Lifecycle, cfg config.Config) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newWizardStore(client redis.UniversalClient, cfg config.Config) wizard.Store {
	return cacheadapter.NewRedisWizardStore(client, cfg.WizardStateTTL)
}

func newVerifier(cfg config.Config) *auth.Verifier {
	return auth.NewVerifier(cfg.JWTSecret, cfg.TokenIssuer)
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newInvitationSender(cfg config.Config) mailadapter.InvitationSender {
	return mailadapter.NewHTTPInvitationSender(nil, cfg)
}

func newAuthMiddleware(verifier *auth.Verifier) *httpmiddleware.Auth {
	return &httpmiddleware.Auth{Verifier: verifier}
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
