// @title           Catalog Service API
// @version         1.0
// @description     Storefront catalog: authentication, categories and products.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-service/internal/api"
	"github.com/storefront/catalog-service/internal/api/handler"
	"github.com/storefront/catalog-service/internal/core/ports"
	"github.com/storefront/catalog-service/internal/core/service"
	"github.com/storefront/catalog-service/internal/infrastructure/config"
	"github.com/storefront/catalog-service/internal/infrastructure/db/mongo"
	"github.com/storefront/catalog-service/internal/infrastructure/db/postgres"
	"github.com/storefront/catalog-service/internal/infrastructure/db/redis"
	"github.com/storefront/catalog-service/internal/infrastructure/storage"
	"github.com/storefront/catalog-service/pkg/logger"
)

func main() {
	loadLocalEnv()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("catalog service stopped")
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	log.Info().Str("driver", cfg.Store.Driver).Msg("store connected")

	health := map[string]handler.PingFunc{cfg.Store.Driver: st.ping}

	var limiter ports.SignInLimiter
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = redis.NewSignInLimiter(rdb, cfg.Auth.MaxAttempts, cfg.Auth.AttemptWindow)
		health["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("sign-in limiter enabled")
	}

	files, err := storage.NewFileSystem(cfg.Images.Dir, cfg.Images.BaseURL)
	if err != nil {
		return err
	}
	images := storage.NewImageStore(files)

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(st.users, tokens, limiter, cfg.Auth.BcryptCost, logger.Component("auth"))
	queryService := service.NewCatalogQueryService(st.categories, st.products, cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize, logger.Component("catalog_query"))
	mutationService := service.NewCatalogMutationService(st.categories, st.products, images, logger.Component("catalog_mutation"))

	e := api.NewRouter(api.Deps{
		Config:    cfg,
		Logger:    log,
		Auth:      authService,
		Tokens:    tokens,
		Query:     queryService,
		Mutations: mutationService,
		Images:    images,
		Health:    health,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("catalog service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

// store bundles the repositories of the configured driver.
type store struct {
	users      ports.UserRepository
	categories ports.CategoryRepository
	products   ports.ProductRepository
	ping       handler.PingFunc
	close      func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			users:      mongo.NewUserRepository(db),
			categories: mongo.NewCategoryRepository(db),
			products:   mongo.NewProductRepository(db),
			ping:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:      func() { _ = client.Disconnect(context.Background()) },
		}, nil
	default:
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Store.DatabaseURL})
		if err != nil {
			return nil, err
		}
		return &store{
			users:      postgres.NewUserRepository(pool),
			categories: postgres.NewCategoryRepository(pool),
			products:   postgres.NewProductRepository(pool),
			ping:       pool.Ping,
			close:      pool.Close,
		}, nil
	}
}
