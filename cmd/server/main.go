// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/spicepop/storefront/internal/cache"
	"github.com/spicepop/storefront/internal/config"
	"github.com/spicepop/storefront/internal/database"
	"github.com/spicepop/storefront/internal/i18n"
	"github.com/spicepop/storefront/internal/router"
	"github.com/spicepop/storefront/internal/storage"
	"github.com/spicepop/storefront/internal/utils"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cmd := &cli.Command{
		Name:   "spicepop",
		Usage:  "SpicePop storefront API and SPA server",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run migrations, seed if enabled and start the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Apply pending database migrations",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, log, err := setup()
					if err != nil {
						return err
					}
					return database.RunMigrations(cfg.Database, log)
				},
			},
			{
				Name:  "seed",
				Usage: "Insert the admin user and demo catalog into an empty database",
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, log, err := setup()
					if err != nil {
						return err
					}
					if err := database.RunMigrations(cfg.Database, log); err != nil {
						return err
					}

					db, err := database.Initialize(cfg.Database, log)
					if err != nil {
						return err
					}
					defer database.Close(db, log)

					seedCfg := cfg.Seed
					seedCfg.StepDelay = 0
					return database.Seed(ctx, storage.NewPostgresStorage(db), seedCfg, log)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("Command failed")
	}
}

// setup loads configuration and prepares the process-wide logger.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logrus.StandardLogger()
	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return cfg, log, nil
}

func serve(ctx context.Context, _ *cli.Command) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	utils.SetJWTSecret(cfg.JWT.SecretKey)
	utils.SetExposeErrors(!cfg.IsProduction())

	if err := i18n.Initialize(); err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var store storage.Storage
	if cfg.Environment == "test" && cfg.Database.URL == "" {
		log.Warn("No DATABASE_URL in test mode, using in-memory storage")
		store = storage.NewMemStorage()
	} else {
		if err := database.RunMigrations(cfg.Database, log); err != nil {
			return err
		}

		db, err := database.Initialize(cfg.Database, log)
		if err != nil {
			return err
		}
		defer database.Close(db, log)

		store = storage.NewPostgresStorage(db)
	}

	var cacheStore cache.Store = cache.NewMemoryStore()
	if cfg.Redis.URL != "" {
		redisStore, err := cache.NewRedisStore(cache.RedisStoreOptions{
			URL:    cfg.Redis.URL,
			Prefix: cfg.Redis.Prefix,
		})
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, caching in memory")
		} else {
			cacheStore = redisStore
		}
	}
	defer cacheStore.Close()

	listCache := cache.New(cacheStore, cfg.Cache.TTL,
		cache.WithLoadTimeout(cfg.Cache.LoadTimeout),
		cache.WithLogger(log),
	)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Seed.Enabled {
		if err := seedStore(ctx, store, listCache, cfg.Seed, log); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.WithError(err).Error("Seeding failed")
		}
	}

	r, stop, err := router.Initialize(store, listCache, cfg, log)
	if err != nil {
		return err
	}
	defer stop()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info("Server exited")
	return nil
}

// seedStore seeds before the server accepts requests and drops any list
// bodies cached while the store was still empty.
func seedStore(ctx context.Context, store storage.Storage, listCache *cache.TTLCache, cfg config.SeedConfig, log *logrus.Logger) error {
	defer listCache.Purge(context.WithoutCancel(ctx))
	return database.Seed(ctx, store, cfg, log)
}
