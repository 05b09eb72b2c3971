package main // Entry point package

import (
	"context"
	"errors"
	"log" // Startup failures
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"    // .env loading for local runs
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/quickshow/internal/catalog"
	"github.com/iliyamo/quickshow/internal/config" // Internal config loader
	"github.com/iliyamo/quickshow/internal/database"
	"github.com/iliyamo/quickshow/internal/handler"
	"github.com/iliyamo/quickshow/internal/middleware"
	"github.com/iliyamo/quickshow/internal/obs"
	"github.com/iliyamo/quickshow/internal/queue"
	"github.com/iliyamo/quickshow/internal/repository"
	"github.com/iliyamo/quickshow/internal/router" // Internal router setup
	"github.com/iliyamo/quickshow/internal/service"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine
	cfg := config.Load()
	logger := obs.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	movies, shows, closeStore := openStore(ctx, cfg)
	defer closeStore()

	rdb := config.NewRedisClient(config.LoadRedisConfig()) // nil when Redis is disabled or unreachable
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	cat := catalog.New(cfg.TMDBBaseURL, cfg.TMDBAPIKey, cfg.CatalogTimeout)
	opts := []service.Option{service.WithLocation(cfg.Location()), service.WithLogger(logger)}
	if cfg.EventsEnabled {
		opts = append(opts, service.WithEvents(queue.NewPublisher(cfg.RabbitURL, logger)))
	}
	if cfg.EventsConsumerEnabled {
		go func() {
			if err := queue.StartShowsConsumer(ctx, cfg.RabbitURL, cfg.ShowEventsLogDir); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("shows consumer stopped", "error", err)
			}
		}()
	}
	svc := service.NewShowService(movies, shows, cat, opts...)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))

	router.RegisterRoutes(e)
	router.RegisterShows(e, handler.NewShowHandler(cat, svc, logger), cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

// openStore connects the configured backend, prepares its schema or indexes
// and returns the repositories plus a close function.
func openStore(ctx context.Context, cfg config.Config) (service.MovieStore, service.ShowStore, func()) {
	switch cfg.StoreDriver {
	case config.StoreMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("mysql: %v", err)
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("mysql schema: %v", err)
		}
		return repository.NewMovieRepo(db), repository.NewShowRepo(db), func() { _ = db.Close() }
	default:
		client, db, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("mongo: %v", err)
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			log.Fatalf("mongo indexes: %v", err)
		}
		return repository.NewMongoMovieRepo(db), repository.NewMongoShowRepo(db), func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}
	}
}
