package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/tazhibayda/posts-service/internal/config"
	"github.com/tazhibayda/posts-service/internal/feed"
	api "github.com/tazhibayda/posts-service/internal/http"
	"github.com/tazhibayda/posts-service/internal/log"
	"github.com/tazhibayda/posts-service/internal/metrics"
	"github.com/tazhibayda/posts-service/internal/posts"
	"github.com/tazhibayda/posts-service/internal/queue"
	"github.com/tazhibayda/posts-service/internal/repo"
	"github.com/tazhibayda/posts-service/internal/repo/memory"
	"github.com/tazhibayda/posts-service/internal/repo/mongodb"
)

func main() {
	cfg := config.Load()

	if _, err := log.Init(cfg.Prod); err != nil {
		stdlog.Fatalf("log init: %v", err)
	}
	defer log.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var store repo.Store
	if cfg.MongoURI == "memory" {
		// dev mode without a database
		store = memory.NewStore()
	} else {
		ms, err := mongodb.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.L.Fatal("mongo connect", zap.Error(err))
		}
		if err := ms.EnsureIndexes(ctx); err != nil {
			log.L.Fatal("ensure indexes", zap.Error(err))
		}
		defer ms.Close(context.Background())
		store = ms
	}

	var events queue.Publisher = queue.NewNoop()
	if cfg.RabbitURL != "" {
		pub, err := queue.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.L.Fatal("rabbit connect", zap.Error(err))
		}
		defer pub.Close()
		events = pub
	}

	var limiter api.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		limiter = api.NewRedisLimiter(rdb, cfg.LoginRatePerMin, time.Minute)
	} else {
		limiter = api.NewMemoryLimiter(cfg.LoginRatePerMin, time.Minute)
	}

	h := api.NewHandler(
		store,
		posts.NewService(store, events),
		feed.NewAssembler(store, cfg.PageSize),
		events,
		cfg.SessionSecret,
		time.Duration(cfg.SessionTTLDays)*24*time.Hour,
		limiter,
	)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	log.L.Info("posts-service listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.L.Info("signal received, shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		log.L.Error("server error", zap.Error(err))
	}
}
