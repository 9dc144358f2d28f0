package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/xplorhq/asset-service/docs"
	"github.com/xplorhq/asset-service/internal/config"
	api "github.com/xplorhq/asset-service/internal/http"
	"github.com/xplorhq/asset-service/internal/log"
	"github.com/xplorhq/asset-service/internal/mail"
	"github.com/xplorhq/asset-service/internal/metrics"
	"github.com/xplorhq/asset-service/internal/oauth"
	"github.com/xplorhq/asset-service/internal/queue"
	"github.com/xplorhq/asset-service/internal/repo"
	"github.com/xplorhq/asset-service/internal/service"
	"github.com/xplorhq/asset-service/internal/storage"
)

// @title Xplor 3D Asset Service
// @version 1.0.0
// @description Backend for managing 3D assets and previews stored in S3 + MongoDB.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		stdlog.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureUserIndexes(ctx); err != nil {
		logger.Fatal("user indexes", zap.Error(err))
	}
	if err := store.EnsureAssetIndexes(ctx); err != nil {
		logger.Fatal("asset indexes", zap.Error(err))
	}

	var limiter api.AttemptCounter
	if cfg.RedisAddr != "" {
		rds := repo.NewRedis(cfg.RedisAddr)
		defer rds.Close()
		if err := rds.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, rate limiting disabled", zap.Error(err))
		} else {
			limiter = rds
		}
	}

	events := queue.NewNoop()
	if cfg.AMQPURL != "" {
		pub, err := queue.NewRabbit(cfg.AMQPURL, "account.events")
		if err != nil {
			logger.Warn("rabbitmq unreachable, events disabled", zap.Error(err))
		} else {
			events = pub
			defer events.Close()
		}
	}

	if !cfg.AWS.Enabled() {
		logger.Fatal("object storage not configured, set S3_BUCKET_NAME")
	}
	objects, err := storage.NewS3(ctx, cfg.AWS)
	if err != nil {
		logger.Fatal("s3 client", zap.Error(err))
	}

	var google *oauth.GoogleOAuth
	if cfg.OAuth.Enabled() {
		google = oauth.NewGoogle(
			cfg.OAuth.GoogleClientID,
			cfg.OAuth.GoogleClientSecret,
			cfg.OAuth.GoogleRedirectURI,
			cfg.OAuth.StateSecret,
		)
	}

	auth := service.NewAuth(store, mail.FromConfig(cfg.SMTP), cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.OTPTTLMin)*time.Minute,
	)
	assets := service.NewAssets(store, objects)

	h := api.NewHandler(auth, assets, google, events, limiter, cfg.RateLimitPerMin, store)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("asset-service listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}
