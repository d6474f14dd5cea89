package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/amrtikande/shoop/internal/auth"
	c "github.com/amrtikande/shoop/internal/cache"
	"github.com/amrtikande/shoop/internal/catalog"
	"github.com/amrtikande/shoop/internal/checkout"
	"github.com/amrtikande/shoop/internal/config"
	h "github.com/amrtikande/shoop/internal/http"
	"github.com/amrtikande/shoop/internal/keepalive"
	"github.com/amrtikande/shoop/internal/store"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if cfg.JWTSecret == "" || cfg.AdminPassword == "" {
		log.Fatal("JWT_SECRET and ADMIN_PASSWORD must be set")
	}

	ctx := context.Background()

	// Stores: Mongo when a URI is configured, in-memory otherwise.
	var (
		catalogStore store.CatalogStore
		orderStore   store.OrderStore
		pinger       store.Pinger
		mongoDB      *mongo.Database
	)
	if cfg.MongoURI != "" {
		db, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoDB = db

		catalogStore = store.NewMongoCatalog(db)
		orderStore = store.NewMongoOrders(db)
		if p, ok := catalogStore.(store.Pinger); ok {
			pinger = p
		}
		if idx, ok := catalogStore.(interface{ CreateIndexes(context.Context) error }); ok {
			if err := idx.CreateIndexes(ctx); err != nil {
				logger.Warn("failed to create indexes", slog.String("error", err.Error()))
			}
		}
		logger.Info("connected to MongoDB", slog.String("database", cfg.MongoDBName))
	} else {
		mem := store.NewMemoryStore()
		catalogStore = mem
		orderStore = mem
		logger.Warn("MONGODB_URI not set, using in-memory store")
	}

	// Optional product cache
	var productCache c.ProductCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Redis connection failed: %v", err)
		}
		productCache = c.NewRedisCache(redisClient)
		logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))
	}

	catalogService := catalog.NewService(catalogStore, productCache, logger)
	checkoutService := checkout.NewService(catalogService, orderStore, logger)
	authService := auth.NewService(cfg.JWTSecret, cfg.AdminPassword)

	router := h.NewRouter(h.RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		MaxBodySize:    cfg.MaxRequestBodySize,
		AllowedOrigins: cfg.AllowedOrigins,
	}, authService, checkoutService, catalogService, orderStore, pinger, logger)

	// Keep-alive pinger
	pingCtx, stopPinger := context.WithCancel(ctx)
	defer stopPinger()
	go keepalive.New(catalogStore, cfg.KeepAliveInterval, logger).Run(pingCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	stopPinger()
	if mongoDB != nil {
		if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
			logger.Error("mongo disconnect failed", slog.String("error", err.Error()))
		}
	}

	logger.Info("server exited")
}
