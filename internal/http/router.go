package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/amrtikande/shoop/internal/auth"
	"github.com/amrtikande/shoop/internal/checkout"
	"github.com/amrtikande/shoop/internal/store"
)

type RouterConfig struct {
	RequestTimeout time.Duration
	MaxBodySize    int64
	AllowedOrigins []string
}

// NewRouter wires the full HTTP surface. The pinger may be nil when the
// backing store has no remote connection to report on.
func NewRouter(
	cfg RouterConfig,
	authService *auth.Service,
	checkoutService *checkout.Service,
	catalogStore store.CatalogStore,
	orderStore store.OrderStore,
	pinger store.Pinger,
	logger *slog.Logger,
) chi.Router {
	products := NewProductsHandler(catalogStore, cfg.RequestTimeout, logger)
	orders := NewOrdersHandler(checkoutService, orderStore, cfg.RequestTimeout, logger)
	authHandler := NewAuthHandler(authService, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(MaxBodySize(cfg.MaxBodySize))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "x-auth-token"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"message":   "e-commerce API up",
			"status":    "active",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Keep-alive probe for external uptime monitors
	r.Get("/api/ping", pingHandler(catalogStore, pinger, cfg.RequestTimeout, logger))

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", products.List)
		r.Get("/{id}", products.Get)

		r.Group(func(r chi.Router) {
			r.Use(AdminOnly(authService))
			r.Post("/", products.Create)
			r.Put("/{id}", products.Update)
			r.Delete("/{id}", products.Delete)
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", orders.PlaceOrder)

		r.Group(func(r chi.Router) {
			r.Use(AdminOnly(authService))
			r.Get("/", orders.ListOrders)
			r.Get("/{id}", orders.GetOrder)
			r.Put("/{id}", orders.UpdateStatus)
			r.Delete("/{id}", orders.DeleteOrder)
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/verify", authHandler.Verify)
	})

	return r
}

func pingHandler(catalogStore store.CatalogStore, pinger store.Pinger, timeout time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		dbStatus := "connected"
		if pinger != nil {
			if err := pinger.Ping(ctx); err != nil {
				dbStatus = "disconnected"
			}
		}

		count, err := catalogStore.CountProducts(ctx)
		if err != nil {
			logger.Error("keep-alive count failed", slog.String("error", err.Error()))
			respondJSON(w, http.StatusInternalServerError, map[string]string{
				"status":  "error",
				"message": "count query failed",
			})
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":        "ok",
			"database":      dbStatus,
			"productsCount": count,
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
