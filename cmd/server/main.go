package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/grocerhq/storefront/internal/catalog"
	"github.com/grocerhq/storefront/internal/config"
	"github.com/grocerhq/storefront/internal/handlers"
	"github.com/grocerhq/storefront/internal/middleware"
	"github.com/grocerhq/storefront/internal/session"
	"github.com/grocerhq/storefront/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	// Pick the catalog source: a configured endpoint, or the embedded
	// demo dataset when none is set.
	var source catalog.Source
	if cfg.Catalog.URL != "" {
		source = catalog.NewHTTPSource(cfg.Catalog.URL, time.Duration(cfg.Catalog.FetchTimeout)*time.Second)
		log.Info("using catalog endpoint", "url", cfg.Catalog.URL)
	} else {
		source = catalog.NewStaticSource()
		log.Info("using embedded catalog dataset")
	}

	// Session manager owns one store per storefront session
	sessions := session.NewManager(source, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(sessions, log)
	sessionHandler := handlers.NewSessionHandler(sessions, log)
	productHandler := handlers.NewProductHandler(log)
	filterHandler := handlers.NewFilterHandler(log)
	cartHandler := handlers.NewCartHandler(cfg.Cart, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Session-ID", "api_key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Session creation happens before a session exists
		r.Post("/session", sessionHandler.Create)

		// Everything else runs in the context of a live session
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(sessions))

			r.Delete("/session", sessionHandler.Delete)
			r.Post("/session/catalog/refresh", sessionHandler.RefreshCatalog)

			// Product views
			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/categories", productHandler.Categories)
			r.Get("/products/filters", productHandler.Filters)

			// Filter state
			r.Put("/filter", filterHandler.Set)
			r.Delete("/filter", filterHandler.Clear)
			r.Post("/filter/toggle", filterHandler.Toggle)

			// Cart
			r.Get("/cart", cartHandler.GetCart)
			r.Group(func(r chi.Router) {
				r.Use(middleware.APIKeyAuth(cfg.Auth))

				r.Post("/cart/add", cartHandler.AddItem)
				r.Post("/cart/reduce", cartHandler.ReduceItem)
				r.Post("/cart/remove", cartHandler.RemoveItem)
			})
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
