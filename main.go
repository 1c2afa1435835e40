package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"partsdesk/api"
	"partsdesk/attributes"
	"partsdesk/cart"
	"partsdesk/catalog"
	"partsdesk/checkout"
	"partsdesk/compat"
	"partsdesk/config"
	"partsdesk/dashboard"
	"partsdesk/documents"
	"partsdesk/exports"
	"partsdesk/orders"
	"partsdesk/ratelim"
	"partsdesk/rdx"
	"partsdesk/routes"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(deps routes.Deps) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddDashboardRoutes(router, deps)
	routes.AddCategoryRoutes(router, deps)
	routes.AddProductRoutes(router, deps)
	routes.AddCartRoutes(router, deps)
	routes.AddOrderRoutes(router, deps)
	routes.AddAttributeRoutes(router, deps)

	return router
}

func main() {
	cfg := config.Load()

	client := api.NewClient(cfg.BackendBaseURL, cfg.RequestTimeout)
	cache := rdx.NewCache(cfg.RedisAddr, cfg.DashboardTTL)

	querier := catalog.NewQuerier(client)
	advisor := compat.NewAdvisor(client, querier, 300*time.Millisecond)
	cartManager := cart.NewManager(client)
	// a burst of cart changes collapses into one suggestion precompute
	cartManager.OnChange(advisor.Precompute)

	dashboardService := dashboard.NewService(client, cache)
	pipeline := checkout.NewPipeline(client)
	rateLimiter := ratelim.NewRateLimiter()

	deps := routes.Deps{
		Catalog:    &catalog.Handler{Client: client, Querier: querier, Invalidate: dashboardService.Invalidate},
		Cart:       &cart.Handler{Manager: cartManager, Advisor: advisor},
		Compat:     &compat.Handler{Advisor: advisor},
		Orders:     &orders.Handler{Client: client, Pipeline: pipeline, Cart: cartManager, Invalidate: dashboardService.Invalidate},
		Dashboard:  &dashboard.Handler{Service: dashboardService},
		Documents:  &documents.Handler{Client: client},
		Attributes: &attributes.Handler{Client: client},
		Exports:    &exports.Handler{Client: client},
		Limiter:    rateLimiter,
	}

	router := setupRouter(deps)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		advisor.Stop()
		if err := cache.Close(); err != nil {
			log.Println("Redis close error:", err)
		}
	})

	go func() {
		log.Printf("🚀 Console gateway listening on %s (backend %s)", cfg.Port, cfg.BackendBaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
