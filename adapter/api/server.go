// Package api serves the store's HTTP JSON API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/gymstore/internal/app"
	"github.com/gin-gonic/gin"
)

// Server is the HTTP API server.
type Server struct {
	engine    *gin.Engine
	server    *http.Server
	logger    *slog.Logger
	container *app.Container
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates an API server over the container's handlers.
func NewServer(cfg ServerConfig, container *app.Container, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestContext(logger))

	s := &Server{
		engine:    engine,
		logger:    logger,
		container: container,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleLiveness)
	s.engine.GET("/readyz", s.handleReadiness)

	v1 := s.engine.Group("/api/v1")
	v1.Use(s.authenticate())
	{
		v1.POST("/purchases", s.createPurchase)
		v1.GET("/purchases/:id", s.getPurchase)

		v1.GET("/accounts/me", s.getCurrentAccount)
		v1.GET("/accounts/:id/purchases", s.listAccountPurchases)
		v1.POST("/accounts/:id/credit", requireAdmin(), s.topUpCredit)

		v1.GET("/coupons", s.listCoupons)
		v1.GET("/coupons/:id", s.getCoupon)

		v1.GET("/subscription", s.getSubscription)
		v1.PUT("/subscription/auto-renewal", s.setAutoRenewal)

		v1.GET("/products", s.listProducts)
		v1.GET("/products/:id", s.getProduct)
		v1.POST("/products", requireAdmin(), s.createProduct)
		v1.POST("/products/:id/stock", requireAdmin(), s.restockProduct)
		v1.POST("/products/:id/images", requireAdmin(), s.addProductImage)

		v1.GET("/categories", s.listCategories)
		v1.POST("/categories", requireAdmin(), s.createCategory)

		v1.GET("/store-subscriptions", s.listPlans)
		v1.GET("/store-subscriptions/:id", s.getPlan)
		v1.POST("/store-subscriptions", requireAdmin(), s.createPlan)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}
