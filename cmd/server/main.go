package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/config"
	v1 "github.com/dmehra2102/prod-golang-projects/ordercast/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/service"
	"github.com/dmehra2102/prod-golang-projects/ordercast/internal/telegram"
	"github.com/dmehra2102/prod-golang-projects/ordercast/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/ordercast/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/ordercast/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("ordercast starting",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if !cfg.Telegram.Configured() {
		// Not fatal: every order request will get SERVER_CONFIG_ERROR
		// until the operator provisions the secrets.
		log.Warn("telegram credentials are not configured; orders will be rejected")
	}

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector("ordercast", prometheus.DefaultRegisterer)

	notifier := telegram.NewClient(cfg.Telegram, log.With(zap.String("component", "telegram")))
	orderSvc := service.NewOrderService(notifier, cfg.Telegram, collector, log.With(zap.String("component", "order_service")))

	router := newRouter(cfg, orderSvc, collector, log)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
	log.Info("ordercast listening", zap.String("address", cfg.Server.Address()))

	<-sigChan

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("graceful shutdown failed", zap.Error(err))
	}
	log.Info("stopped")
}

func newRouter(cfg *config.Config, orderSvc *service.OrderService, collector *metrics.Collector, log *zap.Logger) *gin.Engine {
	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log, cfg.App.IsDevelopment()))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics(collector))
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, v1.ErrorResponse{
			Error: "Method not allowed",
			Code:  v1.CodeMethodNotAllowed,
		})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, v1.ErrorResponse{
			Error: "Not found",
			Code:  v1.CodeNotFound,
		})
	})

	orderHandler := v1.NewOrderHandler(orderSvc, log.With(zap.String("component", "order_handler")), cfg.App.IsDevelopment())
	healthHandler := v1.NewHealthHandler(cfg)

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := router.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimit, collector))
	api.POST("/orders", orderHandler.SubmitOrder)

	return router
}
