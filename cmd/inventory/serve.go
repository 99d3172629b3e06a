package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"inventory-tracker/internal/auth"
	authhttp "inventory-tracker/internal/auth/http"
	"inventory-tracker/internal/config"
	"inventory-tracker/internal/products"
	producthttp "inventory-tracker/internal/products/http"
	"inventory-tracker/internal/products/messaging"
	"inventory-tracker/internal/products/repository"
	"inventory-tracker/internal/products/service"

	_ "inventory-tracker/docs"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const (
	metricCreatedTotal = "inventory_products_created_total"
	metricUpdatedTotal = "inventory_products_updated_total"
	metricDeletedTotal = "inventory_products_deleted_total"
	postgresDriverName = "postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the inventory HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// @title                       Inventory API
// @version                     1.0
// @description                 Inventory tracking with low-stock alerts and a live product view.
// @host                        localhost:8080
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func serve(parent context.Context) error {
	cfg, err := config.LoadInventory()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open(postgresDriverName, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, pingCancel := context.WithTimeout(parent, cfg.DBPingTimeout)
	defer pingCancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	rabbitConn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer rabbitConn.Close()

	publisher, err := messaging.NewRabbitPublisher(rabbitConn, products.EventsQueue)
	if err != nil {
		return fmt.Errorf("init publisher: %w", err)
	}
	defer publisher.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()
	revocations := auth.NewRedisRevocations(rdb)

	counters := service.Counters{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricCreatedTotal,
			Help: "Total number of products created",
		}),
		Updated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricUpdatedTotal,
			Help: "Total number of products updated",
		}),
		Deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricDeletedTotal,
			Help: "Total number of products deleted",
		}),
	}
	prometheus.MustRegister(counters.Created, counters.Updated, counters.Deleted)

	repo := repository.NewPostgres(db)
	svc := service.New(repo, publisher, logger, counters)
	hub := producthttp.NewHub(svc, logger, cfg.SearchDebounce)
	svc.SetReloader(hub)

	authSvc := auth.NewService(auth.NewPostgresUsers(db), revocations, auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL), logger)
	authHandler := authhttp.NewHandler(authSvc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(producthttp.RequestIDMiddleware())
	router.Use(producthttp.AccessLogMiddleware(logger))
	producthttp.RegisterRoutes(router, producthttp.Routes{
		Products:    producthttp.NewHandler(svc),
		Live:        hub,
		Login:       authHandler.Login,
		SignOut:     authHandler.SignOut,
		RequireAuth: authHandler.RequireAuth(),
		Checkers:    []producthttp.HealthChecker{repo, revocations},
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("inventory service started", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("http server failed", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("inventory service stopped", "live_sessions", hub.Sessions())
	return serveErr
}
