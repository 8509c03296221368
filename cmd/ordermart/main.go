package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	trmcontext "github.com/avito-tech/go-transaction-manager/trm/v2/context"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mpetrenko/ordermart/internal/application/services"
	"github.com/mpetrenko/ordermart/internal/config"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
	"github.com/mpetrenko/ordermart/internal/infrastructure/db/postgres"
	rest "github.com/mpetrenko/ordermart/internal/interface/api/rest/chi"
	"github.com/mpetrenko/ordermart/internal/interface/api/rest/middleware"
	"github.com/mpetrenko/ordermart/internal/notification"
	"github.com/mpetrenko/ordermart/pkg/logger"
)

// Version indicates the current version of the application.
var Version = "1.0.0"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Server run context.
	serverCtx, serverStopCtx := context.WithCancel(context.Background())
	defer serverStopCtx()

	// Load application configurations.
	cfg := config.MustLoad()

	// Create root logger tagged with server version.
	logger := logger.New(cfg).With(serverCtx, "version", Version)

	// Open the database connection with query logging.
	db, err := postgres.Connect(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}

	// Close connection.
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(err)
		}
		_ = logger.Sync()
	}()

	// Create tables and indexes if they do not exist yet.
	if err = postgres.Bootstrap(db); err != nil {
		return fmt.Errorf("failed to bootstrap the database schema: %w", err)
	}

	// Create default transaction manager for database/sql package.
	trManager := manager.Must(
		trmsql.NewDefaultFactory(db),
		manager.WithCtxManager(trmcontext.DefaultManager),
	)

	// Init repositories.
	orderRepo, err := postgres.NewOrderRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init order repository: %w", err)
	}
	paymentRepo, err := postgres.NewPaymentRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init payment repository: %w", err)
	}
	userRepo, err := postgres.NewUserRepository(db, trmsql.DefaultCtxGetter, logger)
	if err != nil {
		return fmt.Errorf("failed to init user repository: %w", err)
	}
	statsRepo, err := postgres.NewStatsRepository(db, logger)
	if err != nil {
		return fmt.Errorf("failed to init stats repository: %w", err)
	}

	// Start the notification dispatcher.
	dispatcher, err := notification.NewDispatcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to init notification dispatcher: %w", err)
	}
	dispatcher.Run()
	defer dispatcher.Stop()

	// Order lifecycle notifications go to the first configured admin.
	var adminID user.ID
	if len(cfg.AdminIDs) > 0 {
		adminID = user.ID(cfg.AdminIDs[0])
	}

	// Init services.
	orderService, err := services.NewOrderService(
		orderRepo, paymentRepo, trManager, dispatcher, adminID, logger)
	if err != nil {
		return fmt.Errorf("failed to init order service: %w", err)
	}
	paymentService, err := services.NewPaymentService(paymentRepo, dispatcher, logger)
	if err != nil {
		return fmt.Errorf("failed to init payment service: %w", err)
	}
	statsService, err := services.NewStatsService(statsRepo, logger)
	if err != nil {
		return fmt.Errorf("failed to init stats service: %w", err)
	}
	authService, err := services.NewAuthService(userRepo, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to init auth service: %w", err)
	}

	// Create root router.
	router := rest.InitChi(logger)

	authMiddleware := rest.MiddlewareFunc(middleware.Auth(authService))
	adminMiddleware := rest.MiddlewareFunc(middleware.Admin(cfg))

	// Public auth routes.
	rest.NewAuthController(authService, cfg.JWT.Expiration, logger, rest.ChiServerOptions{
		BaseURL:    "/api",
		BaseRouter: router,
	})

	// Authenticated routes.
	rest.NewOrderController(orderService, logger, rest.ChiServerOptions{
		BaseURL:     "/api",
		BaseRouter:  router,
		Middlewares: []rest.MiddlewareFunc{authMiddleware},
	}, adminMiddleware)

	rest.NewPaymentController(paymentService, logger, rest.ChiServerOptions{
		BaseURL:     "/api",
		BaseRouter:  router,
		Middlewares: []rest.MiddlewareFunc{authMiddleware},
	}, adminMiddleware)

	rest.NewStatsController(statsService, logger, rest.ChiServerOptions{
		BaseURL:     "/api",
		BaseRouter:  router,
		Middlewares: []rest.MiddlewareFunc{authMiddleware},
	})

	// Build HTTP server.
	hs := &http.Server{
		Addr:              cfg.HTTPServer.Address,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:       cfg.HTTPServer.IdleTimeout,
		Handler:           router,
	}

	// Graceful shutdown.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT,
			syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)

		signal := <-sig

		logger.With(serverCtx, "signal", signal.String()).
			Infof("Shutting down server with %s timeout",
				cfg.HTTPServer.ShutdownTimeout)

		if err = hs.Shutdown(serverCtx); err != nil {
			logger.Errorf("graceful shutdown failed: %s", err)
		}
		serverStopCtx()
	}()

	// Start the HTTP server with graceful shutdown.
	logger.Infof("Server %v is running at %v", Version, cfg.HTTPServer.Address)
	if err = hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("run server failed: %w", err)
	}

	// Wait for server context to be stopped or force exit if timeout exceeded.
	select {
	case <-serverCtx.Done():
	case <-time.After(cfg.HTTPServer.ShutdownTimeout):
		return errors.New("graceful shutdown timed out.. forcing exit")
	}

	return nil
}
