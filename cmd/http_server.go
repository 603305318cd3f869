package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/dkralj/workshop-management/internal"
	"github.com/dkralj/workshop-management/internal/audit"
	auditPostgres "github.com/dkralj/workshop-management/internal/audit/postgres"
	"github.com/dkralj/workshop-management/internal/auth"
	authPostgres "github.com/dkralj/workshop-management/internal/auth/postgres"
	"github.com/dkralj/workshop-management/internal/core/events"
	"github.com/dkralj/workshop-management/internal/invoice"
	invoicePostgres "github.com/dkralj/workshop-management/internal/invoice/postgres"
	"github.com/dkralj/workshop-management/internal/notification"
	"github.com/dkralj/workshop-management/internal/session"
	sessionPostgres "github.com/dkralj/workshop-management/internal/session/postgres"
	"github.com/dkralj/workshop-management/internal/stats"
	statsPostgres "github.com/dkralj/workshop-management/internal/stats/postgres"
	"github.com/dkralj/workshop-management/internal/transport/rest"
	"github.com/dkralj/workshop-management/internal/user"
	userPostgres "github.com/dkralj/workshop-management/internal/user/postgres"
	"github.com/dkralj/workshop-management/internal/vehicle"
	vehiclePostgres "github.com/dkralj/workshop-management/internal/vehicle/postgres"
	"github.com/dkralj/workshop-management/internal/workorder"
	workorderPostgres "github.com/dkralj/workshop-management/internal/workorder/postgres"
	"github.com/dkralj/workshop-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Level, config.Logging.Format)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)
	notification.NewEventHandler(appLogger).RegisterEventHandlers(eventBus)

	sessionRepo := sessionPostgres.NewRepository(db)
	sessionService := session.NewService(sessionRepo, appLogger)

	tokenIssuer := auth.NewTokenIssuer(config.Security)
	authRepo := authPostgres.NewRepository(db)
	authService := auth.NewService(authRepo, sessionRepo, tokenIssuer, config.Security.BCryptCost, appLogger)

	userRepo := userPostgres.NewRepository(db)
	userService := user.NewService(userRepo, authService, appLogger)

	vehicleRepo := vehiclePostgres.NewRepository(db)
	vehicleService := vehicle.NewService(vehicleRepo, appLogger)

	workOrderRepo := workorderPostgres.NewRepository(db)
	workOrderService := workorder.NewService(workOrderRepo, eventBus, appLogger)

	invoiceRepo := invoicePostgres.NewRepository(db)
	invoiceService := invoice.NewService(invoiceRepo, eventBus, appLogger)

	auditRepo := auditPostgres.NewRepository(db)
	auditService := audit.NewService(auditRepo, appLogger)

	statsRepo := statsPostgres.NewRepository(db)
	statsService := stats.NewService(statsRepo, appLogger)

	handlers := rest.Handlers{
		Auth:      auth.NewHandler(authService),
		User:      user.NewHandler(userService),
		Vehicle:   vehicle.NewHandler(vehicleService),
		WorkOrder: workorder.NewHandler(workOrderService),
		Invoice:   invoice.NewHandler(invoiceService),
		Audit:     audit.NewHandler(auditService),
		Session:   session.NewHandler(sessionService),
		Stats:     stats.NewHandler(statsService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   appLogger,
		DB:       db,
		Router:   chi.NewRouter(),
		Handlers: handlers,
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
