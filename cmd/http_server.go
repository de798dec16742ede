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

	"github.com/frahmantamala/schedule-management/internal"
	"github.com/frahmantamala/schedule-management/internal/auth"
	authPostgres "github.com/frahmantamala/schedule-management/internal/auth/postgres"
	"github.com/frahmantamala/schedule-management/internal/client"
	clientPostgres "github.com/frahmantamala/schedule-management/internal/client/postgres"
	"github.com/frahmantamala/schedule-management/internal/core/events"
	"github.com/frahmantamala/schedule-management/internal/report"
	"github.com/frahmantamala/schedule-management/internal/schedule"
	schedulePostgres "github.com/frahmantamala/schedule-management/internal/schedule/postgres"
	"github.com/frahmantamala/schedule-management/internal/transport"
	"github.com/frahmantamala/schedule-management/internal/transport/rest"
	"github.com/frahmantamala/schedule-management/internal/user"
	userPostgres "github.com/frahmantamala/schedule-management/internal/user/postgres"
	"github.com/frahmantamala/schedule-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler     *auth.Handler
	UserHandler     *user.Handler
	ScheduleHandler *schedule.Handler
	ClientHandler   *client.Handler
	ReportHandler   *report.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	rest.RegisterAllRoutes(deps.Router, deps.DB,
		deps.AuthHandler, deps.UserHandler, deps.ScheduleHandler,
		deps.ClientHandler, deps.ReportHandler, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	appLogger := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM rides on the already open pgx connection pool.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(appLogger)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGen, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo, appLogger)
	userHandler := user.NewHandler(userService)

	clientRepo := clientPostgres.NewClientRepository(gormDB)
	clientService := client.NewService(clientRepo, appLogger)
	clientHandler := client.NewHandler(transport.NewBaseHandler(appLogger), clientService)

	scheduleRepo := schedulePostgres.NewScheduleRepository(gormDB)
	scheduleService := schedule.NewService(
		scheduleRepo,
		eventBus,
		clientService,
		config.Scheduling.MinimumGap,
		config.Scheduling.AllowPastStartOnEdit,
		appLogger,
	)
	scheduleService.RegisterEventHandlers(eventBus)
	scheduleHandler := schedule.NewHandler(scheduleService)

	reportService := report.NewService(scheduleService, userService, clientService, appLogger)
	reportHandler := report.NewHandler(transport.NewBaseHandler(appLogger), reportService)

	return &Dependencies{
		Config: config,
		Logger: appLogger,
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),

		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		ScheduleHandler: scheduleHandler,
		ClientHandler:   clientHandler,
		ReportHandler:   reportHandler,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
