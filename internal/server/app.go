// Package server initializes and runs the RealHome API server: it opens the
// database, applies migrations, wires the services, and starts the HTTP
// endpoint with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vpetrenko/realhome/internal/logging"
	"github.com/vpetrenko/realhome/internal/server/config"
	"github.com/vpetrenko/realhome/internal/server/httpapi"
	"github.com/vpetrenko/realhome/internal/server/repositories/repomanager"
	"github.com/vpetrenko/realhome/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	listingService *services.ListingService
}

func NewApp(c *config.Config) (*App, error) {

	handler := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(handler)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	ls := services.NewListingService(db, rm, c)

	return &App{config: c, logger: logger, db: db, userService: us, listingService: ls}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.config.SecretKey,
		app.logger, app.userService, app.listingService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
