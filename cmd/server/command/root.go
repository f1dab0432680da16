// Package command provides the root and sub-commands of the campus API
// binary.  The root command starts the HTTP server; hash-password prints
// a bcrypt hash for seeding the users table.
//
//	./campus-api [--env-file .env]        # start web server
//	./campus-api hash-password [--cost N] [password]
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/campus-inventory/internal/config"
	"github.com/iliyamo/campus-inventory/internal/database"
	"github.com/iliyamo/campus-inventory/internal/handler"
	"github.com/iliyamo/campus-inventory/internal/queue"
	"github.com/iliyamo/campus-inventory/internal/repository"
	"github.com/iliyamo/campus-inventory/internal/router"
	"github.com/iliyamo/campus-inventory/internal/service"
	"github.com/iliyamo/campus-inventory/internal/utils"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "campus-api",
	Short: "Campus inventory API: vehicles, study spaces and login",
	Long: `Campus inventory API serves JSON endpoints for the vehicle
inventory and study space bookings backed by MySQL.  Students may book
and release study spaces; administrators manage both inventories.
Configuration is read from the environment, optionally preloaded from
a .env file.`,
	SilenceUsage: true,
	RunE:         startWebServer,
}

func startWebServer(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return fmt.Errorf("loading env file %q: %w", envFile, err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	if cfg.InsecureJWTSecret {
		logger.Warn("JWT_SECRET not set; using insecure development secret")
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher handler.BookingPublisher
	if cfg.Events.Enabled {
		publisher = service.NewBookingPublisher(cfg.Events.URL)
		consumer := &queue.BookingConsumer{URL: cfg.Events.URL, LogDir: cfg.Events.LogDir, Logger: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("booking consumer stopped", "error", err)
			}
		}()
	}

	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.AccessTTL)
	e := router.New(router.Deps{
		Config: cfg,
		Logger: logger,
		Redis:  rdb,
		Tokens: tokens,
		DB:     db,
		Auth:   handler.NewAuthHandler(repository.NewUserRepo(db), tokens, logger),
		Cars:   handler.NewCarHandler(repository.NewCarRepo(db), logger),
		Spaces: handler.NewSpaceHandler(repository.NewSpaceRepo(db), publisher, logger),
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("running echo server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path of a .env file to preload (default ./.env when present)")
}
