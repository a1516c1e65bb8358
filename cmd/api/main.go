package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"support-backend/internal/bootstrap"
	"support-backend/internal/shared/config"
	"support-backend/internal/shared/server"
	"support-backend/internal/shared/storage/db"
	"support-backend/internal/shared/telemetry"
	"support-backend/internal/workerproc"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:           "support-backend",
		Short:         "Customer support sentiment, manual search and action recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, newMigrateCmd(), newWorkerCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			telemetry.Init(cfg.LogLevel, cfg.LogFile)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.Build(ctx, cfg)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			defer app.Close()

			srv := &http.Server{
				Addr:              server.Addr(cfg.Port),
				Handler:           app.Router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				telemetry.Info("server.start", map[string]any{"addr": srv.Addr, "env": cfg.Env, "base_path": cfg.APIBasePath})
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			telemetry.Info("server.shutdown", nil)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			telemetry.Init(cfg.LogLevel, cfg.LogFile)

			sqlDB, err := db.Connect(cmd.Context(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer sqlDB.Close()

			if down {
				if err := db.RollbackMigration(cmd.Context(), sqlDB); err != nil {
					return fmt.Errorf("rollback migration: %w", err)
				}
				telemetry.Info("migrate.rolled_back", nil)
				return nil
			}
			if err := db.RunMigrations(cmd.Context(), sqlDB); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			telemetry.Info("migrate.complete", nil)
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back the most recent migration")
	return cmd
}

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume recommendation feedback from SQS",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			telemetry.Init(cfg.LogLevel, cfg.LogFile)
			if cfg.FeedbackQueueURL == "" {
				return errors.New("FEEDBACK_SQS_QUEUE_URL is required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.Build(ctx, cfg)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			defer app.Close()

			w := &workerproc.Worker{
				Queue:       app.FeedbackReceiver,
				Repo:        app.FeedbackRepo,
				Concurrency: cfg.WorkerConcurrency,
			}
			return w.Run(ctx)
		},
	}
}
