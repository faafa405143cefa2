package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abatilo/taskflow/internal/app"
	"github.com/abatilo/taskflow/internal/server"
)

const shutdownTimeout = 5 * time.Second

// serveCmd implements 'taskflow serve'.
func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task API on a local HTTP address",
		Run: func(cmd *cobra.Command, _ []string) {
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Addr
			}
			withApp(func(a *app.App) error {
				return serve(a, addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from config)")
	return cmd
}

func serve(a *app.App, addr string) error {
	srv := server.New(a, logger)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
		return err
	}

	logger.Info("server stopped")
	return nil
}
