package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"clocking/internal/app"
)

var serverAddr string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the clocking API and web page",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if serverAddr != "" {
			cfg.Server.Addr = serverAddr
		}

		application, err := app.New(ctx, logger, cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		srv := application.HTTPServer(cfg.Server.Addr)
		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down", slog.String("addr", cfg.Server.Addr))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", "", "listen address, default from config")
}
