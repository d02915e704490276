package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"profilr/internal/platform/httpserver"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "HTTP listen address (overrides PROFILR_ADDR and PORT)")
	serveCmd.Flags().String("metrics-addr", "", "Prometheus listen address (overrides METRICS_ADDR)")
}

func runServe(ctx context.Context) error {
	cfg, log := loadConfig()
	a := buildApp(ctx, cfg, log)

	servers := []*http.Server{httpserver.New(cfg.Server.Addr, a.router)}
	if cfg.Server.MetricsAddr != "" {
		servers = append(servers, httpserver.New(cfg.Server.MetricsAddr, a.metrics.Handler()))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			log.InfoContext(gctx, "listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.ErrorContext(shutdownCtx, "graceful shutdown failed", "addr", srv.Addr, "error", err)
			}
		}
		a.close(shutdownCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.ErrorContext(ctx, "server error", "error", err)
		return err
	}
	log.InfoContext(ctx, "server stopped")
	return nil
}
