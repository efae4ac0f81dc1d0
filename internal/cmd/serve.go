package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/observability/tracer"
	"github.com/FACorreiaa/go-tripplanner/internal/pkg/logger"
	"github.com/FACorreiaa/go-tripplanner/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planner HTTP API",
	Long: `Run the planner HTTP API together with the Prometheus metrics endpoint
and, when PPROF_ADDR is set, a pprof server.

Itineraries are saved on "Go to Map" according to PLANNER_SAVE_MODE:
http posts them to the backend, postgres stores them in the
saved_itineraries table, off disables saving.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := logger.Log
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := server.InitObservability(tracer.Options{
		ServiceName:  serviceName,
		Version:      Version,
		MetricsAddr:  cfg.MetricsAddr,
		OTLPEndpoint: cfg.OTLPEndpoint,
	}, log.Named("otel"))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Persistence.RetryDelay*time.Duration(cfg.Persistence.Retries)+cfg.Backend.RequestTimeout)
		defer cancel()
		srv.Close(closeCtx)
	}()

	srv.SetRouter(server.SetupRouter(srv.Handlers(), serviceName, log.Named("http")))

	if cfg.PprofAddr != "" {
		pprofSrv := server.StartPprofServer(cfg.PprofAddr, log.Named("pprof"))
		defer func() { _ = pprofSrv.Close() }()
	}

	log.Info("Trip planner starting",
		zap.String("port", cfg.ServerPort),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("save_mode", string(cfg.Persistence.Mode)))
	return server.Serve(ctx, srv.HTTPServer(), log)
}
