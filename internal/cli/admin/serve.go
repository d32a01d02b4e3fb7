package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/jobfinder/internal/api/handlers"
	"github.com/cloo-solutions/jobfinder/internal/config"
	"github.com/cloo-solutions/jobfinder/internal/server"
	"github.com/cloo-solutions/jobfinder/internal/telemetry"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the proxy",
		Long:  "Start the jobfinder proxy, forwarding /api routes to the job-search backend",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides JOBFINDER_PORT)")
	cmd.Flags().String("backend-url", "", "Job-search backend URL (overrides JOBFINDER_BACKEND_URL)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyServeFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.HasSentry() {
		// 10% sampling outside development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Component:        "proxy",
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	srv, err := newServer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, srv, cfg.BackendURL)
}

func applyServeFlags(cmd *cobra.Command, cfg *config.Server) {
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	if backend, _ := cmd.Flags().GetString("backend-url"); backend != "" {
		cfg.BackendURL = backend
	}
}

func newServer(cfg *config.Server) (*http.Server, error) {
	upstream, err := handlers.NewUpstream(cfg.BackendURL, cfg.UpstreamTimeout)
	if err != nil {
		return nil, err
	}

	router := server.NewRouter(server.RouterConfig{
		Proxy:        handlers.NewProxyHandler(upstream),
		MaxBodyBytes: cfg.MaxBodyBytes,
	})

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server, backendURL string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting proxy on %s (backend %s)", srv.Addr, backendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
