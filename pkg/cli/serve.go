package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/gqlmock/pkg/logging"
	"github.com/getmockd/gqlmock/pkg/server"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 10 * time.Second

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

type serveFlags struct {
	endpointFlags

	addr            string
	path            string
	noIntrospection bool

	subInterval string
	subCount    int

	logLevel  string
	logFormat string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a mock GraphQL API (foreground)",
	Long: `Start a mock GraphQL server. The schema comes from --schema or from the
schema section of a --config file; every valid query against it is answered
with synthesized data, shaped by any mocks defined in the configuration.

Subscriptions are served over WebSocket on the same endpoint and stream a
freshly synthesized event at a fixed interval.`,
	Example: `  # Serve a schema with default synthesis
  gqlmock serve --schema api.graphql

  # Serve from a config file with mocks and a custom address
  gqlmock serve --config gqlmock.yaml --addr :3000

  # Deterministic responses
  gqlmock serve --schema api.graphql --seed 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serveFlagVals.seedSet = cmd.Flags().Changed("seed")
		return runServe(cmd.Context(), &serveFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := &serveFlagVals

	serveCmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to configuration file")
	serveCmd.Flags().StringVarP(&f.schemaFile, "schema", "s", "", "Path to GraphQL SDL schema file")
	serveCmd.Flags().StringVar(&f.addr, "addr", "", "Listen address (default :8080)")
	serveCmd.Flags().StringVar(&f.path, "path", "", "GraphQL endpoint path (default /graphql)")
	serveCmd.Flags().Uint64Var(&f.seed, "seed", 0, "Seed for deterministic synthesis")
	serveCmd.Flags().BoolVar(&f.noIntrospection, "no-introspection", false, "Disable __schema and __type queries")

	serveCmd.Flags().StringVar(&f.subInterval, "sub-interval", "", "Delay between subscription events (e.g. 500ms)")
	serveCmd.Flags().IntVar(&f.subCount, "sub-count", 0, "Events per subscription before completing (0 = unlimited)")

	serveCmd.Flags().StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&f.logFormat, "log-format", "text", "Log format (text, json)")
}

func runServe(ctx context.Context, f *serveFlags) error {
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(f.logLevel),
		Format: logging.ParseFormat(f.logFormat),
	})

	ep, err := buildEndpoint(&f.endpointFlags)
	if err != nil {
		return err
	}
	if f.addr != "" {
		ep.cfg.Addr = f.addr
	}
	if f.path != "" {
		ep.cfg.Path = f.path
	}
	if f.noIntrospection {
		ep.exec.SetIntrospection(false)
	}

	subOpts, err := subscriptionOptions(f, ep)
	if err != nil {
		return err
	}

	handler := server.NewHandler(ep.exec, logger)
	handler.EnableSubscriptions(server.NewSubscriptionHandler(ep.exec, subOpts, logger))

	mux := http.NewServeMux()
	mux.Handle(ep.cfg.Path, handler)

	srv := &http.Server{
		Addr:         ep.cfg.Addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mock server listening",
			"addr", ep.cfg.Addr,
			"path", ep.cfg.Path,
			"types", len(ep.schema.ObjectTypes()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// subscriptionOptions merges subscription settings from config and flags.
// Flags win.
func subscriptionOptions(f *serveFlags, ep *endpoint) (server.SubscriptionOptions, error) {
	var opts server.SubscriptionOptions

	if spec := ep.cfg.Subscriptions; spec != nil {
		if spec.Interval != "" {
			d, err := time.ParseDuration(spec.Interval)
			if err != nil {
				return opts, fmt.Errorf("invalid subscription interval %q: %w", spec.Interval, err)
			}
			opts.Interval = d
		}
		opts.Count = spec.Count
	}

	if f.subInterval != "" {
		d, err := time.ParseDuration(f.subInterval)
		if err != nil {
			return opts, fmt.Errorf("invalid --sub-interval %q: %w", f.subInterval, err)
		}
		opts.Interval = d
	}
	if f.subCount > 0 {
		opts.Count = f.subCount
	}

	return opts, nil
}
