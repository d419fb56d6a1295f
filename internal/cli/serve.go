package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/sift/internal/httpapi"
	"github.com/roach88/sift/internal/logging"
	"github.com/roach88/sift/internal/metrics"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string // overrides server.addr when set
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the sift HTTP API.

Configuration is layered: built-in defaults, then the YAML file given by
--config or $SIFT_CONFIG, then SIFT_* environment variables
(SIFT_SERVER_ADDR, SIFT_STORE_BACKEND, SIFT_LOG_LEVEL, ...).

The server drains in-flight requests on SIGINT or SIGTERM.

Example:
  sift serve
  sift serve --addr 127.0.0.1:9000
  SIFT_STORE_BACKEND=sqlite sift serve --config ./sift.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	cfg, err := opts.loadConfig(f)
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.Server.Addr = opts.Addr
	}

	log, err := newLogger(cfg, f)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	svc, st, err := openService(cfg.Store, f)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error("close store", zap.Error(closeErr))
		}
	}()
	log.Info("store ready", zap.String(logging.FieldBackend, cfg.Store.Backend))

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if n, err := svc.Count(ctx); err == nil {
		m.Records.Set(float64(n))
	}

	router := httpapi.NewRouter(svc, httpapi.Options{
		Logger:       log,
		Metrics:      m,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	if err := httpapi.NewServer(cfg.Server, router, log).Run(ctx); err != nil {
		return WrapExitError(ExitCommandError, "server error", err)
	}
	log.Info("server stopped")
	return nil
}
