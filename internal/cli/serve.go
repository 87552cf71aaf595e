package cli

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkordes/numberfinder/backend/internal/config"
	"github.com/pkordes/numberfinder/backend/internal/generator"
	"github.com/pkordes/numberfinder/backend/internal/handler"
	"github.com/pkordes/numberfinder/backend/internal/service"
	"github.com/pkordes/numberfinder/backend/internal/session"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Port string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Start the contact lookup API: search, upload with live progress over
server-sent events, and the session snapshot. Configuration comes from the
environment (see CONFIG_FILE for a YAML alternative).

Examples:
  TABLE_DRIVER=sqlite contactsd serve
  DATABASE_URL=postgres://... contactsd serve --port 9090`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Port, "port", "p", "", "listen port (default PORT or 8080)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}

	logger := newLogger(cfg.LogLevel, cmd.OutOrStdout())
	slog.SetDefault(logger)

	// Uploads outlive the request that started them, so they run under this
	// context and are cancelled only on shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := OpenBackend(ctx, cfg, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open contacts table", err)
	}
	defer backend.Close()

	srv := newHTTPServer(ctx, ":"+cfg.Port, newAPIHandler(ctx, cfg, backend, logger))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"addr", srv.Addr,
			"driver", cfg.Driver,
			"batch_size", cfg.UploadBatchSize,
			"batch_pause", cfg.UploadBatchPause,
			"hold", cfg.UploadHold,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return WrapExitError(ExitFailure, "server error", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "shutdown error", err)
	}
	logger.Info("server stopped")
	return nil
}

// newHTTPServer returns the API server. Every request context derives from
// ctx, so cancelling it ends long-lived event streams and lets Shutdown drain.
func newHTTPServer(ctx context.Context, addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:        addr,
		Handler:     h,
		BaseContext: func(net.Listener) context.Context { return ctx },
		ReadTimeout: 10 * time.Second,
		// /uploads/events lifts this for its own connection.
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// newAPIHandler wires the service graph behind the HTTP router:
// table → search service and upload pipeline → session → handlers.
func newAPIHandler(ctx context.Context, cfg config.Config, backend *Backend, logger *slog.Logger) http.Handler {
	broker := session.NewBroker(session.DefaultBuffer)

	pipeline := service.NewUploadPipeline(backend.Contacts, generator.New(),
		service.WithBatchSize(cfg.UploadBatchSize),
		service.WithBatchPause(cfg.UploadBatchPause),
		service.WithHoldInterval(cfg.UploadHold),
		service.WithUploadLogger(logger),
		service.WithProgressObserver(broker.PublishProgress),
	)
	search := service.NewSearchService(backend.Contacts, logger)
	sess := session.New(ctx, search, pipeline, broker, logger)

	server := handler.NewServer(sess, min(cfg.UploadTotal, handler.MaxUploadTotal), logger)
	return handler.NewRouter(server, logger, handler.RouterConfig{
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})
}
