package commands

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vsinha/bomcost/pkg/application/services"
	"github.com/vsinha/bomcost/pkg/infrastructure/events"
	"github.com/vsinha/bomcost/pkg/interfaces/http/handler"
)

const shutdownTimeout = 10 * time.Second

// ServeCommand runs the HTTP API until its context is cancelled
type ServeCommand struct {
	addr   string
	policy services.Policy
	logger *logrus.Logger
}

// NewServeCommand creates a serve command listening on addr. A nil logger
// discards output.
func NewServeCommand(addr string, policy services.Policy, logger *logrus.Logger) *ServeCommand {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &ServeCommand{addr: addr, policy: policy, logger: logger}
}

// Handler builds the API handler with process and runtime collectors
func (c *ServeCommand) Handler() (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	store := events.NewInMemoryEventStoreWithConfig(events.DefaultMaxStreams, c.logger)
	service := services.NewBOMService(c.policy, c.logger)
	return handler.NewRouter(service, store, c.logger, reg)
}

// Execute serves until ctx is done, then shuts down gracefully
func (c *ServeCommand) Execute(ctx context.Context) error {
	h, err := c.Handler()
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              c.addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.WithField("addr", c.addr).Info("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newServeCommand(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the BOM cost API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.HTTPAddr
			}
			return NewServeCommand(addr, app.Config.Policy, app.Logger).Execute(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from BOMCOST_HTTP_ADDR)")
	return cmd
}
