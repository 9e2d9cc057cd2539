package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"inkwell/app/routes"

	"github.com/spf13/cobra"
)

func (c *cli) newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr()
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			router, err := routes.NewRouter(store, routes.Options{
				StaticDir: c.cfg.Static.Dir,
				Logger:    c.log,
			})
			if err != nil {
				return fmt.Errorf("build router: %w", err)
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return runServer(ctx, srv, ln, c.cfg.Server.ShutdownTimeout, c.log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default is server.host:server.port)")
	return cmd
}

// runServer serves on ln until ctx is done, then shuts down gracefully
// within timeout.
func runServer(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting blog server", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down blog server", "timeout", timeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("blog server stopped")
	return nil
}
