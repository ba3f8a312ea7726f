package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-keeper/cmd/root"
	"catalog-keeper/controllers"
	"catalog-keeper/internal/config"
	"catalog-keeper/internal/logger"
	"catalog-keeper/services"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动HTTP服务",
	Long:  `Load the component catalog and serve the REST API on the configured TCP address and unix socket`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer(cmd.Context())
	},
}

/**
 * Load the catalog and serve it until interrupted
 * @param {context.Context} ctx - Parent context, the server stops when it is done
 * @returns {error} Load, listen or serve errors
 * @description
 * - Materializes an empty document when the catalog file does not exist
 * - Refuses to start on a malformed catalog document
 * - Serves every configured listener with the same router
 * - Applies log level changes from the watched config file
 * - Shuts down gracefully on SIGINT/SIGTERM
 */
func startServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := &config.Config
	path := root.StorePath()

	if _, err := services.EnsureDocument(path); err != nil {
		return err
	}
	store, err := services.LoadComponentStore(path)
	if err != nil {
		return err
	}

	server := services.NewServer(store)
	router := controllers.NewRouter(server, cfg)

	listeners, err := openListeners(&cfg.Server)
	if err != nil {
		return err
	}

	config.WatchConfig(func(c *config.AppConfig) {
		logger.Infof("Configuration file changed, log level: %s", c.Log.Level)
		logger.SetLevel(c.Log.Level)
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, l := range listeners {
		l := l
		logger.Infof("Listening on %s://%s", l.Addr().Network(), l.Addr().String())
		g.Go(func() error {
			if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", l.Addr(), err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func init() {
	root.RootCmd.AddCommand(serverCmd)

	serverCmd.Example = `  catalog-keeper server
  catalog-keeper server -c ./config.yaml -d /srv/homelab/components_metadata.json`
}
