package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"IndoHomz/internal/config"
	"IndoHomz/internal/db"
	"IndoHomz/internal/logger"
	"IndoHomz/internal/server"
	"IndoHomz/internal/sessions"

	"github.com/spf13/cobra"
)

func ServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			sessions.Init(cfg.SessionSecret, cfg.SecureCookies)
			if cfg.IsProduction() && !cfg.SecureCookies {
				logger.Log.Warn("production without APP_HTTPS=1: session cookies are not marked Secure")
			}

			srv := &http.Server{
				Addr:              cfg.Addr(),
				Handler:           server.New(cfg, gdb),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Log.Infof("listening on %s", cfg.Addr())
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
