package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attest-go/internal/app"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("expire-interval")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withApp(ctx, "serve", func(ctx context.Context, a *app.AttestApp) error {
			cfg := a.Config()
			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      a.Handler(),
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.Logger().Info("listening", "addr", cfg.Server.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serving http: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				a.Logger().Info("shutting down")
				return srv.Shutdown(shutdownCtx)
			})
			if interval > 0 {
				g.Go(func() error {
					sweepExpired(ctx, a, interval)
					return nil
				})
			}
			return g.Wait()
		})
	},
}

// sweepExpired marks attestations past their expiration block as expired
// every interval until ctx is done. Failures are logged and retried on the
// next tick.
func sweepExpired(ctx context.Context, a *app.AttestApp, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.ExpireAttestations(ctx); err != nil {
				a.Logger().Warn("expiry sweep failed", "error", err)
			}
		}
	}
}

func init() {
	serveCmd.Flags().Duration("expire-interval", 10*time.Minute, "How often to mark expired attestations (0 disables)")
}
