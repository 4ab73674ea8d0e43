package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"virtualco/internal/app"
	"virtualco/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := serverConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("%w (set VCO_JWT_SECRET or run 'vco init')", err)
			}
			log := newLogger(cfg.LogLevel)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.Open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()
			handler, err := server.New(server.Config{
				BasePath:   cfg.BasePath,
				Auth:       a.Auth,
				Persist:    a.Persist,
				Repo:       a.Repo,
				Sessions:   a.Sessions,
				NewSession: a.NewSession,
				Gatherer:   a.Registry,
				Log:        log,
			})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.WithField("addr", cfg.Addr).Infof("serving virtualco API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)", cfg.Addr, cfg.BasePath, cfg.BasePath)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			if a.Webhooks != nil {
				g.Go(func() error { return a.Webhooks.Run(gctx) })
			}
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				a.Sessions.CloseAll()
				return srv.Shutdown(shutdownCtx)
			})
			err = g.Wait()
			log.Info("server stopped")
			return err
		},
	}
	cmd.Flags().String("addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().String("base-path", "/v1", "API base path")
	cmd.Flags().Duration("token-ttl", 24*time.Hour, "bearer token lifetime")
	cmd.Flags().StringSlice("webhook-urls", nil, "webhook URLs receiving notifications")
	for _, name := range []string{"addr", "base-path", "token-ttl", "webhook-urls"} {
		_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}
