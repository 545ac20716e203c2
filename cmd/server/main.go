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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/knxip/internal/adapters/http"
	"github.com/dkeye/knxip/internal/adapters/udp"
	"github.com/dkeye/knxip/internal/app"
	"github.com/dkeye/knxip/internal/config"
	"github.com/dkeye/knxip/internal/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	routes := app.NewRegistry()
	client, err := udp.Dial(cfg.LocalAddr, cfg.GatewayAddr, routes, udp.WithReadBuffer(cfg.ReadBuffer))
	if err != nil {
		return err
	}
	defer client.Close()

	gw := &router.Gateway{
		Deps: app.Deps{
			Router:    routes,
			Sender:    client,
			Scheduler: app.NewTimerScheduler(),
		},
		Routes: routes,
		// NAT mode: the gateway answers to the datagram source address.
		Control: domain.UnspecifiedEndpoint(),
		Timeout: cfg.RequestTimeout,
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router.SetupRouter(ctx, cfg, gw),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Run(ctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("admin server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		return client.Close()
	})
	return g.Wait()
}
