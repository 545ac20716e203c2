package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dkeye/knxip/internal/adapters/udp"
	"github.com/dkeye/knxip/internal/app"
	"github.com/dkeye/knxip/internal/config"
	"github.com/dkeye/knxip/internal/domain"
)

var (
	// Global flags
	cfgFile     string
	gatewayAddr string
	localAddr   string
	timeout     time.Duration
	verbose     bool

	// Shared state set during PersistentPreRun
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "knxctl",
	Short: "Run one-shot KNXnet/IP transactions against a gateway",
	Long: `knxctl sends a single KNXnet/IP request (connect, connection state,
disconnect) to a gateway and reports whether the gateway answered with
success, with an error status, or not at all within the timeout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Override config with flags
		if gatewayAddr != "" {
			cfg.GatewayAddr = gatewayAddr
		}
		if localAddr != "" {
			cfg.LocalAddr = localAddr
		}
		if timeout > 0 {
			cfg.RequestTimeout = timeout
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config/config.$CONFIG_ENV.yaml)")
	rootCmd.PersistentFlags().StringVarP(&gatewayAddr, "gateway", "g", "", "gateway address host:port")
	rootCmd.PersistentFlags().StringVar(&localAddr, "local", "", "local bind address host:port")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 0, "response timeout (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newConnectCmd(), newStateCmd(), newDisconnectCmd())
}

// session is one socket plus its receive loop, alive for a single command.
type session struct {
	deps   app.Deps
	client *udp.Client
	cancel context.CancelFunc
	done   chan error
}

func openSession(ctx context.Context) (*session, error) {
	routes := app.NewRegistry()
	client, err := udp.Dial(cfg.LocalAddr, cfg.GatewayAddr, routes, udp.WithReadBuffer(cfg.ReadBuffer))
	if err != nil {
		return nil, err
	}
	runCtx, cancel := context.WithCancel(ctx)
	s := &session{
		deps: app.Deps{
			Router:    routes,
			Sender:    client,
			Scheduler: app.NewTimerScheduler(),
		},
		client: client,
		cancel: cancel,
		done:   make(chan error, 1),
	}
	go func() { s.done <- client.Run(runCtx) }()
	return s, nil
}

func (s *session) Close() error {
	s.cancel()
	err := <-s.done
	if cerr := s.client.Close(); err == nil {
		err = cerr
	}
	return err
}

// control is the HPAI sent in requests: NAT mode, the gateway replies to
// the datagram source.
func control() domain.Endpoint { return domain.UnspecifiedEndpoint() }

func printResult(w io.Writer, what string, res app.Result) {
	switch res.Outcome {
	case app.OutcomeSuccess:
		fmt.Fprintf(w, "%s %s\n", okFmt("✓"), what)
	case app.OutcomeFailure:
		fmt.Fprintf(w, "%s %s: %s\n", errFmt("✗"), what, res.Status)
	case app.OutcomeTimedOut:
		fmt.Fprintf(w, "%s %s: no response within %s\n", warnFmt("…"), what, cfg.RequestTimeout)
	default:
		fmt.Fprintf(w, "%s %s: %s\n", dimFmt("?"), what, res.Outcome)
	}
}
