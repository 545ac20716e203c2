package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dkeye/knxip/internal/app"
)

var errNoResponse = errors.New("transaction did not succeed")

func newConnectCmd() *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Open a tunnelling connection and report the assigned channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			req := app.ConnectRequest{Control: control(), Data: control()}
			res, resp, err := app.Connect(cmd.Context(), s.deps, req, app.WithTimeout(cfg.RequestTimeout))
			if err != nil {
				return err
			}
			printResult(out, "connect", res)
			if res.Outcome != app.OutcomeSuccess {
				return errNoResponse
			}
			fmt.Fprintf(out, "  channel    %s\n", infoFmt(resp.Channel))
			fmt.Fprintf(out, "  data       %s\n", infoFmt(resp.DataEndpoint))
			fmt.Fprintf(out, "  identifier %s\n", infoFmt(fmt.Sprintf("0x%04x", resp.Identifier)))
			if keep {
				return nil
			}

			dres, err := app.Disconnect(cmd.Context(), s.deps,
				app.DisconnectRequest{Channel: resp.Channel, Control: control()},
				app.WithTimeout(cfg.RequestTimeout))
			if err != nil {
				return err
			}
			printResult(out, "disconnect", dres)
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "leave the connection open instead of disconnecting")
	return cmd
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state CHANNEL",
		Short: "Send a connection-state heartbeat for an open channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := app.ConnectionState(cmd.Context(), s.deps,
				app.ConnectionStateRequest{Channel: channel, Control: control()},
				app.WithTimeout(cfg.RequestTimeout))
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), fmt.Sprintf("state channel %d", channel), res)
			if res.Outcome != app.OutcomeSuccess {
				return errNoResponse
			}
			return nil
		},
	}
}

func newDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect CHANNEL",
		Short: "Close an open channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := app.Disconnect(cmd.Context(), s.deps,
				app.DisconnectRequest{Channel: channel, Control: control()},
				app.WithTimeout(cfg.RequestTimeout))
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), fmt.Sprintf("disconnect channel %d", channel), res)
			if res.Outcome != app.OutcomeSuccess {
				return errNoResponse
			}
			return nil
		},
	}
}

func parseChannel(s string) (uint8, error) {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid channel %q: %w", s, err)
	}
	return uint8(n), nil
}
