// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/lexchat/internal/devserver"
	"github.com/jeranaias/lexchat/internal/ui/styles"
)

func (a *app) newDevServerCommand() *cobra.Command {
	var (
		addr    string
		latency time.Duration
		rps     float64
	)

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local answer service over a small built-in corpus",
		Long: `Run a stand-in for the answer service. It implements /health,
/api/chat and /api/search over a handful of sample articles, so the client
can be tried without the real retrieval stack.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}

			srv := devserver.New(devserver.Options{
				Addr:              ln.Addr().String(),
				Logger:            a.logger,
				Latency:           latency,
				RequestsPerSecond: rps,
			})
			fmt.Fprintln(cmd.OutOrStdout(), styles.RenderInfo("serving on http://"+ln.Addr().String()))
			a.logger.Info("devserver started", zap.String("addr", ln.Addr().String()))

			return srv.Serve(ctx, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", devserver.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&latency, "latency", 0, "delay before each answer")
	cmd.Flags().Float64Var(&rps, "rps", 0, "request rate limit (0 disables)")
	return cmd
}
