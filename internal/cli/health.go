// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/lexchat/internal/ui/styles"
)

const healthTimeout = 5 * time.Second

func (a *app) newHealthCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the backend service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut {
				return outputJSON(cmd.OutOrStdout(), "health", func() (any, error) {
					data, err := a.checkHealth(cmd.Context())
					if err != nil {
						return nil, err
					}
					if !data.Healthy {
						return nil, fmt.Errorf("backend reports status %q", data.Status)
					}
					return data, nil
				})
			}

			data, err := a.checkHealth(cmd.Context())
			out := cmd.OutOrStdout()
			if err != nil {
				fmt.Fprintln(out, styles.RenderError(fmt.Sprintf("%s unreachable", a.cfg.Backend.URL)))
				return err
			}
			if !data.Healthy {
				fmt.Fprintln(out, styles.RenderError(fmt.Sprintf("%s status %q", data.URL, data.Status)))
				return fmt.Errorf("backend unhealthy: %s", data.Status)
			}
			fmt.Fprintln(out, styles.RenderSuccess(fmt.Sprintf("%s healthy (%dms)", data.URL, data.LatencyMs)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as JSON")
	return cmd
}

func (a *app) checkHealth(ctx context.Context) (HealthData, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	start := time.Now()
	resp, err := a.newClient().Health(ctx)
	if err != nil {
		return HealthData{}, fmt.Errorf("health check: %w", err)
	}
	return HealthData{
		URL:       a.cfg.Backend.URL,
		Status:    resp.Status,
		Healthy:   resp.Healthy(),
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
