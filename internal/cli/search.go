// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/lexchat/internal/backend"
	"github.com/jeranaias/lexchat/internal/util"
)

func (a *app) newSearchCommand() *cobra.Command {
	var (
		topK    int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search the source material without asking for an answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if jsonOut {
				return outputJSON(cmd.OutOrStdout(), "search", func() (any, error) {
					return a.newClient().Search(cmd.Context(), query, topK)
				})
			}

			resp, err := a.newClient().Search(cmd.Context(), query, topK)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatSearch(resp, GetTerminalWidth()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&topK, "top-k", "k", backend.DefaultTopK, "maximum number of results")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the results as JSON")
	return cmd
}

// formatSearch lists hits best first with a short excerpt.
func formatSearch(resp *backend.SearchResponse, width int) string {
	if resp == nil || len(resp.Results) == 0 {
		return mutedStyle.Render("no results") + "\n"
	}

	var sb strings.Builder
	for i, r := range resp.Results {
		c := r.Citation()
		sb.WriteString(fmt.Sprintf("%s %s %s\n",
			footnoteStyle.Render(fmt.Sprintf("[%d]", i+1)),
			c.Label(),
			mutedStyle.Render(fmt.Sprintf("(%.2f)", r.Score))))
		excerpt := util.TruncateWidth(strings.Join(strings.Fields(c.Content), " "), width-6)
		sb.WriteString("    " + excerpt + "\n")
		if c.HasURL() {
			sb.WriteString("    " + mutedStyle.Render(c.URL) + "\n")
		}
	}
	return sb.String()
}
