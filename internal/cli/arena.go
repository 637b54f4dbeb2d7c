package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/rpsarena/internal/api/response"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show arena counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Stats
			if err := client.Get(cmd.Context(), "/api/v1/stats", &result); err != nil {
				return err
			}
			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top connected players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Leaderboard
			if err := client.Get(cmd.Context(), "/api/v1/leaderboard", &result); err != nil {
				return err
			}
			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently decided matches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/history"
			if cmd.Flags().Changed("limit") {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}

			var result response.History
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of entries (1-20)")

	return cmd
}
