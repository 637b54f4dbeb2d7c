package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/rpsarena/internal/model"
)

func newWatchCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream arena events",
		Long: `Connect to the arena socket and print every event as it arrives.

Watching counts as a connected player but never joins matchmaking.

Events include:
  - player_count: Number of connected players changed
  - your_profile: This session's identity
  - leaderboard_update: Top players changed
  - history_update: A match was decided

Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var trace io.Writer
			if cfg.Verbose {
				trace = cmd.ErrOrStderr()
			}
			return streamEvents(cmd.Context(), cfg.WebSocketURL(), count, newOutput(cmd), trace)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", 0, "Stop after this many events (0 for no limit)")

	return cmd
}

func streamEvents(ctx context.Context, wsURL string, count int, out *Output, trace io.Writer) error {
	session, err := Dial(ctx, wsURL, trace)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	if out.format != "json" {
		out.PrintMessage(fmt.Sprintf("Connected to %s", wsURL))
	}

	seen := 0
	for count == 0 || seen < count {
		env, err := session.Next()
		if err != nil {
			if errors.Is(err, model.ErrMalformedPayload) {
				continue
			}
			// Cancellation is the normal way out
			if ctx.Err() != nil {
				if out.format != "json" {
					out.PrintMessage("Disconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		out.PrintEvent(StreamEvent{
			Time:  time.Now(),
			Event: string(env.Event),
			Data:  env.Data,
		})
		seen++
	}

	return nil
}
