package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mcoot/rpsarena/internal/dependencies/random"
	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/protocol"
)

// ResultOpponentLeft is reported when the opponent disconnects before the room resolves
const ResultOpponentLeft = "opponent_disconnected"

func newPlayCmd() *cobra.Command {
	var moveFlag string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join matchmaking and play a single match",
		Long: `Connect to the arena, wait for an opponent, and throw one move.

If --move is omitted a random move is chosen. Press Ctrl+C to give up
while waiting for an opponent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			move, err := pickMove(moveFlag, random.New())
			if err != nil {
				return err
			}

			var trace io.Writer
			if cfg.Verbose {
				trace = cmd.ErrOrStderr()
			}

			result, err := playMatch(cmd.Context(), cfg.WebSocketURL(), move, trace)
			if err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&moveFlag, "move", "m", "", "Move to throw: rock, paper or scissors")

	return cmd
}

func pickMove(flag string, rnd random.Random) (model.Move, error) {
	if flag == "" {
		return model.AllMoves[rnd.Intn(len(model.AllMoves))], nil
	}
	move, err := model.ParseMove(flag)
	if err != nil {
		return "", fmt.Errorf("invalid move %q: must be rock, paper or scissors", flag)
	}
	return move, nil
}

// playMatch runs one find_match, match_found, make_move, game_result exchange
func playMatch(ctx context.Context, wsURL string, move model.Move, trace io.Writer) (PlayResult, error) {
	session, err := Dial(ctx, wsURL, trace)
	if err != nil {
		return PlayResult{}, err
	}
	defer func() { _ = session.Close() }()

	if err := session.Send(protocol.FindMatch{}); err != nil {
		return PlayResult{}, fmt.Errorf("failed to join matchmaking: %w", err)
	}

	result := PlayResult{Move: string(move)}
	matched := false

	for {
		env, err := session.Next()
		if err != nil {
			if ctx.Err() != nil {
				return PlayResult{}, ctx.Err()
			}
			if errors.Is(err, model.ErrMalformedPayload) {
				continue
			}
			return PlayResult{}, fmt.Errorf("connection closed: %w", err)
		}

		switch env.Event {
		case model.EventYourProfile:
			var profile protocol.Profile
			if err := json.Unmarshal(env.Data, &profile); err == nil {
				result.Username = profile.Username
			}

		case model.EventMatchFound:
			var found protocol.MatchFound
			if err := json.Unmarshal(env.Data, &found); err != nil {
				return PlayResult{}, fmt.Errorf("bad match_found payload: %w", err)
			}
			result.RoomID = string(found.RoomID)
			result.Opponent = found.OpponentName
			matched = true

			if err := session.Send(protocol.MakeMove{RoomID: found.RoomID, Move: move}); err != nil {
				return PlayResult{}, fmt.Errorf("failed to send move: %w", err)
			}

		case model.EventGameResult:
			var gr protocol.GameResult
			if err := json.Unmarshal(env.Data, &gr); err != nil {
				return PlayResult{}, fmt.Errorf("bad game_result payload: %w", err)
			}
			result.Result = string(gr.Result)
			result.OpponentMove = string(gr.OpponentMove)
			result.Score = gr.NewScore
			return result, nil

		case model.EventOpponentDisconnected:
			if matched {
				result.Result = ResultOpponentLeft
				return result, nil
			}
		}
	}
}
