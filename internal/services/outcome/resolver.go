package outcome

import "github.com/mcoot/rpsarena/internal/model"

// beats lists, for each move, the move it defeats
var beats = map[model.Move]model.Move{
	model.MoveRock:     model.MoveScissors,
	model.MoveScissors: model.MovePaper,
	model.MovePaper:    model.MoveRock,
}

// table is the full 3x3 result matrix indexed by [a][b]
var table = map[model.Move]map[model.Move]model.Outcome{
	model.MoveRock: {
		model.MoveRock:     model.OutcomeDraw,
		model.MovePaper:    model.OutcomeBWins,
		model.MoveScissors: model.OutcomeAWins,
	},
	model.MovePaper: {
		model.MoveRock:     model.OutcomeAWins,
		model.MovePaper:    model.OutcomeDraw,
		model.MoveScissors: model.OutcomeBWins,
	},
	model.MoveScissors: {
		model.MoveRock:     model.OutcomeBWins,
		model.MovePaper:    model.OutcomeAWins,
		model.MoveScissors: model.OutcomeDraw,
	},
}

// Resolve returns the outcome of move a against move b
func Resolve(a, b model.Move) (model.Outcome, error) {
	row, ok := table[a]
	if !ok {
		return model.OutcomeDraw, model.ErrInvalidMove
	}
	result, ok := row[b]
	if !ok {
		return model.OutcomeDraw, model.ErrInvalidMove
	}
	return result, nil
}

// Beats returns true if a defeats b
func Beats(a, b model.Move) bool {
	return beats[a] == b
}

// VerdictFor maps a room outcome to the verdict for one side.
// sideA is true for player A.
func VerdictFor(outcome model.Outcome, sideA bool) model.Verdict {
	switch outcome {
	case model.OutcomeAWins:
		if sideA {
			return model.VerdictWin
		}
		return model.VerdictLose
	case model.OutcomeBWins:
		if sideA {
			return model.VerdictLose
		}
		return model.VerdictWin
	default:
		return model.VerdictDraw
	}
}
