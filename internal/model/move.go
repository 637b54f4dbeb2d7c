package model

import "strings"

// Move is a single rock-paper-scissors throw
type Move string

const (
	MoveRock     Move = "rock"
	MovePaper    Move = "paper"
	MoveScissors Move = "scissors"
)

// AllMoves lists every valid move
var AllMoves = []Move{MoveRock, MovePaper, MoveScissors}

// Valid returns true if m is one of the three moves
func (m Move) Valid() bool {
	switch m {
	case MoveRock, MovePaper, MoveScissors:
		return true
	}
	return false
}

// ParseMove converts user input to a Move, case-insensitively
func ParseMove(s string) (Move, error) {
	m := Move(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", ErrInvalidMove
	}
	return m, nil
}

// Outcome is the result of a match from the room's point of view
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeAWins
	OutcomeBWins
)

// Verdict is the result of a match relative to one participant
type Verdict string

const (
	VerdictWin  Verdict = "win"
	VerdictLose Verdict = "lose"
	VerdictDraw Verdict = "draw"
)
