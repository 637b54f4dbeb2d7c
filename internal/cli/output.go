package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mcoot/rpsarena/internal/api/response"
	"github.com/mcoot/rpsarena/internal/protocol"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errOut, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.out, string(data))
	} else {
		_, _ = fmt.Fprintln(o.out, msg)
	}
}

// PrintEvent outputs one streamed server event. JSON output is one object per line.
func (o *Output) PrintEvent(evt StreamEvent) {
	if o.format == "json" {
		data, _ := json.Marshal(evt)
		_, _ = fmt.Fprintln(o.out, string(data))
		return
	}

	displayData := string(evt.Data)
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	_, _ = fmt.Fprintf(o.out, "[%s] %s: %s\n", evt.Time.Format("2006-01-02 15:04:05"), evt.Event, displayData)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case response.Stats:
		o.printStats(v)
	case response.Leaderboard:
		o.printLeaderboard(v)
	case response.History:
		o.printHistory(v)
	case PlayResult:
		o.printPlayResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// StreamEvent is one server frame seen by watch
type StreamEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// PlayResult summarises a single played match
type PlayResult struct {
	Username     string `json:"username"`
	Opponent     string `json:"opponent"`
	RoomID       string `json:"room_id"`
	Move         string `json:"move"`
	OpponentMove string `json:"opponent_move,omitempty"`
	Result       string `json:"result"`
	Score        int    `json:"score"`
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.out, "Status: %s\n", h.Status)
}

func (o *Output) printStats(s response.Stats) {
	_, _ = fmt.Fprintf(o.out, "Connected: %d\n", s.Connected)
	_, _ = fmt.Fprintf(o.out, "Queued: %d\n", s.Queued)
	_, _ = fmt.Fprintf(o.out, "Active Rooms: %d\n", s.ActiveRooms)
	_, _ = fmt.Fprintf(o.out, "History Size: %d\n", s.HistorySize)
}

func (o *Output) printLeaderboard(l response.Leaderboard) {
	if len(l.Entries) == 0 {
		_, _ = fmt.Fprintln(o.out, "No players connected")
		return
	}
	_, _ = fmt.Fprintln(o.out, "Leaderboard:")
	for i, p := range l.Entries {
		_, _ = fmt.Fprintf(o.out, "  %d. %s - %d pts (%d wins)\n", i+1, p.Username, p.Score, p.Wins)
	}
}

func (o *Output) printHistory(h response.History) {
	if len(h.Entries) == 0 {
		_, _ = fmt.Fprintln(o.out, "No matches played yet")
		return
	}
	_, _ = fmt.Fprintln(o.out, "Recent matches:")
	for _, e := range h.Entries {
		o.printHistoryItem(e)
	}
}

func (o *Output) printHistoryItem(e protocol.HistoryItem) {
	_, _ = fmt.Fprintf(o.out, "  %s (%s) beat %s (%s)\n", e.Winner, e.WinMove, e.Loser, e.LoseMove)
}

func (o *Output) printPlayResult(p PlayResult) {
	_, _ = fmt.Fprintf(o.out, "Playing as: %s\n", p.Username)
	_, _ = fmt.Fprintf(o.out, "Opponent: %s\n", p.Opponent)
	_, _ = fmt.Fprintf(o.out, "Your move: %s\n", p.Move)
	if p.OpponentMove != "" {
		_, _ = fmt.Fprintf(o.out, "Opponent move: %s\n", p.OpponentMove)
	}
	_, _ = fmt.Fprintf(o.out, "Result: %s\n", p.Result)
	_, _ = fmt.Fprintf(o.out, "Score: %d\n", p.Score)
}
