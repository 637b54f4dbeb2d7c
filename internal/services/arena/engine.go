package arena

import (
	"context"
	"log/slog"

	"github.com/mcoot/rpsarena/internal/dependencies/clock"
	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/protocol"
	"github.com/mcoot/rpsarena/internal/services/identity"
	"github.com/mcoot/rpsarena/internal/services/ledger"
	"github.com/mcoot/rpsarena/internal/services/matchmaking"
	"github.com/mcoot/rpsarena/internal/services/outcome"
	"github.com/mcoot/rpsarena/internal/services/room"
)

// Engine owns all arena state and translates connection events into component calls.
// It is not safe for concurrent use; callers serialise access through the realtime hub.
type Engine struct {
	registry *identity.Registry
	queue    *matchmaking.Queue
	rooms    *room.Table
	ledger   *ledger.Ledger
	clock    clock.Clock
	logger   *slog.Logger
}

// NewEngine creates a new Engine
func NewEngine(
	registry *identity.Registry,
	queue *matchmaking.Queue,
	rooms *room.Table,
	ledger *ledger.Ledger,
	clock clock.Clock,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		registry: registry,
		queue:    queue,
		rooms:    rooms,
		ledger:   ledger,
		clock:    clock,
		logger:   logger.With(slog.String("component", "arena")),
	}
}

// Connect registers a new handle and greets it
func (e *Engine) Connect(ctx context.Context, handle model.Handle) (model.Identity, Outbox) {
	var out Outbox
	identity := e.registry.Connect(handle)

	out.broadcast(model.EventPlayerCount, e.registry.Count())
	out.send(handle, model.EventYourProfile, protocol.ProfileOf(identity))
	out.send(handle, model.EventLeaderboardUpdate, protocol.ProfilesOf(e.ledger.Leaderboard()))
	if history, ok := e.recentHistory(ctx); ok {
		out.send(handle, model.EventHistoryUpdate, history)
	}

	e.logger.Info("player connected",
		slog.String("handle", string(handle)),
		slog.String("name", identity.DisplayName),
		slog.Int("connected", e.registry.Count()),
	)
	return identity, out
}

// Disconnect removes the handle, voids its room and retries pairing
func (e *Engine) Disconnect(ctx context.Context, handle model.Handle) Outbox {
	var out Outbox
	identity, ok := e.registry.Get(handle)
	if !ok {
		return out
	}

	e.registry.Disconnect(handle)
	out.broadcast(model.EventPlayerCount, e.registry.Count())

	e.queue.Cancel(handle)

	if r, inRoom := e.rooms.RoomOf(handle); inRoom {
		opponent := r.Opponent(handle)
		e.rooms.Close(r.ID)
		out.send(opponent, model.EventOpponentDisconnected, protocol.OpponentDisconnected{})
		e.logger.Info("room voided",
			slog.String("room_id", string(r.ID)),
			slog.String("remaining", string(opponent)),
		)
	}

	out.broadcast(model.EventLeaderboardUpdate, protocol.ProfilesOf(e.ledger.Leaderboard()))

	e.pair(&out)

	e.logger.Info("player disconnected",
		slog.String("handle", string(handle)),
		slog.String("name", identity.DisplayName),
		slog.Int("connected", e.registry.Count()),
	)
	return out
}

// FindMatch queues the handle and pairs the two oldest waiters
func (e *Engine) FindMatch(ctx context.Context, handle model.Handle) Outbox {
	var out Outbox
	if !e.registry.IsLive(handle) {
		e.logger.Debug("find_match from unknown handle", slog.String("handle", string(handle)))
		return out
	}
	if r, inRoom := e.rooms.RoomOf(handle); inRoom {
		e.logger.Debug("find_match ignored, already in room",
			slog.String("handle", string(handle)),
			slog.String("room_id", string(r.ID)),
		)
		return out
	}
	if !e.queue.Enqueue(handle) {
		e.logger.Debug("find_match ignored, already queued", slog.String("handle", string(handle)))
		return out
	}

	e.pair(&out)
	return out
}

// CancelSearch removes the handle from the queue
func (e *Engine) CancelSearch(ctx context.Context, handle model.Handle) Outbox {
	if !e.queue.Cancel(handle) {
		e.logger.Debug("cancel_search ignored, not queued", slog.String("handle", string(handle)))
	}
	return nil
}

// SubmitMove records a move and resolves the room once both participants have moved
func (e *Engine) SubmitMove(ctx context.Context, handle model.Handle, roomID model.RoomID, move model.Move) Outbox {
	var out Outbox
	r, complete, err := e.rooms.RecordMove(roomID, handle, move)
	if err != nil {
		e.logger.Debug("move dropped",
			slog.String("handle", string(handle)),
			slog.String("room_id", string(roomID)),
			slog.String("error", err.Error()),
		)
		return out
	}
	if !complete {
		return out
	}

	e.resolve(ctx, r, &out)
	return out
}

// Handle dispatches a decoded client command
func (e *Engine) Handle(ctx context.Context, handle model.Handle, cmd protocol.Command) Outbox {
	switch c := cmd.(type) {
	case protocol.FindMatch:
		return e.FindMatch(ctx, handle)
	case protocol.CancelSearch:
		return e.CancelSearch(ctx, handle)
	case protocol.MakeMove:
		return e.SubmitMove(ctx, handle, c.RoomID, c.Move)
	default:
		e.logger.Debug("unhandled command", slog.String("handle", string(handle)))
		return nil
	}
}

// resolve scores a complete room, records history and tears the room down
func (e *Engine) resolve(ctx context.Context, r model.Room, out *Outbox) {
	moveA, moveB := *r.MoveA, *r.MoveB
	result, err := outcome.Resolve(moveA, moveB)
	if err != nil {
		e.logger.Error("resolving room", slog.String("room_id", string(r.ID)), slog.String("error", err.Error()))
		e.rooms.Close(r.ID)
		return
	}

	switch result {
	case model.OutcomeAWins:
		e.registry.RecordWin(r.PlayerA)
		e.recordHistory(ctx, r.PlayerA, r.PlayerB, moveA, moveB)
	case model.OutcomeBWins:
		e.registry.RecordWin(r.PlayerB)
		e.recordHistory(ctx, r.PlayerB, r.PlayerA, moveB, moveA)
	}

	e.rooms.Close(r.ID)

	for _, h := range []model.Handle{r.PlayerA, r.PlayerB} {
		identity, _ := e.registry.Get(h)
		out.send(h, model.EventGameResult, protocol.GameResult{
			Result:       outcome.VerdictFor(result, h == r.PlayerA),
			OpponentMove: *r.MoveOf(r.Opponent(h)),
			NewScore:     identity.Score,
		})
	}

	out.broadcast(model.EventLeaderboardUpdate, protocol.ProfilesOf(e.ledger.Leaderboard()))
	if history, ok := e.recentHistory(ctx); ok {
		out.broadcast(model.EventHistoryUpdate, history)
	}

	e.logger.Info("room resolved",
		slog.String("room_id", string(r.ID)),
		slog.String("move_a", string(moveA)),
		slog.String("move_b", string(moveB)),
		slog.String("verdict_a", string(outcome.VerdictFor(result, true))),
		slog.Duration("duration", e.clock.Since(r.CreatedAt)),
	)
}

func (e *Engine) recordHistory(ctx context.Context, winner, loser model.Handle, winMove, loseMove model.Move) {
	w, _ := e.registry.Get(winner)
	l, _ := e.registry.Get(loser)
	if _, err := e.ledger.Record(ctx, w, l, winMove, loseMove); err != nil {
		// Scores and room teardown still go ahead
		e.logger.Error("recording history", slog.String("error", err.Error()))
	}
}

// pair opens rooms while two or more live waiters remain
func (e *Engine) pair(out *Outbox) {
	for {
		a, b, ok := e.queue.TryPair()
		if !ok {
			return
		}

		var live []model.Handle
		for _, h := range []model.Handle{a, b} {
			if e.eligible(h) {
				live = append(live, h)
				continue
			}
			e.logger.Debug("dropping stale queue entry", slog.String("handle", string(h)))
		}
		if len(live) < 2 {
			e.queue.RequeueFront(live...)
			continue
		}

		r, err := e.rooms.Open(a, b)
		if err != nil {
			e.logger.Error("opening room", slog.String("error", err.Error()))
			e.queue.RequeueFront(a, b)
			return
		}

		nameA, nameB := e.displayName(a), e.displayName(b)
		out.send(a, model.EventMatchFound, protocol.MatchFound{RoomID: r.ID, OpponentName: nameB})
		out.send(b, model.EventMatchFound, protocol.MatchFound{RoomID: r.ID, OpponentName: nameA})

		e.logger.Info("match found",
			slog.String("room_id", string(r.ID)),
			slog.String("player_a", nameA),
			slog.String("player_b", nameB),
		)
	}
}

// eligible returns true if the handle is live and not already in a room
func (e *Engine) eligible(h model.Handle) bool {
	if !e.registry.IsLive(h) {
		return false
	}
	_, inRoom := e.rooms.RoomOf(h)
	return !inRoom
}

func (e *Engine) displayName(h model.Handle) string {
	identity, _ := e.registry.Get(h)
	return identity.DisplayName
}

func (e *Engine) recentHistory(ctx context.Context) ([]protocol.HistoryItem, bool) {
	entries, err := e.ledger.RecentHistory(ctx)
	if err != nil {
		e.logger.Error("loading history", slog.String("error", err.Error()))
		return nil, false
	}
	return protocol.HistoryOf(entries), true
}

// Read-only views

// Stats summarises the arena
func (e *Engine) Stats(ctx context.Context) model.ArenaStats {
	size, err := e.ledger.Size(ctx)
	if err != nil {
		e.logger.Error("counting history", slog.String("error", err.Error()))
	}
	return model.ArenaStats{
		Connected:   e.registry.Count(),
		Queued:      e.queue.Len(),
		ActiveRooms: e.rooms.Len(),
		HistorySize: size,
		TakenAt:     e.clock.Now(),
	}
}

// Leaderboard returns the current top identities
func (e *Engine) Leaderboard() []model.Identity {
	return e.ledger.Leaderboard()
}

// History returns up to limit entries, newest first
func (e *Engine) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	return e.ledger.HistoryN(ctx, limit)
}

// Identity returns the identity for a live handle
func (e *Engine) Identity(handle model.Handle) (model.Identity, bool) {
	return e.registry.Get(handle)
}

// RoomOf returns the live room for a handle
func (e *Engine) RoomOf(handle model.Handle) (model.Room, bool) {
	return e.rooms.RoomOf(handle)
}

// Queued returns true if the handle is waiting for an opponent
func (e *Engine) Queued(handle model.Handle) bool {
	return e.queue.Contains(handle)
}
