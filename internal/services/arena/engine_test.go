package arena

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsarena/internal/dependencies/mocks"
	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/protocol"
	"github.com/mcoot/rpsarena/internal/services/identity"
	"github.com/mcoot/rpsarena/internal/services/ledger"
	"github.com/mcoot/rpsarena/internal/services/matchmaking"
	"github.com/mcoot/rpsarena/internal/services/room"
	"github.com/mcoot/rpsarena/internal/storage/memory"
	"github.com/mcoot/rpsarena/internal/testutil"
)

type EngineSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *identity.Registry
	queue    *matchmaking.Queue
	rooms    *room.Table
	engine   *Engine
	ctx      context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.registry = identity.NewRegistry(s.clock, s.random)
	s.queue = matchmaking.NewQueue()
	s.rooms = room.NewTable(s.clock, s.random)
	l := ledger.New(memory.New(), s.registry, s.clock)
	s.engine = NewEngine(s.registry, s.queue, s.rooms, l, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

// connect registers a handle with a predictable name such as "NeonNinja1"
func (s *EngineSuite) connect(handle model.Handle, number int) model.Identity {
	s.random.QueueIntn(0, 0, number)
	identity, _ := s.engine.Connect(s.ctx, handle)
	return identity
}

// match pairs two fresh connections and returns their room
func (s *EngineSuite) match(a, b model.Handle) model.Room {
	s.connect(a, 1)
	s.connect(b, 2)
	s.engine.FindMatch(s.ctx, a)
	s.engine.FindMatch(s.ctx, b)
	r, ok := s.engine.RoomOf(a)
	s.Require().True(ok)
	return r
}

func events(notifications []Notification) []model.EventType {
	var result []model.EventType
	for _, n := range notifications {
		result = append(result, n.Event)
	}
	return result
}

func find(notifications []Notification, event model.EventType) (Notification, bool) {
	for _, n := range notifications {
		if n.Event == event {
			return n, true
		}
	}
	return Notification{}, false
}

// Connect tests

func (s *EngineSuite) TestConnect_GreetsNewPlayer() {
	s.random.QueueIntn(0, 1, 42)

	identity, out := s.engine.Connect(s.ctx, "h1")

	s.Equal("NeonWolf42", identity.DisplayName)
	s.Equal([]model.EventType{
		model.EventPlayerCount,
		model.EventYourProfile,
		model.EventLeaderboardUpdate,
		model.EventHistoryUpdate,
	}, events(out))
	s.True(out[0].Broadcast)
	s.Equal(1, out[0].Payload)
	s.Equal(model.Handle("h1"), out[1].To)
	s.Equal(protocol.Profile{Username: "NeonWolf42"}, out[1].Payload)
	s.False(out[2].Broadcast)
	s.False(out[3].Broadcast)
}

func (s *EngineSuite) TestConnect_CountsEveryone() {
	s.connect("h1", 1)
	_, out := s.engine.Connect(s.ctx, "h2")

	s.Equal(2, out[0].Payload)
}

// FindMatch tests

func (s *EngineSuite) TestFindMatch_PairsTwoOldest() {
	s.connect("h1", 1)
	s.connect("h2", 2)
	s.connect("h3", 3)
	s.random.QueueUUID("room-1")

	s.Empty(s.engine.FindMatch(s.ctx, "h1"))
	out := s.engine.FindMatch(s.ctx, "h2")
	s.Empty(s.engine.FindMatch(s.ctx, "h3"))

	s.Require().Len(out, 2)
	s.Equal(model.Handle("h1"), out[0].To)
	s.Equal(protocol.MatchFound{RoomID: "room-1", OpponentName: "NeonNinja2"}, out[0].Payload)
	s.Equal(model.Handle("h2"), out[1].To)
	s.Equal(protocol.MatchFound{RoomID: "room-1", OpponentName: "NeonNinja1"}, out[1].Payload)

	r, ok := s.engine.RoomOf("h1")
	s.Require().True(ok)
	s.Equal(model.Handle("h1"), r.PlayerA)
	s.Equal(model.Handle("h2"), r.PlayerB)
	s.True(s.engine.Queued("h3"))
}

func (s *EngineSuite) TestFindMatch_DuplicateIgnored() {
	s.connect("h1", 1)

	s.engine.FindMatch(s.ctx, "h1")
	s.engine.FindMatch(s.ctx, "h1")

	s.Equal(1, s.queue.Len())
	_, inRoom := s.engine.RoomOf("h1")
	s.False(inRoom)
}

func (s *EngineSuite) TestFindMatch_IgnoredWhileInRoom() {
	s.match("h1", "h2")
	s.connect("h3", 3)

	out := s.engine.FindMatch(s.ctx, "h1")
	s.Empty(out)
	s.False(s.engine.Queued("h1"))

	out = s.engine.FindMatch(s.ctx, "h3")
	s.Empty(out)
	s.Equal(1, s.rooms.Len())
}

func (s *EngineSuite) TestFindMatch_UnknownHandleIgnored() {
	s.Empty(s.engine.FindMatch(s.ctx, "ghost"))
	s.Equal(0, s.queue.Len())
}

func (s *EngineSuite) TestFindMatch_StaleEntryRequeuesSurvivorAtFront() {
	s.connect("h1", 1)
	s.connect("h2", 2)
	s.engine.FindMatch(s.ctx, "h1")

	// h1 vanishes without its queue entry being cleaned up
	s.registry.Disconnect("h1")

	out := s.engine.FindMatch(s.ctx, "h2")

	s.Empty(out)
	s.Equal([]model.Handle{"h2"}, s.queue.Snapshot())

	s.connect("h3", 3)
	out = s.engine.FindMatch(s.ctx, "h3")
	s.Require().Len(out, 2)
	r, ok := s.engine.RoomOf("h2")
	s.Require().True(ok)
	s.Equal(model.Handle("h2"), r.PlayerA)
	s.Equal(model.Handle("h3"), r.PlayerB)
}

func (s *EngineSuite) TestFindMatch_RetriesWhileLiveWaitersRemain() {
	s.connect("h1", 1)
	s.connect("h2", 2)
	s.connect("h3", 3)
	s.queue.Enqueue("h1")
	s.queue.Enqueue("h2")
	s.registry.Disconnect("h1")

	out := s.engine.FindMatch(s.ctx, "h3")

	s.Len(out, 2)
	r, ok := s.engine.RoomOf("h2")
	s.Require().True(ok)
	s.Equal(model.Handle("h3"), r.Opponent("h2"))
	s.Equal(0, s.queue.Len())
}

// CancelSearch tests

func (s *EngineSuite) TestCancelSearch() {
	s.connect("h1", 1)
	s.engine.FindMatch(s.ctx, "h1")

	out := s.engine.CancelSearch(s.ctx, "h1")

	s.Empty(out)
	s.False(s.engine.Queued("h1"))

	// A later lone seeker does not pair with the stale entry
	s.connect("h2", 2)
	s.Empty(s.engine.FindMatch(s.ctx, "h2"))
	_, inRoom := s.engine.RoomOf("h2")
	s.False(inRoom)
}

func (s *EngineSuite) TestCancelSearch_AbsentIsNoop() {
	s.connect("h1", 1)
	s.Empty(s.engine.CancelSearch(s.ctx, "h1"))
}

// SubmitMove tests

func (s *EngineSuite) TestSubmitMove_WinAndLose() {
	r := s.match("h1", "h2")

	s.Empty(s.engine.SubmitMove(s.ctx, "h1", r.ID, model.MoveRock))
	out := s.engine.SubmitMove(s.ctx, "h2", r.ID, model.MoveScissors)

	s.Equal([]model.EventType{
		model.EventGameResult,
		model.EventGameResult,
		model.EventLeaderboardUpdate,
		model.EventHistoryUpdate,
	}, events(out))

	res1, _ := find(out.For("h1"), model.EventGameResult)
	s.Equal(protocol.GameResult{Result: model.VerdictWin, OpponentMove: model.MoveScissors, NewScore: 10}, res1.Payload)
	res2, _ := find(out.For("h2"), model.EventGameResult)
	s.Equal(protocol.GameResult{Result: model.VerdictLose, OpponentMove: model.MoveRock, NewScore: 0}, res2.Payload)

	board, _ := find(out, model.EventLeaderboardUpdate)
	s.True(board.Broadcast)
	s.Equal([]protocol.Profile{
		{Username: "NeonNinja1", Score: 10, Wins: 1},
		{Username: "NeonNinja2", Score: 0, Wins: 0},
	}, board.Payload)

	history, _ := find(out, model.EventHistoryUpdate)
	s.True(history.Broadcast)
	items := history.Payload.([]protocol.HistoryItem)
	s.Require().Len(items, 1)
	s.Equal("NeonNinja1", items[0].Winner)
	s.Equal("NeonNinja2", items[0].Loser)
	s.Equal(model.MoveRock, items[0].WinMove)
	s.Equal(model.MoveScissors, items[0].LoseMove)

	_, inRoom := s.engine.RoomOf("h1")
	s.False(inRoom)
	s.Equal(0, s.rooms.Len())
}

func (s *EngineSuite) TestSubmitMove_PlayerBWins() {
	r := s.match("h1", "h2")

	s.engine.SubmitMove(s.ctx, "h1", r.ID, model.MoveRock)
	out := s.engine.SubmitMove(s.ctx, "h2", r.ID, model.MovePaper)

	res1, _ := find(out.For("h1"), model.EventGameResult)
	s.Equal(model.VerdictLose, res1.Payload.(protocol.GameResult).Result)
	res2, _ := find(out.For("h2"), model.EventGameResult)
	s.Equal(model.VerdictWin, res2.Payload.(protocol.GameResult).Result)

	identity, _ := s.engine.Identity("h2")
	s.Equal(10, identity.Score)
}

func (s *EngineSuite) TestSubmitMove_DrawChangesNothing() {
	r := s.match("h1", "h2")

	s.engine.SubmitMove(s.ctx, "h1", r.ID, model.MovePaper)
	out := s.engine.SubmitMove(s.ctx, "h2", r.ID, model.MovePaper)

	for _, h := range []model.Handle{"h1", "h2"} {
		res, ok := find(out.For(h), model.EventGameResult)
		s.Require().True(ok)
		s.Equal(protocol.GameResult{Result: model.VerdictDraw, OpponentMove: model.MovePaper, NewScore: 0}, res.Payload)

		identity, _ := s.engine.Identity(h)
		s.Equal(0, identity.Score)
		s.Equal(0, identity.Wins)
	}

	history, err := s.engine.History(s.ctx, 20)
	s.Require().NoError(err)
	s.Empty(history)
	s.Equal(0, s.rooms.Len())
}

func (s *EngineSuite) TestSubmitMove_DuplicateIgnored() {
	r := s.match("h1", "h2")

	s.engine.SubmitMove(s.ctx, "h1", r.ID, model.MoveRock)
	out := s.engine.SubmitMove(s.ctx, "h1", r.ID, model.MovePaper)

	s.Empty(out)
	current, ok := s.engine.RoomOf("h1")
	s.Require().True(ok)
	s.Equal(model.MoveRock, *current.MoveA)
	s.Nil(current.MoveB)

	out = s.engine.SubmitMove(s.ctx, "h2", r.ID, model.MoveScissors)
	res, _ := find(out.For("h2"), model.EventGameResult)
	s.Equal(model.MoveRock, res.Payload.(protocol.GameResult).OpponentMove)
}

func (s *EngineSuite) TestSubmitMove_StaleReferencesDropped() {
	r := s.match("h1", "h2")
	s.connect("h3", 3)

	s.Empty(s.engine.SubmitMove(s.ctx, "h3", r.ID, model.MoveRock))
	s.Empty(s.engine.SubmitMove(s.ctx, "h1", "no-such-room", model.MoveRock))

	s.engine.SubmitMove(s.ctx, "h1", r.ID, model.MoveRock)
	s.engine.SubmitMove(s.ctx, "h2", r.ID, model.MoveRock)

	// Room is gone after resolution
	s.Empty(s.engine.SubmitMove(s.ctx, "h1", r.ID, model.MoveRock))
}

func (s *EngineSuite) TestScoreMonotonic() {
	moves := [][2]model.Move{
		{model.MoveRock, model.MoveScissors},
		{model.MovePaper, model.MovePaper},
		{model.MoveRock, model.MovePaper},
		{model.MoveScissors, model.MovePaper},
	}
	s.connect("h1", 1)
	s.connect("h2", 2)

	prev := map[model.Handle]model.Identity{}
	for _, pair := range moves {
		s.engine.FindMatch(s.ctx, "h1")
		s.engine.FindMatch(s.ctx, "h2")
		r, ok := s.engine.RoomOf("h1")
		s.Require().True(ok)
		s.engine.SubmitMove(s.ctx, r.PlayerA, r.ID, pair[0])
		s.engine.SubmitMove(s.ctx, r.PlayerB, r.ID, pair[1])

		for _, h := range []model.Handle{"h1", "h2"} {
			current, _ := s.engine.Identity(h)
			s.GreaterOrEqual(current.Score, prev[h].Score)
			s.GreaterOrEqual(current.Wins, prev[h].Wins)
			prev[h] = current
		}
	}

	s.Equal(20, prev["h1"].Score)
	s.Equal(10, prev["h2"].Score)
}

func (s *EngineSuite) TestHistoryBoundAcrossMatches() {
	s.connect("h1", 1)
	s.connect("h2", 2)

	for i := 0; i < 25; i++ {
		s.engine.FindMatch(s.ctx, "h1")
		s.engine.FindMatch(s.ctx, "h2")
		r, _ := s.engine.RoomOf("h1")
		s.engine.SubmitMove(s.ctx, "h1", r.ID, model.MoveRock)
		s.engine.SubmitMove(s.ctx, "h2", r.ID, model.MoveScissors)
	}

	all, err := s.engine.History(s.ctx, model.HistoryCapacity)
	s.Require().NoError(err)
	s.Len(all, 20)
	s.Equal(20, s.engine.Stats(s.ctx).HistorySize)

	_, out := s.engine.Connect(s.ctx, "h3")
	history, _ := find(out, model.EventHistoryUpdate)
	s.Len(history.Payload, 5)
}

// Disconnect tests

func (s *EngineSuite) TestDisconnect_BeforeMoving() {
	r := s.match("h1", "h2")
	s.engine.SubmitMove(s.ctx, "h1", r.ID, model.MoveRock)

	out := s.engine.Disconnect(s.ctx, "h2")

	s.Equal([]model.EventType{
		model.EventPlayerCount,
		model.EventOpponentDisconnected,
		model.EventLeaderboardUpdate,
	}, events(out))
	s.Equal(1, out[0].Payload)
	s.Equal(model.Handle("h1"), out[1].To)
	s.Equal(protocol.OpponentDisconnected{}, out[1].Payload)

	_, err := s.rooms.Get(r.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)

	identity, _ := s.engine.Identity("h1")
	s.Equal(0, identity.Score)

	history, _ := s.engine.History(s.ctx, 20)
	s.Empty(history)
}

func (s *EngineSuite) TestDisconnect_RemovesQueueEntry() {
	s.connect("h1", 1)
	s.engine.FindMatch(s.ctx, "h1")

	s.engine.Disconnect(s.ctx, "h1")

	s.Equal(0, s.queue.Len())
	_, ok := s.engine.Identity("h1")
	s.False(ok)
}

func (s *EngineSuite) TestDisconnect_Idempotent() {
	s.connect("h1", 1)

	s.NotEmpty(s.engine.Disconnect(s.ctx, "h1"))
	s.Empty(s.engine.Disconnect(s.ctx, "h1"))
}

func (s *EngineSuite) TestDisconnect_StaysOutOfLeaderboard() {
	r := s.match("h1", "h2")
	s.engine.SubmitMove(s.ctx, "h1", r.ID, model.MoveRock)
	s.engine.SubmitMove(s.ctx, "h2", r.ID, model.MoveScissors)

	out := s.engine.Disconnect(s.ctx, "h1")

	board, ok := find(out, model.EventLeaderboardUpdate)
	s.Require().True(ok)
	s.Equal([]protocol.Profile{{Username: "NeonNinja2"}}, board.Payload)

	history, _ := s.engine.History(s.ctx, 20)
	s.Require().Len(history, 1)
	s.Equal("NeonNinja1", history[0].Winner)
}

// Handle tests

func (s *EngineSuite) TestHandle_DispatchesCommands() {
	s.connect("h1", 1)
	s.connect("h2", 2)

	s.engine.Handle(s.ctx, "h1", protocol.FindMatch{})
	s.True(s.engine.Queued("h1"))

	s.engine.Handle(s.ctx, "h1", protocol.CancelSearch{})
	s.False(s.engine.Queued("h1"))

	s.engine.Handle(s.ctx, "h1", protocol.FindMatch{})
	s.engine.Handle(s.ctx, "h2", protocol.FindMatch{})
	r, ok := s.engine.RoomOf("h1")
	s.Require().True(ok)

	s.engine.Handle(s.ctx, "h1", protocol.MakeMove{RoomID: r.ID, Move: model.MoveScissors})
	out := s.engine.Handle(s.ctx, "h2", protocol.MakeMove{RoomID: r.ID, Move: model.MovePaper})
	res, _ := find(out.For("h1"), model.EventGameResult)
	s.Equal(model.VerdictWin, res.Payload.(protocol.GameResult).Result)
}

// Stats tests

func (s *EngineSuite) TestStats() {
	s.match("h1", "h2")
	s.connect("h3", 3)
	s.engine.FindMatch(s.ctx, "h3")

	stats := s.engine.Stats(s.ctx)

	s.Equal(3, stats.Connected)
	s.Equal(1, stats.Queued)
	s.Equal(1, stats.ActiveRooms)
	s.Equal(0, stats.HistorySize)
	s.Equal(s.clock.Now(), stats.TakenAt)
}
