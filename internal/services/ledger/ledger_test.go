package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsarena/internal/dependencies/mocks"
	"github.com/mcoot/rpsarena/internal/model"
	"github.com/mcoot/rpsarena/internal/services/identity"
	"github.com/mcoot/rpsarena/internal/storage/memory"
)

type LedgerSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	registry *identity.Registry
	storage  *memory.Storage
	ledger   *Ledger
	ctx      context.Context
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.registry = identity.NewRegistry(s.clock, s.random)
	s.storage = memory.New()
	s.ledger = New(s.storage, s.registry, s.clock)
	s.ctx = context.Background()
}

func (s *LedgerSuite) identity(name string) model.Identity {
	return model.Identity{Handle: model.Handle(name), DisplayName: name}
}

// Leaderboard tests

func (s *LedgerSuite) TestLeaderboard_SortedByScoreDescending() {
	s.registry.Connect("h1")
	s.registry.Connect("h2")
	s.registry.Connect("h3")
	s.registry.RecordWin("h2")
	s.registry.RecordWin("h3")
	s.registry.RecordWin("h3")

	board := s.ledger.Leaderboard()

	s.Require().Len(board, 3)
	s.Equal(model.Handle("h3"), board[0].Handle)
	s.Equal(model.Handle("h2"), board[1].Handle)
	s.Equal(model.Handle("h1"), board[2].Handle)
}

func (s *LedgerSuite) TestLeaderboard_TiesKeepInsertionOrder() {
	for _, h := range []model.Handle{"h1", "h2", "h3"} {
		s.registry.Connect(h)
	}

	board := s.ledger.Leaderboard()

	s.Equal(model.Handle("h1"), board[0].Handle)
	s.Equal(model.Handle("h2"), board[1].Handle)
	s.Equal(model.Handle("h3"), board[2].Handle)
}

func (s *LedgerSuite) TestLeaderboard_TopFiveOnly() {
	for _, h := range []model.Handle{"h1", "h2", "h3", "h4", "h5", "h6", "h7"} {
		s.registry.Connect(h)
	}
	s.registry.RecordWin("h7")

	board := s.ledger.Leaderboard()

	s.Len(board, LeaderboardSize)
	s.Equal(model.Handle("h7"), board[0].Handle)
}

func (s *LedgerSuite) TestLeaderboard_ExcludesDisconnected() {
	s.registry.Connect("h1")
	s.registry.RecordWin("h1")
	s.registry.Connect("h2")
	s.registry.Disconnect("h1")

	board := s.ledger.Leaderboard()

	s.Require().Len(board, 1)
	s.Equal(model.Handle("h2"), board[0].Handle)
}

// History tests

func (s *LedgerSuite) TestRecord() {
	entry, err := s.ledger.Record(s.ctx, s.identity("Alice"), s.identity("Bob"), model.MoveRock, model.MoveScissors)
	s.Require().NoError(err)

	s.Equal(s.clock.Now().UnixMilli(), entry.ID)
	s.Equal("Alice", entry.Winner)
	s.Equal("Bob", entry.Loser)
	s.Equal(model.MoveRock, entry.WinMove)
	s.Equal(model.MoveScissors, entry.LoseMove)

	history, err := s.ledger.History(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(entry, history[0])
}

func (s *LedgerSuite) TestRecord_IDsStrictlyIncreasing() {
	first, _ := s.ledger.Record(s.ctx, s.identity("A"), s.identity("B"), model.MoveRock, model.MoveScissors)
	second, _ := s.ledger.Record(s.ctx, s.identity("A"), s.identity("B"), model.MoveRock, model.MoveScissors)
	s.clock.Advance(-time.Second)
	third, _ := s.ledger.Record(s.ctx, s.identity("A"), s.identity("B"), model.MoveRock, model.MoveScissors)

	s.Greater(second.ID, first.ID)
	s.Greater(third.ID, second.ID)
}

func (s *LedgerSuite) TestHistoryBound() {
	for i := 0; i < 25; i++ {
		s.clock.Advance(time.Second)
		_, err := s.ledger.Record(s.ctx, s.identity("A"), s.identity("B"), model.MovePaper, model.MoveRock)
		s.Require().NoError(err)
	}

	recent, err := s.ledger.RecentHistory(s.ctx)
	s.Require().NoError(err)
	s.Len(recent, RecentHistorySize)

	all, err := s.ledger.History(s.ctx)
	s.Require().NoError(err)
	s.Len(all, model.HistoryCapacity)

	for i := 1; i < len(all); i++ {
		s.Greater(all[i-1].ID, all[i].ID, "history must be newest first")
	}
	s.Equal(all[:RecentHistorySize], recent)

	size, err := s.ledger.Size(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.HistoryCapacity, size)
}

func (s *LedgerSuite) TestHistorySurvivesIdentityRemoval() {
	s.registry.Connect("h1")
	winner, _ := s.registry.Get("h1")
	_, _ = s.ledger.Record(s.ctx, winner, s.identity("Bob"), model.MoveRock, model.MoveScissors)

	s.registry.Disconnect("h1")

	history, _ := s.ledger.History(s.ctx)
	s.Require().Len(history, 1)
	s.Equal(winner.DisplayName, history[0].Winner)
}

func (s *LedgerSuite) TestRecord_StorageErrorReturned() {
	failing := New(failingStorage{memory.New()}, s.registry, s.clock)

	entry, err := failing.Record(s.ctx, s.identity("A"), s.identity("B"), model.MoveRock, model.MoveScissors)

	s.ErrorIs(err, errStoreDown)
	s.Equal("A", entry.Winner)
}

var errStoreDown = errors.New("store down")

type failingStorage struct {
	*memory.Storage
}

func (f failingStorage) PushHistory(ctx context.Context, entry *model.HistoryEntry, capacity int) error {
	return errStoreDown
}
