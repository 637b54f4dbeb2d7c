package factory

import (
	"log/slog"
	"time"

	"github.com/mcoot/rpsarena/internal/dependencies/mocks"
	"github.com/mcoot/rpsarena/internal/storage"
	"github.com/mcoot/rpsarena/internal/storage/memory"
	"github.com/mcoot/rpsarena/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New(), testutil.NopLogger())
}

// NewTestAppWithStorage creates a test App on top of the given ledger store
func NewTestAppWithStorage(store storage.Storage, logger *slog.Logger) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
