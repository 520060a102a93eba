package factory

import (
	"context"
	"time"

	"github.com/mcoot/happygarden/internal/dependencies/mocks"
	"github.com/mcoot/happygarden/internal/model"
	"github.com/mcoot/happygarden/internal/storage/memory"
	"github.com/mcoot/happygarden/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDGenerator
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDGenerator()

	app := newWithDependencies(store, mockClock, mockIDs, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}

// CreatePlayers registers one player per name, using the name as its id
func (t *TestApp) CreatePlayers(ctx context.Context, names ...string) ([]*model.Player, error) {
	players := make([]*model.Player, 0, len(names))
	for _, name := range names {
		t.MockIDs.Queue(name)
		p, err := t.PlayerService.CreatePlayer(ctx, name)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}
