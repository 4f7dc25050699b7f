package factory

import (
	"context"
	"sync"
	"time"

	"github.com/jordanjustice/gotcha-api/internal/dependencies/mocks"
	"github.com/jordanjustice/gotcha-api/internal/services/auth"
	"github.com/jordanjustice/gotcha-api/internal/services/notify"
	"github.com/jordanjustice/gotcha-api/internal/storage/memory"
	"github.com/jordanjustice/gotcha-api/internal/testutil"
)

// CaptureSink records notifications instead of delivering them
type CaptureSink struct {
	mu     sync.Mutex
	pushed []*notify.Notification
}

// Push records the notification
func (s *CaptureSink) Push(_ context.Context, n *notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushed = append(s.pushed, n)
	return nil
}

// Pushed returns a copy of the recorded notifications
func (s *CaptureSink) Pushed() []*notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*notify.Notification, len(s.pushed))
	copy(out, s.pushed)
	return out
}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Sink       *CaptureSink
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	sink := &CaptureSink{}

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), sink, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Sink:       sink,
	}
}
