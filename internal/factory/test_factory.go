package factory

import (
	"bytes"
	"time"

	"github.com/mcoot/cricketstats-go/internal/dependencies/mocks"
	"github.com/mcoot/cricketstats-go/internal/gateway"
	"github.com/mcoot/cricketstats-go/internal/storage/memory"
	"github.com/mcoot/cricketstats-go/internal/testutil"
	"github.com/mcoot/cricketstats-go/internal/view"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	Memory    *memory.Storage

	// Captured console output
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestApp creates an App talking to serverURL with in-memory storage,
// a mock clock and a text console writing to buffers
func NewTestApp(serverURL string) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	console := view.NewConsole(out, errOut, view.FormatText)

	app := newWithDependencies(store, mockClock, gateway.Config{ServerURL: serverURL}, console, testutil.NopLogger())
	app.StorageType = StorageTypeMemory

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		Memory:    store,
		Out:       out,
		ErrOut:    errOut,
	}
}
