package service

import (
	"context"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter: decouples services from wailsRuntime
// ─────────────────────────────────────────────────────────────

// EventEmitter is an interface for emitting events to the frontend.
// The App struct implements this by delegating to wailsRuntime.EventsEmit.
// Services receive this interface instead of a wailsRuntime context,
// which makes them independently testable with a mock emitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Events emitted to the frontend.
const (
	EventCanvasChanged     = "canvas:changed"
	EventScrapbookOpened   = "scrapbook:opened"
	EventScrapbookSaved    = "scrapbook:saved"
	EventScrapbookClosed   = "scrapbook:closed"
	EventScrapbookExternal = "scrapbook:external-change"
	EventImportCompleted   = "import:completed"
	EventImportFailed      = "import:failed"
	EventExportCompleted   = "export:completed"
	EventAutosaveFailed    = "autosave:failed"
	EventLibraryChanged    = "library:changed"
)

// MockEmitter is a test-friendly EventEmitter that records all calls.
// Safe for use from watcher and scheduler goroutines.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Named returns the recorded emissions of one event.
func (m *MockEmitter) Named(event string) []EmittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []EmittedEvent
	for _, e := range m.Events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// NopEmitter drops every event. Used by the standalone MCP server, which has
// no frontend.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, string, any) {}
