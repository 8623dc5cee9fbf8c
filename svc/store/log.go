package store

import (
	"sync"
)

// Log is an in-memory EventRecorder. It keeps events in insertion order per
// session and is safe for use across goroutines. A Log must be instantiated
// with NewLog.
type Log struct {
	events map[string][]Event
	mux    sync.Mutex
}

// NewLog creates a Log, allocating its internal map which does not work when
// zeroed.
func NewLog() *Log {
	return &Log{
		events: make(map[string][]Event),
	}
}

// Record appends the event to the session's log.
func (l *Log) Record(sessionName string, e Event) {
	l.mux.Lock()
	defer l.mux.Unlock()
	l.events[sessionName] = append(l.events[sessionName], e)
}

// Events returns a copy of the events recorded for a session, in the order
// they were recorded.
func (l *Log) Events(sessionName string) []Event {
	l.mux.Lock()
	defer l.mux.Unlock()

	recorded := l.events[sessionName]
	events := make([]Event, len(recorded))
	copy(events, recorded)
	return events
}
