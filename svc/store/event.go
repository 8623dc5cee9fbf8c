package store

import (
	"time"
)

// Event represents a step transition that occurred at a specific point in time
// during a test run. Events are designed to be chained together to create a
// log of all significant points in time during the run.
type Event struct {
	// Kind is the type of event.
	Kind EventKind

	// Time is the timestamp when the event was recorded.
	Time time.Time

	// Description is a human-readable note about the step, such as the
	// discovered pod name or the failed command.
	Description string

	// Error allows the event to attach a specific implementation of the error
	// interface. It is only included when Kind is Error.
	Error error
}

// EventKind specifies the type of event. Every kind maps to one step of the
// orchestration sequence.
type EventKind int32

const (
	// Unknown signifies a state that was not foreseen. It should never be
	// seen in production.
	Unknown EventKind = iota

	// Discover indicates the coordinator pod lookup.
	Discover

	// Prepare indicates the optional user-properties push.
	Prepare

	// Seed indicates the optional cache seeding.
	Seed

	// Init indicates the optional coordinator-only engine pass.
	Init

	// Run indicates the distributed run invocation.
	Run

	// Collect indicates artifact retrieval into the report folder.
	Collect

	// Teardown indicates the worker set being scaled down.
	Teardown

	// Error indicates that a fatal error aborted the sequence.
	Error
)

// String returns the string representation of the EventKind.
func (e EventKind) String() string {
	return eventKindNames[e]
}

var eventKindNames = map[EventKind]string{
	Unknown:  "UNKNOWN",
	Discover: "DISCOVER",
	Prepare:  "PREPARE",
	Seed:     "SEED",
	Init:     "INIT",
	Run:      "RUN",
	Collect:  "COLLECT",
	Teardown: "TEARDOWN",
	Error:    "ERROR",
}

// EventRecorder implementations save events.
type EventRecorder interface {
	// Record affiliates an event with a particular session name and saves it.
	Record(sessionName string, e Event)
}
