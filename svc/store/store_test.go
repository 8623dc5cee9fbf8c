package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLogRecordsInOrder(t *testing.T) {
	log := NewLog()

	kinds := []EventKind{Discover, Run, Collect, Teardown}
	for _, kind := range kinds {
		log.Record("runs/abc", Event{Kind: kind, Time: time.Now()})
	}
	log.Record("runs/other", Event{Kind: Error, Time: time.Now()})

	events := log.Events("runs/abc")
	if len(events) != len(kinds) {
		t.Fatalf("recorded %v events, expected %v", len(events), len(kinds))
	}
	for i, kind := range kinds {
		if events[i].Kind != kind {
			t.Errorf("event %v was %v, expected %v", i, events[i].Kind, kind)
		}
	}

	if n := len(log.Events("runs/unknown")); n != 0 {
		t.Errorf("unknown session returned %v events, expected none", n)
	}
}

func TestEventKindString(t *testing.T) {
	cases := []struct {
		kind     EventKind
		expected string
	}{
		{kind: Discover, expected: "DISCOVER"},
		{kind: Seed, expected: "SEED"},
		{kind: Teardown, expected: "TEARDOWN"},
		{kind: Error, expected: "ERROR"},
	}

	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.expected {
			t.Errorf("String() = %q, expected %q", got, tc.expected)
		}
	}
}

func TestSummaryWrite(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	finish := start.Add(10 * time.Minute)

	events := []Event{
		{Kind: Discover, Time: start, Description: "coordinator jmeter-master-0"},
		{Kind: Error, Time: finish, Error: errors.New("remote command failed")},
	}

	summary := NewSummary("runs/abc", "perf", "spike.jmx", start, finish,
		errors.New("remote command failed"), events)

	path := filepath.Join(t.TempDir(), "run.json")
	if err := summary.Write(path); err != nil {
		t.Fatalf("write returned unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("could not read summary back: %v", err)
	}

	var decoded Summary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("summary is not valid JSON: %v", err)
	}

	if decoded.Session != "runs/abc" || decoded.Tenant != "perf" {
		t.Errorf("decoded summary identifies %v/%v, expected runs/abc/perf", decoded.Session, decoded.Tenant)
	}
	if decoded.Succeeded {
		t.Error("summary reports success for a failed run")
	}
	if len(decoded.Steps) != 2 {
		t.Fatalf("decoded %v steps, expected 2", len(decoded.Steps))
	}
	if decoded.Steps[1].Kind != "ERROR" || decoded.Steps[1].Error == "" {
		t.Errorf("error step not preserved: %+v", decoded.Steps[1])
	}
}
