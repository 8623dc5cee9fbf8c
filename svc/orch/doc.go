// Package orch contains the test-run orchestrator. It sequences a fixed set
// of remote operations against one discovered coordinator pod and collects the
// result artifacts afterward.
package orch
