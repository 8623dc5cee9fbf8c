// Copyright 2024 loadctrl authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orch

import "fmt"

// SubjectCoordinator and SubjectCache name the pods discovery can fail on.
// Only a coordinator discovery failure maps to the dedicated exit code.
const (
	SubjectCoordinator = "coordinator"
	SubjectCache       = "cache"
)

// DiscoveryError indicates that pod discovery did not resolve to exactly one
// running pod, or that the lookup itself failed.
type DiscoveryError struct {
	// Subject is what was being discovered, SubjectCoordinator or SubjectCache.
	Subject string

	// Selector is the label selector used for the lookup.
	Selector string

	// Matches is the number of running pods that matched.
	Matches int

	// Err is the underlying lookup error, nil when the lookup succeeded but
	// matched the wrong number of pods.
	Err error
}

// Error returns a string representation of the discovery error.
func (e DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not discover %v with selector %q: %v", e.Subject, e.Selector, e.Err)
	}

	if e.Matches == 0 {
		return fmt.Sprintf("%v not found: no running pod matches selector %q", e.Subject, e.Selector)
	}

	return fmt.Sprintf("expected exactly one %v pod for selector %q, found %v", e.Subject, e.Selector, e.Matches)
}

// TransferError indicates that a file push or pull between the local
// filesystem and a pod failed.
type TransferError struct {
	// Step names the orchestration step the transfer belonged to.
	Step string

	// Source and Dest describe the endpoints of the failed transfer.
	Source string
	Dest   string

	// Err is the underlying transfer error.
	Err error
}

// Error returns a string representation of the transfer error.
func (e TransferError) Error() string {
	return fmt.Sprintf("%v: could not transfer %v to %v: %v", e.Step, e.Source, e.Dest, e.Err)
}

// RemoteExecError indicates that a remote command returned a non-zero exit or
// could not be started.
type RemoteExecError struct {
	// Step names the orchestration step the command belonged to.
	Step string

	// Command is the remote command line.
	Command []string

	// Output is the captured combined output, possibly empty.
	Output []byte

	// Err is the underlying exec error.
	Err error
}

// Error returns a string representation of the exec error.
func (e RemoteExecError) Error() string {
	return fmt.Sprintf("%v: remote command %v failed: %v", e.Step, e.Command, e.Err)
}

// LocalIOError indicates a local filesystem failure, such as the report folder
// not being creatable.
type LocalIOError struct {
	// Path is the local path the operation failed on.
	Path string

	// Err is the underlying filesystem error.
	Err error
}

// Error returns a string representation of the local I/O error.
func (e LocalIOError) Error() string {
	return fmt.Sprintf("local i/o failed on %v: %v", e.Path, e.Err)
}
