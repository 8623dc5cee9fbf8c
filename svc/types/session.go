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

package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is a single orchestrated test run: the tenant that scopes all remote
// lookups, the test plan to push and the options that enable or disable the
// optional preparation steps. A session is constructed once per invocation and
// is not reused.
type Session struct {
	// Name is a globally unique identifier for the run, assigned at
	// construction time.
	Name string

	// Tenant is the namespace that scopes every remote operation. It must
	// resolve to exactly one running coordinator pod.
	Tenant string

	// Plan is the test plan definition pushed to the coordinator.
	Plan *TestPlan

	// Options holds the optional inputs of the run.
	Options Options

	// CreateTime is the timestamp when the session was constructed.
	CreateTime time.Time
}

// Options are the optional inputs of a session. The zero value disables every
// optional step and requests teardown, matching the defaults of the CLI.
type Options struct {
	// ReportFolder is the local destination for collected artifacts. When
	// empty, a timestamp-derived folder name is used.
	ReportFolder string

	// DeleteRigAfter scales the worker set down after artifact collection.
	DeleteRigAfter bool

	// UserPropertiesPath is a local properties file pushed to the
	// coordinator's configuration location before the run. Empty skips the
	// push.
	UserPropertiesPath string

	// SeedScriptPath is a local file of cache commands streamed to the cache
	// pod before the run. Empty skips seeding.
	SeedScriptPath string

	// InitOnCoordinator runs the engine once against the coordinator alone
	// before the distributed run begins.
	InitOnCoordinator bool

	// PassThroughParams are forwarded verbatim, in order, to the engine
	// invocations. They are opaque to the orchestrator.
	PassThroughParams []string
}

// NewSession creates a Session, assigning it a unique name. When the report
// folder option is empty, it is defaulted to a UTC-timestamp-derived name so
// repeated runs never collide on the local filesystem.
func NewSession(tenant string, plan *TestPlan, opts Options) *Session {
	now := time.Now().UTC()

	if opts.ReportFolder == "" {
		opts.ReportFolder = DefaultReportFolder(now)
	}

	return &Session{
		Name:       fmt.Sprintf("runs/%s", uuid.New().String()),
		Tenant:     tenant,
		Plan:       plan,
		Options:    opts,
		CreateTime: now,
	}
}

// DefaultReportFolder derives a report folder name from a timestamp.
func DefaultReportFolder(t time.Time) string {
	return fmt.Sprintf("report-%s", t.UTC().Format("20060102-150405"))
}
