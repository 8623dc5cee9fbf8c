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

import "path/filepath"

// TestPlan references the test definition file supplied by the caller. Only
// the base name is used remotely, so a plan at /home/op/plans/spike.jmx runs
// as spike.jmx on the coordinator.
type TestPlan struct {
	// LocalPath is the caller-supplied path to the test definition.
	LocalPath string
}

// NewTestPlan creates a TestPlan for the file at path.
func NewTestPlan(path string) *TestPlan {
	return &TestPlan{LocalPath: path}
}

// BaseName returns the file name of the plan without any directory prefix.
// This is the name the plan is known by on the coordinator.
func (p *TestPlan) BaseName() string {
	return filepath.Base(p.LocalPath)
}
