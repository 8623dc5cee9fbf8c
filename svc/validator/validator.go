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

// Package validator checks sessions before any remote operation runs, so a
// bad invocation fails locally instead of leaving a half-prepared rig behind.
package validator

import (
	"errors"
	"fmt"
	"os"

	"github.com/loadrig/loadctrl/svc/types"
)

// Validator validates sessions. The zero value is ready to use.
type Validator struct{}

// Validate returns an error describing the first problem found with the
// session: a missing tenant, an unreadable test plan or an optional input
// that names a file which does not exist.
func (v *Validator) Validate(session *types.Session) error {
	if session == nil {
		return errors.New("session is required, but missing")
	}

	if session.Tenant == "" {
		return errors.New("a tenant is required to scope remote lookups, but missing")
	}

	if session.Plan == nil || session.Plan.LocalPath == "" {
		return errors.New("a test plan is required, but missing")
	}

	if err := checkFile("test plan", session.Plan.LocalPath); err != nil {
		return err
	}

	if path := session.Options.UserPropertiesPath; path != "" {
		if err := checkFile("user properties file", path); err != nil {
			return err
		}
	}

	if path := session.Options.SeedScriptPath; path != "" {
		if err := checkFile("seed script", path); err != nil {
			return err
		}
	}

	return nil
}

// checkFile verifies that path names an existing, regular file.
func checkFile(label, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("could not read %v at %v: %v", label, path, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%v at %v is a directory, expected a file", label, path)
	}

	return nil
}
