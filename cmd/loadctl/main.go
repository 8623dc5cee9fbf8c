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

// loadctl drives a distributed load-test rig running on a Kubernetes cluster:
// it pushes a test plan to the rig's coordinator pod, triggers the distributed
// run and retrieves the result artifacts.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.2.0"

// Exit codes of the loadctl binary.
const (
	Success int = iota
	CoordinatorNotFound
	RemoteOperationError
	InvalidInput
)

var rootCmd = &cobra.Command{
	Use:     "loadctl",
	Short:   "Orchestrate distributed load-test runs on a Kubernetes test rig",
	Version: version,
}

func init() {
	// glog registers its flags (-v, -logtostderr, ...) on the standard flag
	// set; surface them on the CLI.
	rootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
}

func exit(code int, messageFmt string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, messageFmt+"\n", args...)
	os.Exit(code)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exit(InvalidInput, "%v", err)
	}
}
