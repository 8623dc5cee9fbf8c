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

package main

import (
	"context"
	"errors"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/loadrig/loadctrl/kubernetes"
	"github.com/loadrig/loadctrl/svc/config"
	"github.com/loadrig/loadctrl/svc/orch"
	"github.com/loadrig/loadctrl/svc/store"
	"github.com/loadrig/loadctrl/svc/types"
	"github.com/loadrig/loadctrl/svc/validator"
)

// runFlags is the set of flags necessary to run a test session.
type runFlags struct {
	tenant              string
	testName            string
	reportFolder        string
	deleteTestRig       bool
	userProperties      string
	redisScript         string
	executeOnceOnMaster bool
	summaryFile         string
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run [flags] [-- engine parameters...]",
	Short: "Run a distributed test and collect its artifacts",
	Long: `Run pushes the test plan to the tenant's coordinator pod, triggers the
distributed run and retrieves the report tree, the results log and the engine
log into a local report folder. Arguments after -- are forwarded verbatim to
the engine invocation.`,
	Run: func(cmd *cobra.Command, args []string) {
		runTest(args)
	},
}

func init() {
	runCmd.Flags().StringVar(&runOpts.tenant, "tenant", "", "namespace that scopes all remote lookups")
	runCmd.Flags().StringVar(&runOpts.testName, "test-name", "", "local path to the test plan pushed to the coordinator")
	runCmd.Flags().StringVar(&runOpts.reportFolder, "report-folder", "", "local destination for artifacts (default: timestamp-derived)")
	runCmd.Flags().BoolVar(&runOpts.deleteTestRig, "delete-test-rig", true, "scale the worker set down after the run")
	runCmd.Flags().StringVar(&runOpts.userProperties, "user-properties", "", "optional properties file pushed to the coordinator before the run")
	runCmd.Flags().StringVar(&runOpts.redisScript, "redis-script", "", "optional seed script streamed to the cache before the run")
	runCmd.Flags().BoolVar(&runOpts.executeOnceOnMaster, "execute-once-on-master", false, "run the engine once on the coordinator before the distributed run")
	runCmd.Flags().StringVar(&runOpts.summaryFile, "summary-file", "", "optional path for a JSON run summary")

	rootCmd.AddCommand(runCmd)
}

func runTest(passThrough []string) {
	cfg := config.Load()

	session := types.NewSession(runOpts.tenant, types.NewTestPlan(runOpts.testName), types.Options{
		ReportFolder:       runOpts.reportFolder,
		DeleteRigAfter:     runOpts.deleteTestRig,
		UserPropertiesPath: runOpts.userProperties,
		SeedScriptPath:     runOpts.redisScript,
		InitOnCoordinator:  runOpts.executeOnceOnMaster,
		PassThroughParams:  passThrough,
	})

	v := &validator.Validator{}
	if err := v.Validate(session); err != nil {
		exit(InvalidInput, "invalid input: %v", err)
	}

	adapter, err := connect(cfg)
	if err != nil {
		exit(RemoteOperationError, "could not connect to cluster: %v", err)
	}

	log := store.NewLog()
	orchestrator := orch.NewOrchestrator(adapter, cfg, log)

	start := time.Now().UTC()
	runErr := orchestrator.Run(context.Background(), session)
	finish := time.Now().UTC()

	if runOpts.summaryFile != "" {
		summary := store.NewSummary(session.Name, session.Tenant, session.Plan.BaseName(),
			start, finish, runErr, log.Events(session.Name))
		if err := summary.Write(runOpts.summaryFile); err != nil {
			color.Yellow("could not write run summary: %v", err)
		}
	}

	if runErr != nil {
		color.Red("test run failed: %v", runErr)
		exit(exitCode(runErr), "session %v aborted", session.Name)
	}

	color.Green("test run complete, artifacts in %v", session.Options.ReportFolder)
}

// connect initializes the cluster adapter, preferring an explicit kubeconfig
// and falling back to in-cluster configuration.
func connect(cfg *config.Config) (*kubernetes.Adapter, error) {
	adapter := &kubernetes.Adapter{}

	if cfg.Kubeconfig != "" {
		if err := adapter.ConnectWithConfig(cfg.Kubeconfig); err != nil {
			return nil, err
		}
		return adapter, nil
	}

	if err := adapter.Connect(); err != nil {
		return nil, err
	}
	return adapter, nil
}

// exitCode maps an orchestration error to the binary's exit-code taxonomy.
// Only a failed coordinator discovery gets the dedicated code; every other
// remote failure shares RemoteOperationError.
func exitCode(err error) int {
	var de orch.DiscoveryError
	if errors.As(err, &de) && de.Subject == orch.SubjectCoordinator {
		return CoordinatorNotFound
	}

	var le orch.LocalIOError
	if errors.As(err, &le) {
		return InvalidInput
	}

	return RemoteOperationError
}
