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

package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the cluster-facing settings of the orchestrator: where to find
// the rig's pods and where the engine keeps its files inside the coordinator.
// Values come from built-in defaults, overridden by environment variables,
// optionally loaded from a .env file. The struct is populated once by Load and
// not mutated afterwards.
type Config struct {
	// Kubeconfig is the path to a kubeconfig file. Empty selects in-cluster
	// configuration.
	Kubeconfig string

	// CoordinatorSelector is the label selector that identifies the rig's
	// coordinator pod within the tenant namespace.
	CoordinatorSelector string

	// CacheSelector is the label selector that identifies the cache pod used
	// for seeding.
	CacheSelector string

	// CoordinatorContainer is the container addressed inside the coordinator
	// pod. Empty selects the pod's default container.
	CoordinatorContainer string

	// CacheContainer is the container addressed inside the cache pod. Empty
	// selects the pod's default container.
	CacheContainer string

	// WorkerDeployment is the name of the deployment that owns the rig's
	// worker pods. Teardown scales it to zero.
	WorkerDeployment string

	// EngineHome is the engine's working directory on the coordinator. The
	// test plan is pushed here.
	EngineHome string

	// RunnerPath is the remote wrapper executable that triggers the
	// distributed run.
	RunnerPath string

	// CoordinatorOnlyFlag is appended to the engine invocation to restrict it
	// to the coordinator during the optional init pass.
	CoordinatorOnlyFlag string

	// UserPropertiesDest is the remote destination of the optional
	// user-properties file.
	UserPropertiesDest string

	// SeedCommand is the command line the seed script is streamed into,
	// executed in the cache pod.
	SeedCommand []string

	// RemoteReportDir, RemoteResultsLog and RemoteEngineLog are the fixed
	// remote paths the artifacts are collected from.
	RemoteReportDir  string
	RemoteResultsLog string
	RemoteEngineLog  string
}

// Load builds a Config from defaults and environment variables. A .env file
// in the working directory is honored when present; a missing file is not an
// error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Kubeconfig:           envOr("LOADCTRL_KUBECONFIG", os.Getenv("KUBECONFIG")),
		CoordinatorSelector:  envOr("LOADCTRL_COORDINATOR_SELECTOR", DefaultCoordinatorSelector),
		CacheSelector:        envOr("LOADCTRL_CACHE_SELECTOR", DefaultCacheSelector),
		CoordinatorContainer: envOr("LOADCTRL_COORDINATOR_CONTAINER", DefaultCoordinatorContainer),
		CacheContainer:       envOr("LOADCTRL_CACHE_CONTAINER", DefaultCacheContainer),
		WorkerDeployment:     envOr("LOADCTRL_WORKER_DEPLOYMENT", DefaultWorkerDeployment),
		EngineHome:           envOr("LOADCTRL_ENGINE_HOME", DefaultEngineHome),
		RunnerPath:           envOr("LOADCTRL_RUNNER_PATH", DefaultRunnerPath),
		CoordinatorOnlyFlag:  envOr("LOADCTRL_COORDINATOR_ONLY_FLAG", DefaultCoordinatorOnlyFlag),
		UserPropertiesDest:   envOr("LOADCTRL_USER_PROPERTIES_DEST", DefaultUserPropertiesDest),
		SeedCommand:          DefaultSeedCommand(),
		RemoteReportDir:      envOr("LOADCTRL_REMOTE_REPORT_DIR", DefaultRemoteReportDir),
		RemoteResultsLog:     envOr("LOADCTRL_REMOTE_RESULTS_LOG", DefaultRemoteResultsLog),
		RemoteEngineLog:      envOr("LOADCTRL_REMOTE_ENGINE_LOG", DefaultRemoteEngineLog),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
