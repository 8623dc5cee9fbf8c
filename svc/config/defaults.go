package config

const (
	// DefaultCoordinatorSelector matches the rig's master pod.
	DefaultCoordinatorSelector = "app=jmeter,jmeter_mode=master"
	// DefaultCacheSelector matches the cache pod used for seeding.
	DefaultCacheSelector = "app=redis"
	// DefaultCoordinatorContainer is empty so execs address the coordinator
	// pod's default container.
	DefaultCoordinatorContainer = ""
	// DefaultCacheContainer is empty so execs address the cache pod's default
	// container.
	DefaultCacheContainer = ""
	// DefaultWorkerDeployment is the deployment owning the worker pods.
	DefaultWorkerDeployment = "jmeter-slaves"
	// DefaultEngineHome is the engine's working directory on the coordinator.
	DefaultEngineHome = "/jmeter"
	// DefaultRunnerPath is the remote wrapper that triggers the distributed run.
	DefaultRunnerPath = "/jmeter/load_test"
	// DefaultCoordinatorOnlyFlag restricts an engine invocation to the coordinator.
	DefaultCoordinatorOnlyFlag = "--master-only"
	// DefaultUserPropertiesDest is where the optional properties file lands.
	DefaultUserPropertiesDest = "/jmeter/apache-jmeter/bin/user.properties"
	// DefaultRemoteReportDir is the dashboard report tree produced by a run.
	DefaultRemoteReportDir = "/jmeter/report"
	// DefaultRemoteResultsLog is the results log produced by a run.
	DefaultRemoteResultsLog = "/jmeter/results.log"
	// DefaultRemoteEngineLog is the engine's own log file.
	DefaultRemoteEngineLog = "/jmeter/jmeter.log"
)

// DefaultSeedCommand is the command the seed script is streamed into. A fresh
// slice is returned so callers can append without sharing backing arrays.
func DefaultSeedCommand() []string {
	return []string{"redis-cli", "--pipe"}
}
