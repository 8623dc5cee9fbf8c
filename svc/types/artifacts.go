package types

import "path/filepath"

// Artifact names as they appear under the local report folder after a
// successful run. The remote paths they are collected from belong to the
// cluster configuration, not to the session.
const (
	// ReportDirName is the dashboard report tree, copied recursively.
	ReportDirName = "report"

	// ResultsLogName is the results log produced by the distributed run.
	ResultsLogName = "results.log"

	// EngineLogName is the engine's own log file.
	EngineLogName = "jmeter.log"
)

// Artifacts resolves the local destination paths for the three collected
// artifacts under a report folder.
type Artifacts struct {
	ReportDir  string
	ResultsLog string
	EngineLog  string
}

// NewArtifacts returns the artifact destinations under reportFolder.
func NewArtifacts(reportFolder string) Artifacts {
	return Artifacts{
		ReportDir:  filepath.Join(reportFolder, ReportDirName),
		ResultsLog: filepath.Join(reportFolder, ResultsLogName),
		EngineLog:  filepath.Join(reportFolder, EngineLogName),
	}
}
