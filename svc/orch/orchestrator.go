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

import (
	"context"
	"os"
	"path"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/loadrig/loadctrl/svc/config"
	"github.com/loadrig/loadctrl/svc/store"
	"github.com/loadrig/loadctrl/svc/types"
)

// Orchestrator runs sessions against a discovered coordinator pod. Every step
// is a blocking remote call; the first failure aborts the remaining sequence
// and is returned to the caller. There are no retries. An orchestrator assumes
// exclusive ownership of the coordinator for the duration of a run.
type Orchestrator struct {
	cluster  Cluster
	cfg      *config.Config
	recorder store.EventRecorder
}

// NewOrchestrator constructs an Orchestrator. A nil recorder disables event
// recording.
func NewOrchestrator(cluster Cluster, cfg *config.Config, recorder store.EventRecorder) *Orchestrator {
	return &Orchestrator{
		cluster:  cluster,
		cfg:      cfg,
		recorder: recorder,
	}
}

// Run executes the session's orchestration sequence: discover the coordinator,
// run the optional preparation steps, push the test plan, trigger the
// distributed run, collect the artifacts and, if requested, scale the worker
// set down. Collection happens only after the run command has returned, and
// teardown only after all three artifacts are local.
func (o *Orchestrator) Run(ctx context.Context, session *types.Session) error {
	coordinator, err := o.discover(ctx, session)
	if err != nil {
		return o.fail(session, err)
	}

	if err := o.pushUserProperties(ctx, session, coordinator); err != nil {
		return o.fail(session, err)
	}

	if err := o.seedCache(ctx, session); err != nil {
		return o.fail(session, err)
	}

	if err := o.initOnCoordinator(ctx, session, coordinator); err != nil {
		return o.fail(session, err)
	}

	if err := o.pushPlan(ctx, session, coordinator); err != nil {
		return o.fail(session, err)
	}

	if err := o.runDistributed(ctx, session, coordinator); err != nil {
		return o.fail(session, err)
	}

	if err := o.collect(ctx, session, coordinator); err != nil {
		return o.fail(session, err)
	}

	if err := o.teardown(ctx, session); err != nil {
		return o.fail(session, err)
	}

	glog.Infof("orchestrator: session %v completed, artifacts in %v", session.Name, session.Options.ReportFolder)
	return nil
}

// discover resolves the tenant's coordinator pod. Zero or multiple matches
// abort the run before any remote copy occurs.
func (o *Orchestrator) discover(ctx context.Context, session *types.Session) (string, error) {
	selector := o.cfg.CoordinatorSelector

	names, err := o.cluster.FindPods(ctx, session.Tenant, selector)
	if err != nil {
		return "", DiscoveryError{Subject: SubjectCoordinator, Selector: selector, Err: err}
	}

	if len(names) != 1 {
		return "", DiscoveryError{Subject: SubjectCoordinator, Selector: selector, Matches: len(names)}
	}

	coordinator := stripKind(names[0])
	glog.Infof("orchestrator: discovered coordinator %v in %v", coordinator, session.Tenant)
	o.record(session, store.Discover, "coordinator "+coordinator)
	return coordinator, nil
}

// pushUserProperties pushes the optional configuration file to the
// coordinator. An empty path skips the step cleanly.
func (o *Orchestrator) pushUserProperties(ctx context.Context, session *types.Session, coordinator string) error {
	src := session.Options.UserPropertiesPath
	if src == "" {
		return nil
	}

	dest := o.cfg.UserPropertiesDest
	glog.Infof("orchestrator: pushing user properties %v to %v:%v", src, coordinator, dest)

	if err := o.cluster.CopyToPod(ctx, session.Tenant, coordinator, o.cfg.CoordinatorContainer, src, dest); err != nil {
		return TransferError{Step: "push user properties", Source: src, Dest: coordinator + ":" + dest, Err: err}
	}

	o.record(session, store.Prepare, "pushed "+src)
	return nil
}

// seedCache streams the optional seed script into the cache-seeding command
// running in the cache pod. An empty path skips the step cleanly.
func (o *Orchestrator) seedCache(ctx context.Context, session *types.Session) error {
	src := session.Options.SeedScriptPath
	if src == "" {
		return nil
	}

	selector := o.cfg.CacheSelector
	names, err := o.cluster.FindPods(ctx, session.Tenant, selector)
	if err != nil {
		return DiscoveryError{Subject: SubjectCache, Selector: selector, Err: err}
	}
	if len(names) != 1 {
		return DiscoveryError{Subject: SubjectCache, Selector: selector, Matches: len(names)}
	}
	cachePod := stripKind(names[0])

	script, err := os.ReadFile(src)
	if err != nil {
		return LocalIOError{Path: src, Err: err}
	}

	command := o.cfg.SeedCommand
	glog.Infof("orchestrator: seeding cache pod %v from %v", cachePod, src)

	output, err := o.cluster.Exec(ctx, session.Tenant, cachePod, o.cfg.CacheContainer, command, strings.NewReader(seedStream(script)))
	if err != nil {
		return RemoteExecError{Step: "seed cache", Command: command, Output: output, Err: err}
	}

	o.record(session, store.Seed, "seeded from "+src)
	return nil
}

// initOnCoordinator optionally runs the engine once against the coordinator
// alone, forwarding the pass-through parameters plus the coordinator-only
// flag. The distributed run does not start until this invocation returns.
func (o *Orchestrator) initOnCoordinator(ctx context.Context, session *types.Session, coordinator string) error {
	if !session.Options.InitOnCoordinator {
		return nil
	}

	command := o.runnerCommand(session)
	command = append(command, o.cfg.CoordinatorOnlyFlag)

	glog.Infof("orchestrator: running init pass on coordinator %v: %v", coordinator, command)

	output, err := o.cluster.Exec(ctx, session.Tenant, coordinator, o.cfg.CoordinatorContainer, command, nil)
	if err != nil {
		return RemoteExecError{Step: "init on coordinator", Command: command, Output: output, Err: err}
	}

	o.record(session, store.Init, "init pass completed")
	return nil
}

// pushPlan pushes the test plan to the engine home. Only the base name of the
// plan is used remotely.
func (o *Orchestrator) pushPlan(ctx context.Context, session *types.Session, coordinator string) error {
	src := session.Plan.LocalPath
	dest := path.Join(o.cfg.EngineHome, session.Plan.BaseName())

	glog.Infof("orchestrator: pushing test plan %v to %v:%v", src, coordinator, dest)

	if err := o.cluster.CopyToPod(ctx, session.Tenant, coordinator, o.cfg.CoordinatorContainer, src, dest); err != nil {
		return TransferError{Step: "push test plan", Source: src, Dest: coordinator + ":" + dest, Err: err}
	}

	o.record(session, store.Prepare, "pushed plan "+session.Plan.BaseName())
	return nil
}

// runDistributed triggers the distributed run through the remote wrapper and
// blocks until it returns.
func (o *Orchestrator) runDistributed(ctx context.Context, session *types.Session, coordinator string) error {
	command := o.runnerCommand(session)

	glog.Infof("orchestrator: starting distributed run on %v: %v", coordinator, command)
	o.record(session, store.Run, strings.Join(command, " "))

	output, err := o.cluster.Exec(ctx, session.Tenant, coordinator, o.cfg.CoordinatorContainer, command, nil)
	if err != nil {
		return RemoteExecError{Step: "distributed run", Command: command, Output: output, Err: err}
	}

	return nil
}

// collect retrieves the report tree, results log and engine log into the
// session's report folder. All three must be local before teardown may run.
func (o *Orchestrator) collect(ctx context.Context, session *types.Session, coordinator string) error {
	folder := session.Options.ReportFolder
	if err := os.MkdirAll(folder, 0755); err != nil {
		return LocalIOError{Path: folder, Err: err}
	}

	artifacts := types.NewArtifacts(folder)
	pulls := []struct {
		remote string
		local  string
	}{
		{o.cfg.RemoteReportDir, artifacts.ReportDir},
		{o.cfg.RemoteResultsLog, artifacts.ResultsLog},
		{o.cfg.RemoteEngineLog, artifacts.EngineLog},
	}

	for _, pull := range pulls {
		glog.Infof("orchestrator: collecting %v:%v into %v", coordinator, pull.remote, pull.local)

		if err := o.cluster.CopyFromPod(ctx, session.Tenant, coordinator, o.cfg.CoordinatorContainer, pull.remote, pull.local); err != nil {
			return TransferError{Step: "collect artifacts", Source: coordinator + ":" + pull.remote, Dest: pull.local, Err: err}
		}
	}

	o.record(session, store.Collect, "artifacts in "+folder)
	return nil
}

// teardown scales the worker set to zero when the session asks for it.
func (o *Orchestrator) teardown(ctx context.Context, session *types.Session) error {
	if !session.Options.DeleteRigAfter {
		return nil
	}

	deployment := o.cfg.WorkerDeployment
	glog.Infof("orchestrator: scaling worker deployment %v in %v to zero", deployment, session.Tenant)

	if err := o.cluster.ScaleWorkers(ctx, session.Tenant, deployment, 0); err != nil {
		return RemoteExecError{Step: "teardown", Command: []string{"scale", deployment, "0"}, Err: err}
	}

	o.record(session, store.Teardown, "scaled "+deployment+" to 0")
	return nil
}

// runnerCommand builds the remote wrapper invocation: wrapper path, plan base
// name, then the pass-through parameters in their original order.
func (o *Orchestrator) runnerCommand(session *types.Session) []string {
	command := []string{o.cfg.RunnerPath, session.Plan.BaseName()}
	return append(command, session.Options.PassThroughParams...)
}

func (o *Orchestrator) record(session *types.Session, kind store.EventKind, description string) {
	if o.recorder == nil {
		return
	}

	o.recorder.Record(session.Name, store.Event{
		Kind:        kind,
		Time:        time.Now(),
		Description: description,
	})
}

func (o *Orchestrator) fail(session *types.Session, err error) error {
	glog.Errorf("orchestrator: session %v aborted: %v", session.Name, err)

	if o.recorder != nil {
		o.recorder.Record(session.Name, store.Event{
			Kind:  store.Error,
			Time:  time.Now(),
			Error: err,
		})
	}

	return err
}

// stripKind reduces identifiers of the form <kind>/<name> to <name>. Plain
// pod names pass through unchanged.
func stripKind(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}

// seedStream normalizes the seed script into a newline-terminated stream of
// commands: carriage returns are dropped and blank lines removed, so the
// cache-seeding command sees one command per line.
func seedStream(script []byte) string {
	var lines []string
	for _, line := range strings.Split(string(script), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
