package orch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/loadrig/loadctrl/svc/config"
)

// testConfig returns a config with the built-in defaults, bypassing the
// environment so tests are hermetic.
func testConfig() *config.Config {
	return &config.Config{
		CoordinatorSelector: config.DefaultCoordinatorSelector,
		CacheSelector:       config.DefaultCacheSelector,
		WorkerDeployment:    config.DefaultWorkerDeployment,
		EngineHome:          config.DefaultEngineHome,
		RunnerPath:          config.DefaultRunnerPath,
		CoordinatorOnlyFlag: config.DefaultCoordinatorOnlyFlag,
		UserPropertiesDest:  config.DefaultUserPropertiesDest,
		SeedCommand:         config.DefaultSeedCommand(),
		RemoteReportDir:     config.DefaultRemoteReportDir,
		RemoteResultsLog:    config.DefaultRemoteResultsLog,
		RemoteEngineLog:     config.DefaultRemoteEngineLog,
	}
}

// remoteCall records one operation observed by the fake cluster.
type remoteCall struct {
	op        string
	pod       string
	container string
	command   []string
	source    string
	dest      string
}

// fakeCluster implements Cluster against in-memory state. Discovery answers
// come from the pods map, keyed by selector. CopyFromPod materializes local
// files so collection can be asserted against the filesystem. Setting failOp
// to an op name makes that operation fail.
type fakeCluster struct {
	pods   map[string][]string
	calls  []remoteCall
	stdins []string
	failOp string
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		pods: make(map[string][]string),
	}
}

func (f *fakeCluster) FindPods(ctx context.Context, namespace, selector string) ([]string, error) {
	f.calls = append(f.calls, remoteCall{op: "FindPods", source: selector})
	if f.failOp == "FindPods" {
		return nil, errors.New("injected list failure")
	}
	return f.pods[selector], nil
}

func (f *fakeCluster) CopyToPod(ctx context.Context, namespace, pod, container, localPath, remotePath string) error {
	f.calls = append(f.calls, remoteCall{op: "CopyToPod", pod: pod, container: container, source: localPath, dest: remotePath})
	if f.failOp == "CopyToPod" {
		return errors.New("injected push failure")
	}
	return nil
}

func (f *fakeCluster) CopyFromPod(ctx context.Context, namespace, pod, container, remotePath, localPath string) error {
	f.calls = append(f.calls, remoteCall{op: "CopyFromPod", pod: pod, container: container, source: remotePath, dest: localPath})
	if f.failOp == "CopyFromPod" {
		return errors.New("injected pull failure")
	}

	if filepath.Ext(remotePath) == "" {
		if err := os.MkdirAll(localPath, 0755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(localPath, "index.html"), []byte("<html/>"), 0644)
	}

	return os.WriteFile(localPath, []byte(fmt.Sprintf("contents of %v", remotePath)), 0644)
}

func (f *fakeCluster) Exec(ctx context.Context, namespace, pod, container string, command []string, stdin io.Reader) ([]byte, error) {
	var in []byte
	if stdin != nil {
		in, _ = io.ReadAll(stdin)
	}
	f.stdins = append(f.stdins, string(in))
	f.calls = append(f.calls, remoteCall{op: "Exec", pod: pod, container: container, command: command})

	if f.failOp == "Exec" {
		return []byte("remote stderr"), errors.New("injected exec failure")
	}
	return nil, nil
}

func (f *fakeCluster) ScaleWorkers(ctx context.Context, namespace, deployment string, replicas int32) error {
	f.calls = append(f.calls, remoteCall{op: "ScaleWorkers", dest: fmt.Sprintf("%v=%v", deployment, replicas)})
	if f.failOp == "ScaleWorkers" {
		return errors.New("injected scale failure")
	}
	return nil
}

// ops returns the op names of all recorded calls, in order.
func (f *fakeCluster) ops() []string {
	var ops []string
	for _, c := range f.calls {
		ops = append(ops, c.op)
	}
	return ops
}

// opCalls returns the recorded calls for one op, in order.
func (f *fakeCluster) opCalls(op string) []remoteCall {
	var calls []remoteCall
	for _, c := range f.calls {
		if c.op == op {
			calls = append(calls, c)
		}
	}
	return calls
}
