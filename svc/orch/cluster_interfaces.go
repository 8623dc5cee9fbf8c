package orch

import (
	"context"
	"io"
)

type podFinder interface {
	FindPods(ctx context.Context, namespace, selector string) ([]string, error)
}

type fileCopier interface {
	CopyToPod(ctx context.Context, namespace, pod, container, localPath, remotePath string) error
	CopyFromPod(ctx context.Context, namespace, pod, container, remotePath, localPath string) error
}

type remoteRunner interface {
	Exec(ctx context.Context, namespace, pod, container string, command []string, stdin io.Reader) ([]byte, error)
}

type workerScaler interface {
	ScaleWorkers(ctx context.Context, namespace, deployment string, replicas int32) error
}

// Cluster is the control-plane surface the orchestrator needs. It is
// implemented by the kubernetes.Adapter for production and by fakes in tests.
type Cluster interface {
	podFinder
	fileCopier
	remoteRunner
	workerScaler
}
