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

package kubernetes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/remotecommand"
)

// executor returns the stream executor for an exec request. Tests inject
// newExecutor; production falls through to the SPDY implementation.
func (a *Adapter) executor(method string, u *url.URL) (remotecommand.Executor, error) {
	if a.newExecutor != nil {
		return a.newExecutor(a.config, method, u)
	}
	return remotecommand.NewSPDYExecutor(a.config, method, u)
}

func (a *Adapter) execRequest(namespace, pod, container string, command []string, stdin, stdout bool) *url.URL {
	return a.clientset.CoreV1().RESTClient().Post().
		Resource("pods").
		Name(pod).
		Namespace(namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: container,
			Command:   command,
			Stdin:     stdin,
			Stdout:    stdout,
			Stderr:    true,
		}, scheme.ParameterCodec).
		URL()
}

// Exec runs a command in the pod, blocking until it completes. An empty
// container selects the pod's default container. The captured stdout followed
// by the captured stderr is returned in both the success and the failure case,
// so callers can surface remote output alongside a non-zero exit. The two
// streams are buffered separately because the stream protocol copies them in
// separate goroutines. A nil stdin is allowed.
func (a *Adapter) Exec(ctx context.Context, namespace, pod, container string, command []string, stdin io.Reader) ([]byte, error) {
	u := a.execRequest(namespace, pod, container, command, stdin != nil, true)

	exec, err := a.executor("POST", u)
	if err != nil {
		return nil, fmt.Errorf("could not create executor for pod %v: %v", pod, err)
	}

	var stdout, stderr bytes.Buffer
	streamErr := exec.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdin:  stdin,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	output := append(stdout.Bytes(), stderr.Bytes()...)
	if streamErr != nil {
		return output, fmt.Errorf("exec %v in pod %v failed: %v", command, pod, streamErr)
	}

	return output, nil
}

// execStreams runs a command with caller-owned stdin and stdout streams. It
// backs the tar-based file transfer, where one side of the exec is a pipe.
func (a *Adapter) execStreams(ctx context.Context, namespace, pod, container string, command []string, stdin io.Reader, stdout io.Writer) error {
	u := a.execRequest(namespace, pod, container, command, stdin != nil, stdout != nil)

	exec, err := a.executor("POST", u)
	if err != nil {
		return fmt.Errorf("could not create executor for pod %v: %v", pod, err)
	}

	var stderr bytes.Buffer
	if err := exec.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: &stderr,
	}); err != nil {
		return fmt.Errorf("exec %v in pod %v failed: %v (stderr: %s)", command, pod, err, stderr.Bytes())
	}

	return nil
}

// executorFactory creates stream executors for exec requests.
type executorFactory func(config *rest.Config, method string, u *url.URL) (remotecommand.Executor, error)
