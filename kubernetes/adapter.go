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

// Package kubernetes adapts the cluster control plane for the orchestrator:
// pod discovery, file transfer over exec streams, remote command execution and
// worker scaling.
package kubernetes

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Adapter wraps a Kubernetes clientset and its REST config. The REST config is
// retained because exec streams dial the API server directly rather than going
// through the typed client.
type Adapter struct {
	clientset kubernetes.Interface
	config    *rest.Config

	// newExecutor overrides the SPDY executor in tests.
	newExecutor executorFactory
}

// Connect initializes the adapter with in-cluster configuration.
func (a *Adapter) Connect() error {
	config, err := rest.InClusterConfig()
	if err != nil {
		return fmt.Errorf("could not load in-cluster config: %v", err)
	}

	return a.connect(config)
}

// ConnectWithConfig initializes the adapter from a kubeconfig file.
func (a *Adapter) ConnectWithConfig(kubeconfig string) error {
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return fmt.Errorf("could not load kubeconfig %v: %v", kubeconfig, err)
	}

	return a.connect(config)
}

func (a *Adapter) connect(config *rest.Config) error {
	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return fmt.Errorf("could not create clientset: %v", err)
	}

	a.clientset = clientset
	a.config = config
	return nil
}

// FindPods returns the names of all running pods in the namespace that match
// the label selector. Callers that need exactly-one semantics enforce them on
// the returned slice.
func (a *Adapter) FindPods(ctx context.Context, namespace, selector string) ([]string, error) {
	podList, err := a.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector,
	})
	if err != nil {
		return nil, fmt.Errorf("could not list pods with selector %q in %v: %v", selector, namespace, err)
	}

	var names []string
	for _, pod := range podList.Items {
		if pod.Status.Phase == corev1.PodRunning {
			names = append(names, pod.Name)
		}
	}

	return names, nil
}
