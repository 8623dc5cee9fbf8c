package kubernetes

import (
	"context"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func newPod(name, namespace string, labels map[string]string, phase corev1.PodPhase) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    labels,
		},
		Status: corev1.PodStatus{Phase: phase},
	}
}

func TestAdapterFindPods(t *testing.T) {
	masterLabels := map[string]string{"app": "jmeter", "jmeter_mode": "master"}
	workerLabels := map[string]string{"app": "jmeter", "jmeter_mode": "slave"}

	clientset := fake.NewSimpleClientset(
		newPod("jmeter-master-0", "perf", masterLabels, corev1.PodRunning),
		newPod("jmeter-slaves-abc", "perf", workerLabels, corev1.PodRunning),
		newPod("jmeter-master-0", "staging", masterLabels, corev1.PodRunning),
		newPod("jmeter-master-old", "perf", masterLabels, corev1.PodSucceeded),
	)

	a := &Adapter{clientset: clientset}

	names, err := a.FindPods(context.Background(), "perf", "app=jmeter,jmeter_mode=master")
	if err != nil {
		t.Fatalf("returned unexpected error: %v", err)
	}

	if len(names) != 1 || names[0] != "jmeter-master-0" {
		t.Errorf("found %v, expected only the running master in perf", names)
	}
}

func TestAdapterFindPodsNoMatch(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	a := &Adapter{clientset: clientset}

	names, err := a.FindPods(context.Background(), "perf", "app=jmeter")
	if err != nil {
		t.Fatalf("returned unexpected error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("found %v pods in an empty cluster", len(names))
	}
}
