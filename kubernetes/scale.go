package kubernetes

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ScaleWorkers sets the replica count of the named deployment through the
// scale subresource. Teardown uses zero replicas; the deployment itself is
// left in place so the rig can be brought back without re-provisioning.
func (a *Adapter) ScaleWorkers(ctx context.Context, namespace, deployment string, replicas int32) error {
	scale, err := a.clientset.AppsV1().Deployments(namespace).GetScale(ctx, deployment, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("could not read scale of deployment %v in %v: %v", deployment, namespace, err)
	}

	scale.Spec.Replicas = replicas
	if _, err := a.clientset.AppsV1().Deployments(namespace).UpdateScale(ctx, deployment, scale, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("could not scale deployment %v in %v to %v: %v", deployment, namespace, replicas, err)
	}

	return nil
}
