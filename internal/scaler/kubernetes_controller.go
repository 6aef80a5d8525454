package scaler

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

// KubernetesController scales apps/v1 deployments through the scale
// subresource.
type KubernetesController struct {
	client kubernetes.Interface
}

type KubernetesConfig struct {
	Kubeconfig string
	InCluster  bool
	Client     kubernetes.Interface
}

func NewKubernetesController(cfg KubernetesConfig) (*KubernetesController, error) {
	if cfg.Client != nil {
		return &KubernetesController{client: cfg.Client}, nil
	}

	var (
		restCfg *rest.Config
		err     error
	)
	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.Kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build kubernetes config: %w", err)
	}

	client, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create kubernetes client: %w", err)
	}
	return &KubernetesController{client: client}, nil
}

func (c *KubernetesController) Name() string { return "kubernetes" }

func (c *KubernetesController) GetReplicas(ctx context.Context, ref models.DeploymentRef) (int, error) {
	scale, err := c.client.AppsV1().Deployments(ref.Namespace).GetScale(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return 0, wrapAPIError(ErrGetReplicasFailed, ref, err)
	}
	return int(scale.Spec.Replicas), nil
}

func (c *KubernetesController) SetReplicas(ctx context.Context, ref models.DeploymentRef, replicas int) error {
	if replicas < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTarget, replicas)
	}

	deployments := c.client.AppsV1().Deployments(ref.Namespace)
	scale, err := deployments.GetScale(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		return wrapAPIError(ErrSetReplicasFailed, ref, err)
	}
	if int(scale.Spec.Replicas) == replicas {
		return nil
	}

	scale.Spec.Replicas = int32(replicas)
	if _, err := deployments.UpdateScale(ctx, ref.Name, scale, metav1.UpdateOptions{}); err != nil {
		return wrapAPIError(ErrSetReplicasFailed, ref, err)
	}
	return nil
}

func wrapAPIError(op error, ref models.DeploymentRef, err error) error {
	if apierrors.IsNotFound(err) {
		return fmt.Errorf("%w: %w: %s/%s", op, ErrDeploymentNotFound, ref.Namespace, ref.Name)
	}
	return fmt.Errorf("%w: %s/%s: %v", op, ref.Namespace, ref.Name, err)
}
