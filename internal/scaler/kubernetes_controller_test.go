package scaler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	autoscalingv1 "k8s.io/api/autoscaling/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

// scaleAPI serves the deployments/scale subresource for the fake clientset,
// which has no built-in support for it.
type scaleAPI struct {
	replicas map[string]int32
	updates  int
}

func newFakeKubernetes(replicas map[string]int32) (*fake.Clientset, *scaleAPI) {
	api := &scaleAPI{replicas: replicas}
	client := fake.NewSimpleClientset()

	client.PrependReactor("get", "deployments", func(action k8stesting.Action) (bool, runtime.Object, error) {
		if action.GetSubresource() != "scale" {
			return false, nil, nil
		}
		name := action.(k8stesting.GetAction).GetName()
		key := action.GetNamespace() + "/" + name
		n, ok := api.replicas[key]
		if !ok {
			return true, nil, apierrors.NewNotFound(schema.GroupResource{Group: "apps", Resource: "deployments"}, name)
		}
		return true, &autoscalingv1.Scale{
			ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: action.GetNamespace()},
			Spec:       autoscalingv1.ScaleSpec{Replicas: n},
		}, nil
	})

	client.PrependReactor("update", "deployments", func(action k8stesting.Action) (bool, runtime.Object, error) {
		if action.GetSubresource() != "scale" {
			return false, nil, nil
		}
		scale := action.(k8stesting.UpdateAction).GetObject().(*autoscalingv1.Scale)
		api.replicas[action.GetNamespace()+"/"+scale.Name] = scale.Spec.Replicas
		api.updates++
		return true, scale, nil
	})

	return client, api
}

func TestKubernetesController_GetAndSet(t *testing.T) {
	client, api := newFakeKubernetes(map[string]int32{"default/claims-service": 3})
	ctrl, err := NewKubernetesController(KubernetesConfig{Client: client})
	require.NoError(t, err)

	n, err := ctrl.GetReplicas(context.Background(), testRef)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, ctrl.SetReplicas(context.Background(), testRef, 7))
	assert.Equal(t, int32(7), api.replicas["default/claims-service"])
	assert.Equal(t, 1, api.updates)

	n, err = ctrl.GetReplicas(context.Background(), testRef)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestKubernetesController_SetSameValueSkipsUpdate(t *testing.T) {
	client, api := newFakeKubernetes(map[string]int32{"default/claims-service": 4})
	ctrl, err := NewKubernetesController(KubernetesConfig{Client: client})
	require.NoError(t, err)

	require.NoError(t, ctrl.SetReplicas(context.Background(), testRef, 4))
	require.NoError(t, ctrl.SetReplicas(context.Background(), testRef, 4))

	assert.Equal(t, 0, api.updates)
}

func TestKubernetesController_NotFound(t *testing.T) {
	client, _ := newFakeKubernetes(map[string]int32{})
	ctrl, err := NewKubernetesController(KubernetesConfig{Client: client})
	require.NoError(t, err)

	_, err = ctrl.GetReplicas(context.Background(), testRef)
	assert.ErrorIs(t, err, ErrGetReplicasFailed)
	assert.ErrorIs(t, err, ErrDeploymentNotFound)

	err = ctrl.SetReplicas(context.Background(), testRef, 3)
	assert.ErrorIs(t, err, ErrSetReplicasFailed)
	assert.ErrorIs(t, err, ErrDeploymentNotFound)
}

func TestKubernetesController_RejectsNegative(t *testing.T) {
	client, _ := newFakeKubernetes(map[string]int32{"default/claims-service": 2})
	ctrl, err := NewKubernetesController(KubernetesConfig{Client: client})
	require.NoError(t, err)

	assert.ErrorIs(t, ctrl.SetReplicas(context.Background(), testRef, -2), ErrInvalidTarget)
}

func TestExecutor_WithKubernetesController(t *testing.T) {
	client, api := newFakeKubernetes(map[string]int32{"default/claims-service": 2})
	ctrl, err := NewKubernetesController(KubernetesConfig{Client: client})
	require.NoError(t, err)

	result, err := NewExecutor(ctrl).Execute(context.Background(), &scaleUpToTen, testRef)
	require.NoError(t, err)

	assert.Equal(t, 2, result.PreviousReplicas)
	assert.Equal(t, 10, result.NewReplicas)
	assert.Equal(t, int32(10), api.replicas["default/claims-service"])
}
