package kubernetes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"custodian/internal/resource"
)

func int32Ptr(i int32) *int32 { return &i }

func objects() []runtime.Object {
	return []runtime.Object{
		&appsv1.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "checkout", Namespace: "shop"},
			Spec:       appsv1.DeploymentSpec{Replicas: int32Ptr(3)},
			Status: appsv1.DeploymentStatus{
				ReadyReplicas:     2,
				AvailableReplicas: 2,
				UpdatedReplicas:   3,
				Conditions: []appsv1.DeploymentCondition{
					{Type: appsv1.DeploymentAvailable, Status: corev1.ConditionTrue},
				},
			},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "worker-0", Namespace: "shop"},
			Spec:       corev1.PodSpec{NodeName: "node-a"},
			Status: corev1.PodStatus{
				Phase:             corev1.PodRunning,
				Conditions:        []corev1.PodCondition{{Type: corev1.PodReady, Status: corev1.ConditionTrue}},
				ContainerStatuses: []corev1.ContainerStatus{{RestartCount: 2}, {RestartCount: 1}},
			},
		},
		&batchv1.Job{
			ObjectMeta: metav1.ObjectMeta{Name: "export-42", Namespace: "batch"},
			Status: batchv1.JobStatus{
				Succeeded:  1,
				Conditions: []batchv1.JobCondition{{Type: batchv1.JobComplete, Status: corev1.ConditionTrue}},
			},
		},
	}
}

func TestHandler_Deployment(t *testing.T) {
	a := NewAdapter(fake.NewSimpleClientset(objects()...), "prod-eu")
	h, err := a.Handler(HandlerConfig{Pattern: "deploy/*", Namespace: "shop", Kind: "Deployment", StripPrefix: "deploy/"})
	require.NoError(t, err)

	info, err := h(context.Background(), "deploy/checkout")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "deploy/checkout", info.ID)
	assert.Equal(t, "degraded", info.Status)

	ready, _ := info.Get("ready_replicas")
	assert.Equal(t, int32(2), ready)
	cluster, _ := info.Get("cluster")
	assert.Equal(t, "prod-eu", cluster)
	conds, _ := info.Get("conditions")
	assert.Equal(t, []string{"Available=True"}, conds)
}

func TestHandler_Pod(t *testing.T) {
	a := NewAdapter(fake.NewSimpleClientset(objects()...), "prod-eu")
	h, err := a.Handler(HandlerConfig{Pattern: "worker-*", Namespace: "shop", Kind: "pod"})
	require.NoError(t, err)

	info, err := h(context.Background(), "worker-0")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "running", info.Status)
	restarts, _ := info.Get("restarts")
	assert.Equal(t, int32(3), restarts)
	ready, _ := info.Get("ready")
	assert.Equal(t, true, ready)
}

func TestHandler_Job(t *testing.T) {
	a := NewAdapter(fake.NewSimpleClientset(objects()...), "")
	h, err := a.Handler(HandlerConfig{Pattern: "job-*", Namespace: "batch", Kind: "job", StripPrefix: "job-"})
	require.NoError(t, err)

	info, err := h(context.Background(), "job-export-42")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "succeeded", info.Status)
	ns, _ := info.Get("namespace")
	assert.Equal(t, "batch", ns)
}

func TestHandler_NotFoundIsAbsent(t *testing.T) {
	a := NewAdapter(fake.NewSimpleClientset(), "")
	h, err := a.Handler(HandlerConfig{Pattern: "deploy/*", Kind: "deployment", StripPrefix: "deploy/"})
	require.NoError(t, err)

	info, err := h(context.Background(), "deploy/ghost")
	assert.NoError(t, err)
	assert.Nil(t, info)
}

func TestHandler_APIErrorPropagates(t *testing.T) {
	client := fake.NewSimpleClientset()
	client.PrependReactor("get", "pods", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("etcdserver: request timed out")
	})
	h, err := NewAdapter(client, "").Handler(HandlerConfig{Pattern: "p-*", Kind: "pod"})
	require.NoError(t, err)

	_, err = h(context.Background(), "p-1")
	assert.ErrorContains(t, err, "request timed out")
}

func TestHandler_InvalidConfig(t *testing.T) {
	a := NewAdapter(fake.NewSimpleClientset(), "")

	_, err := a.Handler(HandlerConfig{Pattern: "x-*", Kind: "statefulset"})
	assert.Error(t, err)

	_, err = a.Handler(HandlerConfig{Kind: "pod"})
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	a := NewAdapter(fake.NewSimpleClientset(objects()...), "prod-eu")
	registry := resource.NewRegistry()

	require.NoError(t, a.Register(registry, []HandlerConfig{
		{Pattern: "deploy/*", Namespace: "shop", Kind: "deployment", StripPrefix: "deploy/"},
		{Pattern: "worker-*", Namespace: "shop", Kind: "pod"},
	}))
	assert.Equal(t, []string{"deploy/*", "worker-*"}, registry.Patterns())

	info, ok := registry.Get(context.Background(), "worker-0")
	require.True(t, ok)
	assert.Equal(t, "running", info.Status)

	err := a.Register(registry, []HandlerConfig{{Pattern: "x", Kind: "cronjob"}})
	assert.ErrorContains(t, err, "kubernetes.handlers[0]")
}

func TestDeploymentStatus(t *testing.T) {
	tests := []struct {
		desired, available int32
		want               string
	}{
		{0, 0, "scaled_down"},
		{2, 2, "healthy"},
		{2, 1, "degraded"},
		{2, 0, "unavailable"},
	}
	for _, tt := range tests {
		d := &appsv1.Deployment{
			Spec:   appsv1.DeploymentSpec{Replicas: int32Ptr(tt.desired)},
			Status: appsv1.DeploymentStatus{AvailableReplicas: tt.available},
		}
		assert.Equal(t, tt.want, deploymentStatus(d))
	}
}
