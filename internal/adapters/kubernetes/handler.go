package kubernetes

import (
	"context"
	"fmt"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"custodian/internal/resource"
	"custodian/pkg/logging"
)

// Kind is a supported workload kind.
type Kind string

const (
	KindDeployment Kind = "deployment"
	KindPod        Kind = "pod"
	KindJob        Kind = "job"
)

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDeployment, KindPod, KindJob:
		return k, nil
	default:
		return "", fmt.Errorf("unsupported kubernetes kind %q (want deployment, pod or job)", s)
	}
}

// HandlerConfig maps one catalog pattern to a workload kind.
type HandlerConfig struct {
	Pattern     string `yaml:"pattern"`
	Namespace   string `yaml:"namespace"`
	Kind        string `yaml:"kind"`
	StripPrefix string `yaml:"stripPrefix,omitempty"`
}

// Adapter turns Kubernetes objects into resource.ResourceInfo.
type Adapter struct {
	client  kubernetes.Interface
	cluster string
}

// NewAdapter creates an adapter over client. cluster is reported in every
// result so the agent can tell clusters apart.
func NewAdapter(client kubernetes.Interface, cluster string) *Adapter {
	return &Adapter{client: client, cluster: cluster}
}

// Register adds one handler per config to registry.
func (a *Adapter) Register(registry *resource.Registry, configs []HandlerConfig) error {
	for i, cfg := range configs {
		h, err := a.Handler(cfg)
		if err != nil {
			return fmt.Errorf("kubernetes.handlers[%d]: %w", i, err)
		}
		registry.Register(cfg.Pattern, h)
		logging.Info("Kubernetes", "Registered %s handler for %s in namespace %s", cfg.Kind, cfg.Pattern, cfg.Namespace)
	}
	return nil
}

// Handler builds the live-status handler for cfg.
func (a *Adapter) Handler(cfg HandlerConfig) (resource.Handler, error) {
	if cfg.Pattern == "" {
		return nil, fmt.Errorf("pattern is required")
	}
	kind, err := ParseKind(cfg.Kind)
	if err != nil {
		return nil, err
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = metav1.NamespaceDefault
	}

	return func(ctx context.Context, id string) (*resource.ResourceInfo, error) {
		name := strings.TrimPrefix(id, cfg.StripPrefix)
		if name == "" {
			return nil, nil
		}

		var (
			info *resource.ResourceInfo
			err  error
		)
		switch kind {
		case KindDeployment:
			info, err = a.deployment(ctx, namespace, name)
		case KindPod:
			info, err = a.pod(ctx, namespace, name)
		case KindJob:
			info, err = a.job(ctx, namespace, name)
		}
		if apierrors.IsNotFound(err) {
			logging.Debug("Kubernetes", "%s %s/%s not found", kind, namespace, name)
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("get %s %s/%s: %w", kind, namespace, name, err)
		}

		info.ID = id
		info.Set("namespace", namespace).
			Set("cluster", a.cluster).
			Set("kind", string(kind)).
			Set("name", name)
		return info, nil
	}, nil
}

func (a *Adapter) deployment(ctx context.Context, namespace, name string) (*resource.ResourceInfo, error) {
	d, err := a.client.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, err
	}
	return resource.NewResourceInfo("", deploymentStatus(d)).
		Set("replicas", desiredReplicas(d)).
		Set("ready_replicas", d.Status.ReadyReplicas).
		Set("available_replicas", d.Status.AvailableReplicas).
		Set("updated_replicas", d.Status.UpdatedReplicas).
		Set("conditions", deploymentConditions(d.Status.Conditions)), nil
}

func desiredReplicas(d *appsv1.Deployment) int32 {
	if d.Spec.Replicas == nil {
		return 1
	}
	return *d.Spec.Replicas
}

func deploymentStatus(d *appsv1.Deployment) string {
	desired := desiredReplicas(d)
	switch {
	case desired == 0:
		return "scaled_down"
	case d.Status.AvailableReplicas >= desired:
		return "healthy"
	case d.Status.AvailableReplicas > 0:
		return "degraded"
	default:
		return "unavailable"
	}
}

func deploymentConditions(conds []appsv1.DeploymentCondition) []string {
	out := make([]string, 0, len(conds))
	for _, c := range conds {
		out = append(out, fmt.Sprintf("%s=%s", c.Type, c.Status))
	}
	return out
}

func (a *Adapter) pod(ctx context.Context, namespace, name string) (*resource.ResourceInfo, error) {
	p, err := a.client.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, err
	}

	var restarts int32
	for _, cs := range p.Status.ContainerStatuses {
		restarts += cs.RestartCount
	}
	ready := false
	for _, c := range p.Status.Conditions {
		if c.Type == corev1.PodReady {
			ready = c.Status == corev1.ConditionTrue
		}
	}

	phase := string(p.Status.Phase)
	if phase == "" {
		phase = string(corev1.PodPending)
	}
	return resource.NewResourceInfo("", strings.ToLower(phase)).
		Set("phase", phase).
		Set("ready", ready).
		Set("restarts", restarts).
		Set("node", p.Spec.NodeName), nil
}

func (a *Adapter) job(ctx context.Context, namespace, name string) (*resource.ResourceInfo, error) {
	j, err := a.client.BatchV1().Jobs(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, err
	}
	return resource.NewResourceInfo("", jobStatus(j)).
		Set("active", j.Status.Active).
		Set("succeeded", j.Status.Succeeded).
		Set("failed", j.Status.Failed), nil
}

func jobStatus(j *batchv1.Job) string {
	for _, c := range j.Status.Conditions {
		if c.Status != corev1.ConditionTrue {
			continue
		}
		switch c.Type {
		case batchv1.JobComplete:
			return "succeeded"
		case batchv1.JobFailed:
			return "failed"
		}
	}
	if j.Status.Active > 0 {
		return "running"
	}
	return "pending"
}
