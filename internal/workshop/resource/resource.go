// Package resource is the typed adapter between the workshop core and the
// cluster resource store. Every method is a single round-trip (or a fixed
// fan-out of independent reads); retry policy belongs to callers.
package resource

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	v1 "github.com/orchestra-io/orchestra/api/v1"
)

// ErrAlreadyExists is returned by Create when a Workshop with the same name
// is already present in the store.
var ErrAlreadyExists = errors.New("workshop already exists")

// Snapshot is one observation of a Workshop together with the pods and
// ingresses the operator created for it.
type Snapshot struct {
	Workshop  *v1.Workshop
	Pods      []corev1.Pod
	Ingresses []networkingv1.Ingress
}

// Client is the contract the lifecycle manager depends on. Create stores the
// Workshop in w.Namespace; the other calls name their namespace explicitly.
type Client interface {
	Create(ctx context.Context, w *v1.Workshop) (*Snapshot, error)
	Get(ctx context.Context, namespace, name string) (*Snapshot, error)
	// List returns the Workshops in namespace, or in every namespace when
	// namespace is metav1.NamespaceAll.
	List(ctx context.Context, namespace string) ([]Snapshot, error)
	Delete(ctx context.Context, namespace, name string) error
	// Ping performs a cheap read to verify the store is reachable.
	Ping(ctx context.Context) error
}

type kubeClient struct {
	client client.Client
}

var _ Client = &kubeClient{}

func New(c client.Client) Client {
	return &kubeClient{client: c}
}

func (k *kubeClient) Create(ctx context.Context, w *v1.Workshop) (*Snapshot, error) {
	obj := w.DeepCopy()

	labels := obj.GetLabels()
	if labels == nil {
		labels = map[string]string{}
	}

	labels[v1.LabelApp] = v1.LabelAppValue
	labels[v1.LabelManagedBy] = v1.LabelManagedByValue
	labels[v1.LabelWorkshop] = obj.Name
	obj.SetLabels(labels)

	if err := k.client.Create(ctx, obj); err != nil {
		return nil, classify(err)
	}

	return &Snapshot{Workshop: obj}, nil
}

func (k *kubeClient) Get(ctx context.Context, namespace, name string) (*Snapshot, error) {
	w := &v1.Workshop{}
	if err := k.client.Get(ctx, client.ObjectKey{Namespace: namespace, Name: name}, w); err != nil {
		return nil, classify(err)
	}

	pods := &corev1.PodList{}
	ingresses := &networkingv1.IngressList{}
	selector := client.MatchingLabels{v1.LabelWorkshop: name}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return k.client.List(gctx, pods, client.InNamespace(namespace), selector)
	})
	g.Go(func() error {
		return k.client.List(gctx, ingresses, client.InNamespace(namespace), selector)
	})

	if err := g.Wait(); err != nil {
		return nil, classify(err)
	}

	return &Snapshot{
		Workshop:  w,
		Pods:      pods.Items,
		Ingresses: ingresses.Items,
	}, nil
}

func (k *kubeClient) List(ctx context.Context, namespace string) ([]Snapshot, error) {
	workshops := &v1.WorkshopList{}
	pods := &corev1.PodList{}
	ingresses := &networkingv1.IngressList{}
	owned := client.HasLabels{v1.LabelWorkshop}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return k.client.List(gctx, workshops, client.InNamespace(namespace))
	})
	g.Go(func() error {
		return k.client.List(gctx, pods, client.InNamespace(namespace), owned)
	})
	g.Go(func() error {
		return k.client.List(gctx, ingresses, client.InNamespace(namespace), owned)
	})

	if err := g.Wait(); err != nil {
		return nil, classify(err)
	}

	podsByWorkshop := map[types.NamespacedName][]corev1.Pod{}
	for _, pod := range pods.Items {
		key := types.NamespacedName{Namespace: pod.Namespace, Name: pod.Labels[v1.LabelWorkshop]}
		podsByWorkshop[key] = append(podsByWorkshop[key], pod)
	}

	ingressesByWorkshop := map[types.NamespacedName][]networkingv1.Ingress{}
	for _, ing := range ingresses.Items {
		key := types.NamespacedName{Namespace: ing.Namespace, Name: ing.Labels[v1.LabelWorkshop]}
		ingressesByWorkshop[key] = append(ingressesByWorkshop[key], ing)
	}

	snapshots := make([]Snapshot, 0, len(workshops.Items))
	for i := range workshops.Items {
		w := &workshops.Items[i]
		key := types.NamespacedName{Namespace: w.Namespace, Name: w.Name}
		snapshots = append(snapshots, Snapshot{
			Workshop:  w,
			Pods:      podsByWorkshop[key],
			Ingresses: ingressesByWorkshop[key],
		})
	}

	return snapshots, nil
}

func (k *kubeClient) Delete(ctx context.Context, namespace, name string) error {
	w := &v1.Workshop{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
	}

	if err := k.client.Delete(ctx, w, client.PropagationPolicy(metav1.DeletePropagationBackground)); err != nil {
		return classify(err)
	}

	return nil
}

func (k *kubeClient) Ping(ctx context.Context) error {
	if err := k.client.List(ctx, &v1.WorkshopList{}, client.Limit(1)); err != nil {
		return classify(err)
	}

	return nil
}
