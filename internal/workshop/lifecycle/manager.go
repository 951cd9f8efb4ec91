// Package lifecycle is the orchestrating core for workshops. It composes the
// translator and the resource adapter for writes and the projector for reads,
// and serializes create/delete per namespace/name.
package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/moby/locker"
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/util/retry"
	"k8s.io/klog/v2"
	"k8s.io/utils/clock"

	v1 "github.com/orchestra-io/orchestra/api/v1"
	"github.com/orchestra-io/orchestra/internal/metrics"
	"github.com/orchestra-io/orchestra/internal/workshop"
	"github.com/orchestra-io/orchestra/internal/workshop/projector"
	"github.com/orchestra-io/orchestra/internal/workshop/resource"
	"github.com/orchestra-io/orchestra/internal/workshop/translator"
)

const (
	opCreate = "create"
	opList   = "list"
	opGet    = "get"
	opDelete = "delete"
	opStatus = "status"
)

// Interface is the contract consumed by the transport layer and the sweeper.
// Every workshop lives in a namespace; names are unique per namespace.
type Interface interface {
	CreateWorkshop(ctx context.Context, namespace string, req *workshop.Request) (*workshop.Workshop, error)
	ListWorkshops(ctx context.Context, namespace string) ([]workshop.Workshop, error)
	GetWorkshop(ctx context.Context, namespace, name string) (*workshop.Workshop, error)
	DeleteWorkshop(ctx context.Context, namespace, name string) error
	GetStatus(ctx context.Context, namespace, name string) (*workshop.Status, error)
	Ping(ctx context.Context) error
}

// Manager implements Interface on top of the cluster resource store.
type Manager struct {
	resources  resource.Client
	translator *translator.Translator
	projector  *projector.Projector
	clock      clock.PassiveClock
	locks      *locker.Locker

	// deleteBackoff bounds retries of a delete that failed with a retryable
	// Unreachable error.
	deleteBackoff wait.Backoff
}

var _ Interface = &Manager{}

type Option func(*Manager)

// WithClock overrides the wall clock, mainly for tests.
func WithClock(c clock.PassiveClock) Option {
	return func(m *Manager) {
		m.clock = c
	}
}

func WithDeleteBackoff(b wait.Backoff) Option {
	return func(m *Manager) {
		m.deleteBackoff = b
	}
}

func NewManager(resources resource.Client, t *translator.Translator, p *projector.Projector, opts ...Option) *Manager {
	m := &Manager{
		resources:     resources,
		translator:    t,
		projector:     p,
		clock:         clock.RealClock{},
		locks:         locker.New(),
		deleteBackoff: retry.DefaultBackoff,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// CreateWorkshop translates req and creates the backing resource in
// namespace. An existing workshop with the same name, or one created
// concurrently by another process, results in ErrConflict and leaves that
// workshop untouched.
func (m *Manager) CreateWorkshop(ctx context.Context, namespace string, req *workshop.Request) (_ *workshop.Workshop, err error) {
	defer func() { metrics.ObserveOperation(opCreate, workshop.Code(err)) }()

	if req == nil {
		return nil, errors.Wrap(workshop.ErrInvalidInput, "empty request")
	}

	if err := translator.ValidateNamespace(namespace); err != nil {
		return nil, err
	}

	now := m.clock.Now()

	spec, err := m.translator.Translate(req, now)
	if err != nil {
		return nil, err
	}

	key := lockKey(namespace, spec.Name)
	m.locks.Lock(key)
	defer m.locks.Unlock(key) //nolint:errcheck

	// Calls issued from here on run to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	_, err = m.resources.Get(ctx, namespace, spec.Name)
	switch {
	case err == nil:
		return nil, errors.Wrapf(workshop.ErrConflict, "workshop %s already exists", key)
	case errors.Is(err, workshop.ErrNotFound):
	default:
		return nil, errors.Wrapf(err, "failed to check workshop %s", key)
	}

	obj := &v1.Workshop{
		ObjectMeta: metav1.ObjectMeta{Name: spec.Name, Namespace: namespace},
		Spec:       *spec,
	}

	snapshot, err := m.resources.Create(ctx, obj)
	if err != nil {
		if errors.Is(err, resource.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: workshop %s was created concurrently: %w", workshop.ErrConflict, key, err)
		}

		return nil, errors.Wrapf(err, "failed to create workshop %s", key)
	}

	klog.InfoS("Workshop created", "workshop", klog.KRef(namespace, spec.Name), "expiresAt", spec.ExpiresAt.Time)

	view := m.view(snapshot, now)

	return &view, nil
}

// ListWorkshops returns the workshops in namespace ordered by creation time,
// oldest first. metav1.NamespaceAll lists every namespace. Creation time is
// Spec.AcceptedAt, which has microsecond resolution; ties fall back to the
// namespace, then the name.
func (m *Manager) ListWorkshops(ctx context.Context, namespace string) (_ []workshop.Workshop, err error) {
	defer func() { metrics.ObserveOperation(opList, workshop.Code(err)) }()

	if namespace != metav1.NamespaceAll {
		if err := translator.ValidateNamespace(namespace); err != nil {
			return nil, err
		}
	}

	snapshots, err := m.resources.List(ctx, namespace)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list workshops")
	}

	now := m.clock.Now()

	views := make([]workshop.Workshop, 0, len(snapshots))
	for i := range snapshots {
		views = append(views, m.view(&snapshots[i], now))
	}

	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}

		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}

		return a.Name < b.Name
	})

	return views, nil
}

func (m *Manager) GetWorkshop(ctx context.Context, namespace, name string) (_ *workshop.Workshop, err error) {
	defer func() { metrics.ObserveOperation(opGet, workshop.Code(err)) }()

	snapshot, err := m.get(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	view := m.view(snapshot, m.clock.Now())

	return &view, nil
}

// GetStatus is GetWorkshop without the WorkshopSpec echo, for polling clients.
func (m *Manager) GetStatus(ctx context.Context, namespace, name string) (_ *workshop.Status, err error) {
	defer func() { metrics.ObserveOperation(opStatus, workshop.Code(err)) }()

	snapshot, err := m.get(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	status := m.projector.Project(snapshot, m.clock.Now())

	return &status, nil
}

// DeleteWorkshop removes the workshop. A workshop that is already gone counts
// as deleted. Transport failures, timeouts, throttling and 5xx answers are
// retried with backoff before being returned; rejected credentials are not.
func (m *Manager) DeleteWorkshop(ctx context.Context, namespace, name string) (err error) {
	defer func() { metrics.ObserveOperation(opDelete, workshop.Code(err)) }()

	if err := translator.ValidateNamespace(namespace); err != nil {
		return err
	}

	if err := translator.ValidateName(name); err != nil {
		return err
	}

	// The lock spans the whole retry loop so a create of the same name waits
	// for the final outcome.
	key := lockKey(namespace, name)
	m.locks.Lock(key)
	defer m.locks.Unlock(key) //nolint:errcheck

	ctx = context.WithoutCancel(ctx)

	err = retry.OnError(m.deleteBackoff, resource.IsRetryable, func() error {
		return m.resources.Delete(ctx, namespace, name)
	})
	switch {
	case err == nil:
		klog.InfoS("Workshop deleted", "workshop", klog.KRef(namespace, name))
		return nil
	case errors.Is(err, workshop.ErrNotFound):
		klog.V(4).InfoS("Workshop already absent", "workshop", klog.KRef(namespace, name))
		return nil
	default:
		return errors.Wrapf(err, "failed to delete workshop %s", key)
	}
}

// Ping reports whether the cluster store answers reads.
func (m *Manager) Ping(ctx context.Context) error {
	return m.resources.Ping(ctx)
}

func (m *Manager) get(ctx context.Context, namespace, name string) (*resource.Snapshot, error) {
	if err := translator.ValidateNamespace(namespace); err != nil {
		return nil, err
	}

	if err := translator.ValidateName(name); err != nil {
		return nil, err
	}

	snapshot, err := m.resources.Get(ctx, namespace, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get workshop %s", lockKey(namespace, name))
	}

	return snapshot, nil
}

func (m *Manager) view(s *resource.Snapshot, now time.Time) workshop.Workshop {
	w := s.Workshop

	return workshop.Workshop{
		Name:      w.Name,
		Namespace: w.Namespace,
		Spec:      w.Spec,
		Status:    m.projector.Project(s, now),
		CreatedAt: createdAt(w),
	}
}

// createdAt prefers Spec.AcceptedAt over the store's creation timestamp,
// which only has whole-second resolution. Workshops written by other tools
// may lack AcceptedAt.
func createdAt(w *v1.Workshop) time.Time {
	if !w.Spec.AcceptedAt.IsZero() {
		return w.Spec.AcceptedAt.Time
	}

	return w.CreationTimestamp.Time
}

func lockKey(namespace, name string) string {
	return namespace + "/" + name
}
