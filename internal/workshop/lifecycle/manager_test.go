package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/wait"
	testingclock "k8s.io/utils/clock/testing"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"

	v1 "github.com/orchestra-io/orchestra/api/v1"
	"github.com/orchestra-io/orchestra/internal/util"
	"github.com/orchestra-io/orchestra/internal/workshop"
	"github.com/orchestra-io/orchestra/internal/workshop/projector"
	"github.com/orchestra-io/orchestra/internal/workshop/resource"
	"github.com/orchestra-io/orchestra/internal/workshop/translator"
)

const testNamespace = "workshops"

var t0 = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

var workshopGR = schema.GroupResource{Group: v1.GroupVersion.Group, Resource: v1.WorkshopPlural}

type testEnv struct {
	manager *Manager
	client  client.Client
	clock   *testingclock.FakeClock
}

func newTestEnv(t *testing.T, funcs *interceptor.Funcs) *testEnv {
	t.Helper()

	scheme, err := util.NewScheme()
	require.NoError(t, err)

	builder := fake.NewClientBuilder().WithScheme(scheme)
	if funcs != nil {
		builder = builder.WithInterceptorFuncs(*funcs)
	}

	c := builder.Build()
	fakeClock := testingclock.NewFakeClock(t0)

	m := NewManager(
		resource.New(c),
		translator.New(translator.DefaultPolicy()),
		projector.New(projector.DefaultGrace),
		WithClock(fakeClock),
		WithDeleteBackoff(wait.Backoff{Steps: 3, Duration: time.Millisecond}),
	)

	return &testEnv{manager: m, client: c, clock: fakeClock}
}

func ws1Request() *workshop.Request {
	return &workshop.Request{
		Name:     "ws1",
		Duration: "2h",
		Image:    "rocker/rstudio:latest",
		Resources: workshop.ResourcesRequest{
			CPU:    "1",
			Memory: "2Gi",
		},
	}
}

func unreachable() error {
	return &url.Error{Op: "Get", URL: "https://10.0.0.1:6443", Err: errors.New("connection refused")}
}

func TestCreateWorkshopScenario(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	created, err := env.manager.CreateWorkshop(ctx, testNamespace, ws1Request())
	require.NoError(t, err)
	assert.Equal(t, "ws1", created.Name)
	assert.Equal(t, testNamespace, created.Namespace)
	assert.True(t, created.Spec.ExpiresAt.Time.Equal(t0.Add(2*time.Hour)))

	stored := &v1.Workshop{}
	require.NoError(t, env.client.Get(ctx, client.ObjectKey{Namespace: testNamespace, Name: "ws1"}, stored))
	assert.True(t, stored.Spec.ExpiresAt.Time.Equal(t0.Add(2*time.Hour)))
	assert.Equal(t, v1.LabelManagedByValue, stored.Labels[v1.LabelManagedBy])

	status, err := env.manager.GetStatus(ctx, testNamespace, "ws1")
	require.NoError(t, err)
	assert.Equal(t, workshop.PhasePending, status.Phase)
	assert.False(t, status.PodReady)
}

func TestCreateWorkshopConflict(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.manager.CreateWorkshop(ctx, testNamespace, ws1Request())
	require.NoError(t, err)

	env.clock.Step(time.Minute)

	again := ws1Request()
	again.Image = "rocker/tidyverse:4.4"
	again.Duration = "8h"

	_, err = env.manager.CreateWorkshop(ctx, testNamespace, again)
	assert.ErrorIs(t, err, workshop.ErrConflict)

	original, err := env.manager.GetWorkshop(ctx, testNamespace, "ws1")
	require.NoError(t, err)
	assert.Equal(t, "rocker/rstudio:latest", original.Spec.Image)
	assert.Equal(t, "2h", original.Spec.Duration)
	assert.True(t, original.Spec.ExpiresAt.Time.Equal(t0.Add(2*time.Hour)))
}

func TestCreateWorkshopLostRace(t *testing.T) {
	env := newTestEnv(t, &interceptor.Funcs{
		Create: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.CreateOption) error {
			return apierrors.NewAlreadyExists(workshopGR, obj.GetName())
		},
	})

	_, err := env.manager.CreateWorkshop(context.Background(), testNamespace, ws1Request())
	assert.ErrorIs(t, err, workshop.ErrConflict)
	assert.ErrorIs(t, err, resource.ErrAlreadyExists)
}

func TestCreateWorkshopInvalidInput(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *workshop.Request
	}{
		{name: "nil request", req: nil},
		{name: "bad name", req: &workshop.Request{Name: "WS_1"}},
		{name: "bad duration", req: &workshop.Request{Name: "ws1", Duration: "two hours"}},
		{name: "request above limit", req: &workshop.Request{
			Name:      "ws1",
			Resources: workshop.ResourcesRequest{CPU: "1", CPURequest: "2"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.manager.CreateWorkshop(ctx, testNamespace, tt.req)
			assert.ErrorIs(t, err, workshop.ErrInvalidInput)
		})
	}

	list := &v1.WorkshopList{}
	require.NoError(t, env.client.List(ctx, list))
	assert.Empty(t, list.Items)
}

func TestConcurrentCreatesDistinctNames(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	const n = 16

	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, errs[i] = env.manager.CreateWorkshop(ctx, testNamespace, &workshop.Request{Name: fmt.Sprintf("ws-%d", i)})
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "ws-%d", i)
	}

	list := &v1.WorkshopList{}
	require.NoError(t, env.client.List(ctx, list))
	assert.Len(t, list.Items, n)
}

func TestConcurrentCreatesSameName(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	const n = 8

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := env.manager.CreateWorkshop(ctx, testNamespace, ws1Request())

			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, workshop.ErrConflict):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(n-1), conflicts.Load())

	list := &v1.WorkshopList{}
	require.NoError(t, env.client.List(ctx, list))
	assert.Len(t, list.Items, 1)
}

func TestListWorkshopsCreationOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := env.manager.CreateWorkshop(ctx, testNamespace, &workshop.Request{Name: name})
		require.NoError(t, err)

		env.clock.Step(time.Second)
	}

	workshops, err := env.manager.ListWorkshops(ctx, testNamespace)
	require.NoError(t, err)

	names := make([]string, 0, len(workshops))
	for _, w := range workshops {
		names = append(names, w.Name)
		assert.Equal(t, workshop.PhasePending, w.Status.Phase)
	}

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestListWorkshopsSameSecondOrder(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.manager.CreateWorkshop(ctx, testNamespace, &workshop.Request{Name: "b"})
	require.NoError(t, err)

	env.clock.Step(100 * time.Millisecond)

	_, err = env.manager.CreateWorkshop(ctx, testNamespace, &workshop.Request{Name: "a"})
	require.NoError(t, err)

	workshops, err := env.manager.ListWorkshops(ctx, testNamespace)
	require.NoError(t, err)
	require.Len(t, workshops, 2)

	assert.Equal(t, "b", workshops[0].Name)
	assert.Equal(t, "a", workshops[1].Name)
	assert.True(t, workshops[1].Spec.AcceptedAt.Time.Equal(t0.Add(100*time.Millisecond)))
}

func TestGetWorkshopNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.manager.GetWorkshop(context.Background(), testNamespace, "missing")
	assert.ErrorIs(t, err, workshop.ErrNotFound)

	_, err = env.manager.GetStatus(context.Background(), testNamespace, "missing")
	assert.ErrorIs(t, err, workshop.ErrNotFound)
}

func TestReadsSurfaceUnreachable(t *testing.T) {
	env := newTestEnv(t, &interceptor.Funcs{
		Get: func(ctx context.Context, c client.WithWatch, key client.ObjectKey, obj client.Object, opts ...client.GetOption) error {
			return unreachable()
		},
		List: func(ctx context.Context, c client.WithWatch, list client.ObjectList, opts ...client.ListOption) error {
			return unreachable()
		},
	})
	ctx := context.Background()

	_, err := env.manager.ListWorkshops(ctx, testNamespace)
	assert.ErrorIs(t, err, workshop.ErrUnreachable)

	_, err = env.manager.GetWorkshop(ctx, testNamespace, "ws1")
	assert.ErrorIs(t, err, workshop.ErrUnreachable)

	_, err = env.manager.GetStatus(ctx, testNamespace, "ws1")
	assert.ErrorIs(t, err, workshop.ErrUnreachable)

	assert.ErrorIs(t, env.manager.Ping(ctx), workshop.ErrUnreachable)
}

func TestDeleteWorkshop(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.manager.CreateWorkshop(ctx, testNamespace, ws1Request())
	require.NoError(t, err)

	require.NoError(t, env.manager.DeleteWorkshop(ctx, testNamespace, "ws1"))

	_, err = env.manager.GetWorkshop(ctx, testNamespace, "ws1")
	assert.ErrorIs(t, err, workshop.ErrNotFound)

	// a second delete is a no-op
	assert.NoError(t, env.manager.DeleteWorkshop(ctx, testNamespace, "ws1"))
}

func TestDeleteNeverExisted(t *testing.T) {
	env := newTestEnv(t, nil)

	assert.NoError(t, env.manager.DeleteWorkshop(context.Background(), testNamespace, "never-existed"))
}

func TestDeleteRetriesUnreachable(t *testing.T) {
	var calls atomic.Int32

	env := newTestEnv(t, &interceptor.Funcs{
		Delete: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.DeleteOption) error {
			if calls.Add(1) < 3 {
				return unreachable()
			}

			return c.Delete(ctx, obj, opts...)
		},
	})
	ctx := context.Background()

	_, err := env.manager.CreateWorkshop(ctx, testNamespace, ws1Request())
	require.NoError(t, err)

	require.NoError(t, env.manager.DeleteWorkshop(ctx, testNamespace, "ws1"))
	assert.Equal(t, int32(3), calls.Load())

	_, err = env.manager.GetWorkshop(ctx, testNamespace, "ws1")
	assert.ErrorIs(t, err, workshop.ErrNotFound)
}

func TestDeleteGivesUpOnPersistentUnreachable(t *testing.T) {
	var calls atomic.Int32

	env := newTestEnv(t, &interceptor.Funcs{
		Delete: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.DeleteOption) error {
			calls.Add(1)
			return unreachable()
		},
	})

	err := env.manager.DeleteWorkshop(context.Background(), testNamespace, "ws1")
	assert.ErrorIs(t, err, workshop.ErrUnreachable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDeleteConflictIsNotRetried(t *testing.T) {
	var calls atomic.Int32

	env := newTestEnv(t, &interceptor.Funcs{
		Delete: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.DeleteOption) error {
			calls.Add(1)
			return apierrors.NewConflict(workshopGR, obj.GetName(), errors.New("the object has been modified"))
		},
	})

	err := env.manager.DeleteWorkshop(context.Background(), testNamespace, "ws1")
	assert.ErrorIs(t, err, workshop.ErrConflict)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCreateAndDeleteSameNameConcurrently(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			_, err := env.manager.CreateWorkshop(ctx, testNamespace, ws1Request())
			if err != nil && !errors.Is(err, workshop.ErrConflict) {
				t.Errorf("unexpected create error: %v", err)
			}
		}()

		go func() {
			defer wg.Done()

			if err := env.manager.DeleteWorkshop(ctx, testNamespace, "ws1"); err != nil {
				t.Errorf("unexpected delete error: %v", err)
			}
		}()
	}

	wg.Wait()

	list := &v1.WorkshopList{}
	require.NoError(t, env.client.List(ctx, list))
	assert.LessOrEqual(t, len(list.Items), 1)
}

func TestDeleteRejectedCredentialsAreNotRetried(t *testing.T) {
	for name, rejection := range map[string]error{
		"unauthorized": apierrors.NewUnauthorized("token expired"),
		"forbidden":    apierrors.NewForbidden(workshopGR, "ws1", errors.New("rbac")),
	} {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32

			env := newTestEnv(t, &interceptor.Funcs{
				Delete: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.DeleteOption) error {
					calls.Add(1)
					return rejection
				},
			})

			err := env.manager.DeleteWorkshop(context.Background(), testNamespace, "ws1")
			assert.ErrorIs(t, err, workshop.ErrUnreachable)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestDeleteRetriesThrottling(t *testing.T) {
	var calls atomic.Int32

	env := newTestEnv(t, &interceptor.Funcs{
		Delete: func(ctx context.Context, c client.WithWatch, obj client.Object, opts ...client.DeleteOption) error {
			if calls.Add(1) == 1 {
				return apierrors.NewTooManyRequests("slow down", 0)
			}

			return c.Delete(ctx, obj, opts...)
		},
	})

	require.NoError(t, env.manager.DeleteWorkshop(context.Background(), testNamespace, "ws1"))
	assert.Equal(t, int32(2), calls.Load())
}

func TestWorkshopsAreScopedByNamespace(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.manager.CreateWorkshop(ctx, testNamespace, ws1Request())
	require.NoError(t, err)

	env.clock.Step(time.Second)

	// the same name in another namespace is a different workshop
	other, err := env.manager.CreateWorkshop(ctx, "team-b", ws1Request())
	require.NoError(t, err)
	assert.Equal(t, "team-b", other.Namespace)

	_, err = env.manager.CreateWorkshop(ctx, "team-b", ws1Request())
	assert.ErrorIs(t, err, workshop.ErrConflict)

	inTeamB, err := env.manager.ListWorkshops(ctx, "team-b")
	require.NoError(t, err)
	require.Len(t, inTeamB, 1)
	assert.Equal(t, "team-b", inTeamB[0].Namespace)

	all, err := env.manager.ListWorkshops(ctx, metav1.NamespaceAll)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, testNamespace, all[0].Namespace)
	assert.Equal(t, "team-b", all[1].Namespace)

	require.NoError(t, env.manager.DeleteWorkshop(ctx, "team-b", "ws1"))

	_, err = env.manager.GetWorkshop(ctx, testNamespace, "ws1")
	assert.NoError(t, err)

	_, err = env.manager.GetStatus(ctx, "team-b", "ws1")
	assert.ErrorIs(t, err, workshop.ErrNotFound)
}

func TestInvalidNamespace(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	for _, ns := range []string{"", "Team_B"} {
		_, err := env.manager.CreateWorkshop(ctx, ns, ws1Request())
		assert.ErrorIs(t, err, workshop.ErrInvalidNamespace)

		_, err = env.manager.GetWorkshop(ctx, ns, "ws1")
		assert.ErrorIs(t, err, workshop.ErrInvalidNamespace)

		_, err = env.manager.GetStatus(ctx, ns, "ws1")
		assert.ErrorIs(t, err, workshop.ErrInvalidNamespace)

		assert.ErrorIs(t, env.manager.DeleteWorkshop(ctx, ns, "ws1"), workshop.ErrInvalidInput)
	}

	_, err := env.manager.ListWorkshops(ctx, "Team_B")
	assert.ErrorIs(t, err, workshop.ErrInvalidInput)

	list := &v1.WorkshopList{}
	require.NoError(t, env.client.List(ctx, list))
	assert.Empty(t, list.Items)
}

func TestLockKeyIncludesNamespace(t *testing.T) {
	env := newTestEnv(t, nil)

	// holding ws1 in one namespace must not block the same name elsewhere
	env.manager.locks.Lock(lockKey(testNamespace, "ws1"))
	defer env.manager.locks.Unlock(lockKey(testNamespace, "ws1")) //nolint:errcheck

	done := make(chan error, 1)
	go func() {
		_, err := env.manager.CreateWorkshop(context.Background(), "team-b", ws1Request())
		done <- err
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("create in another namespace waited on a foreign lock")
	}
}
