// Package translator turns a validated workshop request into the custom
// resource spec. It has no side effects: the same request and the same
// acceptance time always produce the same spec.
package translator

import (
	"strings"
	"time"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"

	v1 "github.com/orchestra-io/orchestra/api/v1"
	"github.com/orchestra-io/orchestra/internal/workshop"
)

type Translator struct {
	policy Policy
}

func New(policy Policy) *Translator {
	return &Translator{policy: policy}
}

// Translate validates req and returns the normalized spec. The acceptance
// time keeps microseconds, the finest resolution the store persists.
func (t *Translator) Translate(req *workshop.Request, now time.Time) (*v1.WorkshopSpec, error) {
	if req == nil {
		return nil, errors.Wrap(workshop.ErrInvalidInput, "request is required")
	}

	if err := ValidateName(req.Name); err != nil {
		return nil, err
	}

	acceptedAt := now.UTC().Truncate(time.Microsecond)

	durationStr := strings.TrimSpace(req.Duration)
	if durationStr == "" {
		durationStr = t.policy.DefaultDuration
	}

	duration, err := t.parseDuration(durationStr)
	if err != nil {
		return nil, err
	}

	image := strings.TrimSpace(req.Image)
	if image == "" {
		image = t.policy.DefaultImage
	}

	if _, err := name.ParseReference(image); err != nil {
		return nil, errors.Wrapf(workshop.ErrInvalidImage, "image %q: %v", image, err)
	}

	resources, err := t.resolveResources(req.Resources)
	if err != nil {
		return nil, err
	}

	storage, err := t.resolveStorage(req.Storage)
	if err != nil {
		return nil, err
	}

	ingress, err := resolveIngress(req.Ingress)
	if err != nil {
		return nil, err
	}

	return &v1.WorkshopSpec{
		Name:       req.Name,
		Duration:   durationStr,
		AcceptedAt: metav1.NewMicroTime(acceptedAt),
		ExpiresAt:  metav1.NewTime(acceptedAt.Truncate(time.Second).Add(duration)),
		Image:      image,
		Resources:  resources,
		Storage:    storage,
		Ingress:    ingress,
	}, nil
}

// ValidateName checks that name is a DNS-1123 label.
func ValidateName(name string) error {
	if name == "" {
		return errors.Wrap(workshop.ErrInvalidName, "name is required")
	}

	if msgs := validation.IsDNS1123Label(name); len(msgs) > 0 {
		return errors.Wrapf(workshop.ErrInvalidName, "name %q: %s", name, strings.Join(msgs, "; "))
	}

	return nil
}

// ValidateNamespace checks that namespace is a DNS-1123 label.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return errors.Wrap(workshop.ErrInvalidNamespace, "namespace is required")
	}

	if msgs := validation.IsDNS1123Label(namespace); len(msgs) > 0 {
		return errors.Wrapf(workshop.ErrInvalidNamespace, "namespace %q: %s", namespace, strings.Join(msgs, "; "))
	}

	return nil
}

func (t *Translator) parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(workshop.ErrInvalidDuration, "duration %q: %v", s, err)
	}

	if d <= 0 {
		return 0, errors.Wrapf(workshop.ErrInvalidDuration, "duration %q must be positive", s)
	}

	if t.policy.MaxDuration > 0 && d > t.policy.MaxDuration {
		return 0, errors.Wrapf(workshop.ErrInvalidDuration, "duration %q exceeds maximum %s", s, t.policy.MaxDuration)
	}

	return d, nil
}

func (t *Translator) resolveResources(req workshop.ResourcesRequest) (v1.WorkshopResources, error) {
	cpu, err := parseQuantity("resources.cpu", req.CPU, t.policy.DefaultCPU, t.policy.MaxCPU)
	if err != nil {
		return v1.WorkshopResources{}, err
	}

	memory, err := parseQuantity("resources.memory", req.Memory, t.policy.DefaultMemory, t.policy.MaxMemory)
	if err != nil {
		return v1.WorkshopResources{}, err
	}

	cpuRequest, err := parseRequest("resources.cpuRequest", req.CPURequest, t.policy.DefaultCPURequest, cpu)
	if err != nil {
		return v1.WorkshopResources{}, err
	}

	memoryRequest, err := parseRequest("resources.memoryRequest", req.MemoryRequest, t.policy.DefaultMemoryRequest, memory)
	if err != nil {
		return v1.WorkshopResources{}, err
	}

	return v1.WorkshopResources{
		CPU:           cpu.String(),
		Memory:        memory.String(),
		CPURequest:    cpuRequest.String(),
		MemoryRequest: memoryRequest.String(),
	}, nil
}

func (t *Translator) resolveStorage(req *workshop.StorageRequest) (v1.WorkshopStorage, error) {
	var size, class string
	if req != nil {
		size = req.Size
		class = req.StorageClass
	}

	q, err := parseQuantity("storage.size", size, t.policy.DefaultStorage, t.policy.MaxStorage)
	if err != nil {
		return v1.WorkshopStorage{}, err
	}

	if class == "" {
		class = t.policy.DefaultStorageClass
	}

	if class != "" {
		if msgs := validation.IsDNS1123Subdomain(class); len(msgs) > 0 {
			return v1.WorkshopStorage{}, errors.Wrapf(workshop.ErrInvalidInput, "storage.storageClass %q: %s", class, strings.Join(msgs, "; "))
		}
	}

	return v1.WorkshopStorage{
		Size:         q.String(),
		StorageClass: class,
	}, nil
}

func resolveIngress(req *workshop.IngressRequest) (*v1.WorkshopIngress, error) {
	if req == nil || (req.Host == "" && len(req.Annotations) == 0) {
		return nil, nil
	}

	if req.Host != "" {
		if msgs := validation.IsDNS1123Subdomain(req.Host); len(msgs) > 0 {
			return nil, errors.Wrapf(workshop.ErrInvalidHost, "ingress.host %q: %s", req.Host, strings.Join(msgs, "; "))
		}
	}

	var annotations map[string]string
	if len(req.Annotations) > 0 {
		annotations = make(map[string]string, len(req.Annotations))
		for k, v := range req.Annotations {
			if msgs := validation.IsQualifiedName(k); len(msgs) > 0 {
				return nil, errors.Wrapf(workshop.ErrInvalidInput, "ingress.annotations key %q: %s", k, strings.Join(msgs, "; "))
			}

			annotations[k] = v
		}
	}

	return &v1.WorkshopIngress{
		Host:        req.Host,
		Annotations: annotations,
	}, nil
}

// parseQuantity parses s, falling back to def when empty, and enforces
// 0 < q <= upper.
func parseQuantity(field, s string, def, upper resource.Quantity) (resource.Quantity, error) {
	if strings.TrimSpace(s) == "" {
		return def.DeepCopy(), nil
	}

	q, err := resource.ParseQuantity(strings.TrimSpace(s))
	if err != nil {
		return resource.Quantity{}, errors.Wrapf(workshop.ErrInvalidQuantity, "%s %q: %v", field, s, err)
	}

	if q.Sign() <= 0 {
		return resource.Quantity{}, errors.Wrapf(workshop.ErrInvalidQuantity, "%s %q must be positive", field, s)
	}

	if !upper.IsZero() && q.Cmp(upper) > 0 {
		return resource.Quantity{}, errors.Wrapf(workshop.ErrInvalidQuantity, "%s %q exceeds maximum %s", field, s, upper.String())
	}

	return q, nil
}

// parseRequest parses a resource request. An omitted request defaults to def
// clamped to limit; an explicit request above limit is rejected.
func parseRequest(field, s string, def, limit resource.Quantity) (resource.Quantity, error) {
	if strings.TrimSpace(s) == "" {
		if def.Cmp(limit) > 0 {
			return limit.DeepCopy(), nil
		}

		return def.DeepCopy(), nil
	}

	q, err := parseQuantity(field, s, def, limit)
	if err != nil {
		return resource.Quantity{}, err
	}

	return q, nil
}
