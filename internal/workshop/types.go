package workshop

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	v1 "github.com/orchestra-io/orchestra/api/v1"
)

// Phase is the projected lifecycle state of a workshop as seen by API clients.
type Phase string

const (
	PhasePending      Phase = "Pending"
	PhaseProvisioning Phase = "Provisioning"
	PhaseRunning      Phase = "Running"
	PhaseExpiring     Phase = "Expiring"
	PhaseFailed       Phase = "Failed"
)

// ResourcesRequest is the user-facing compute sizing. Empty fields are defaulted.
type ResourcesRequest struct {
	CPU           string `json:"cpu,omitempty"`
	Memory        string `json:"memory,omitempty"`
	CPURequest    string `json:"cpuRequest,omitempty"`
	MemoryRequest string `json:"memoryRequest,omitempty"`
}

type StorageRequest struct {
	Size         string `json:"size,omitempty"`
	StorageClass string `json:"storageClass,omitempty"`
}

type IngressRequest struct {
	Host        string            `json:"host,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// Request is the user input for creating a workshop.
type Request struct {
	Name      string           `json:"name"`
	Duration  string           `json:"duration,omitempty"`
	Image     string           `json:"image,omitempty"`
	Resources ResourcesRequest `json:"resources,omitempty"`
	Storage   *StorageRequest  `json:"storage,omitempty"`
	Ingress   *IngressRequest  `json:"ingress,omitempty"`
}

// Status is derived on every read and never stored.
type Status struct {
	Phase        Phase              `json:"phase"`
	PodReady     bool               `json:"podReady"`
	IngressReady bool               `json:"ingressReady"`
	Message      string             `json:"message,omitempty"`
	URL          string             `json:"url,omitempty"`
	ExpiresAt    time.Time          `json:"expiresAt"`
	ObservedAt   time.Time          `json:"observedAt"`
	Conditions   []metav1.Condition `json:"conditions,omitempty"`
}

// Workshop is the aggregate returned to clients: the immutable spec plus a
// freshly projected status.
type Workshop struct {
	Name      string          `json:"name"`
	Namespace string          `json:"namespace"`
	Spec      v1.WorkshopSpec `json:"spec"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}
