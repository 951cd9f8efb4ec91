package v1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// WorkshopResources holds the compute sizing of the RStudio container.
type WorkshopResources struct {
	CPU           string `json:"cpu,omitempty"`
	Memory        string `json:"memory,omitempty"`
	CPURequest    string `json:"cpuRequest,omitempty"`
	MemoryRequest string `json:"memoryRequest,omitempty"`
}

// WorkshopStorage describes the persistent volume backing the home directory.
type WorkshopStorage struct {
	Size         string `json:"size,omitempty"`
	StorageClass string `json:"storageClass,omitempty"`
}

// WorkshopIngress describes how the workshop is exposed.
type WorkshopIngress struct {
	Host        string            `json:"host,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// WorkshopSpec is written once at creation and never mutated afterwards.
type WorkshopSpec struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
	// AcceptedAt is the time the request was accepted, kept at microsecond
	// resolution so it orders workshops created within the same second.
	// ExpiresAt is AcceptedAt plus Duration, at whole-second resolution.
	AcceptedAt metav1.MicroTime  `json:"acceptedAt"`
	ExpiresAt  metav1.Time       `json:"expiresAt"`
	Image      string            `json:"image"`
	Resources  WorkshopResources `json:"resources"`
	Storage    WorkshopStorage   `json:"storage"`
	Ingress    *WorkshopIngress  `json:"ingress,omitempty"`
}

// WorkshopResourceStatus is reported by the operator. The API never writes it.
type WorkshopResourceStatus struct {
	Phase      string             `json:"phase,omitempty"`
	URL        string             `json:"url,omitempty"`
	CreatedAt  *metav1.Time       `json:"createdAt,omitempty"`
	ExpiresAt  *metav1.Time       `json:"expiresAt,omitempty"`
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// Workshop is the Schema for the workshops API.
type Workshop struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   WorkshopSpec           `json:"spec,omitempty"`
	Status WorkshopResourceStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// WorkshopList contains a list of Workshop.
type WorkshopList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Workshop `json:"items"`
}
