// Package projector derives the client-facing workshop status from a single
// observation of the cluster. Nothing is cached between calls: the phase is a
// function of the snapshot and the current time only.
package projector

import (
	"fmt"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	v1 "github.com/orchestra-io/orchestra/api/v1"
	"github.com/orchestra-io/orchestra/internal/workshop"
	"github.com/orchestra-io/orchestra/internal/workshop/resource"
)

// DefaultGrace is how long before expiry a workshop is reported as Expiring.
const DefaultGrace = 15 * time.Minute

// operator-reported phase meaning the resource gave up
const resourcePhaseFailed = "Failed"

// Container waiting reasons that will not resolve without user action.
var fatalWaitingReasons = map[string]bool{
	"ErrImagePull":               true,
	"ImagePullBackOff":           true,
	"InvalidImageName":           true,
	"CrashLoopBackOff":           true,
	"CreateContainerConfigError": true,
	"CreateContainerError":       true,
}

type Projector struct {
	grace time.Duration
}

func New(grace time.Duration) *Projector {
	if grace < 0 {
		grace = 0
	}

	return &Projector{grace: grace}
}

// Project maps snapshot onto the phase state machine. Precedence is
// Failed, Expiring, Running, Provisioning, Pending.
func (p *Projector) Project(s *resource.Snapshot, now time.Time) workshop.Status {
	w := s.Workshop

	status := workshop.Status{
		ExpiresAt:    expiresAt(w),
		ObservedAt:   now,
		PodReady:     podReady(w, s.Pods),
		IngressReady: ingressReady(w, s.Ingresses),
		Conditions:   w.Status.Conditions,
	}

	if msg, failed := failure(w, s.Pods); failed {
		status.Phase = workshop.PhaseFailed
		status.Message = msg

		return status
	}

	running := status.PodReady && status.IngressReady
	if running {
		status.URL = url(w)
	}

	switch {
	case !status.ExpiresAt.IsZero() && !now.Before(status.ExpiresAt.Add(-p.grace)):
		status.Phase = workshop.PhaseExpiring
		if now.Before(status.ExpiresAt) {
			status.Message = fmt.Sprintf("workshop expires at %s", status.ExpiresAt.Format(time.RFC3339))
		} else {
			status.Message = fmt.Sprintf("workshop expired at %s and is awaiting removal", status.ExpiresAt.Format(time.RFC3339))
		}
	case running:
		status.Phase = workshop.PhaseRunning
		status.Message = readyMessage(w)
	case pending(w, s):
		status.Phase = workshop.PhasePending
		status.Message = "waiting for the operator to pick up the workshop"
	default:
		status.Phase = workshop.PhaseProvisioning
		status.Message = provisioningMessage(status)
	}

	return status
}

func expiresAt(w *v1.Workshop) time.Time {
	if !w.Spec.ExpiresAt.IsZero() {
		return w.Spec.ExpiresAt.Time
	}

	if w.Status.ExpiresAt != nil {
		return w.Status.ExpiresAt.Time
	}

	return time.Time{}
}

func pending(w *v1.Workshop, s *resource.Snapshot) bool {
	if len(w.Status.Conditions) > 0 || len(s.Pods) > 0 || len(s.Ingresses) > 0 {
		return false
	}

	return w.Status.Phase == "" || w.Status.Phase == string(workshop.PhasePending)
}

func podReady(w *v1.Workshop, pods []corev1.Pod) bool {
	if c := meta.FindStatusCondition(w.Status.Conditions, v1.ConditionPodReady); c != nil {
		return c.Status == metav1.ConditionTrue
	}

	for i := range pods {
		pod := &pods[i]
		if pod.DeletionTimestamp != nil || pod.Status.Phase != corev1.PodRunning {
			continue
		}

		for _, c := range pod.Status.Conditions {
			if c.Type == corev1.PodReady && c.Status == corev1.ConditionTrue {
				return true
			}
		}
	}

	return false
}

func ingressReady(w *v1.Workshop, ingresses []networkingv1.Ingress) bool {
	if c := meta.FindStatusCondition(w.Status.Conditions, v1.ConditionIngressReady); c != nil {
		return c.Status == metav1.ConditionTrue
	}

	for i := range ingresses {
		if len(ingresses[i].Status.LoadBalancer.Ingress) > 0 {
			return true
		}
	}

	// nothing to wait for when no ingress was requested
	return w.Spec.Ingress == nil && len(ingresses) == 0
}

// failure reports whether the resource or its pod reports an error that will
// not resolve by waiting. The message is surfaced verbatim.
func failure(w *v1.Workshop, pods []corev1.Pod) (string, bool) {
	if c := meta.FindStatusCondition(w.Status.Conditions, v1.ConditionFailed); c != nil && c.Status == metav1.ConditionTrue {
		return conditionMessage(c), true
	}

	if w.Status.Phase == resourcePhaseFailed {
		for i := range w.Status.Conditions {
			c := &w.Status.Conditions[i]
			if c.Status == metav1.ConditionFalse && c.Message != "" {
				return c.Message, true
			}
		}

		return "workshop reported phase Failed", true
	}

	for i := range pods {
		pod := &pods[i]
		if pod.Status.Phase == corev1.PodFailed {
			msg := pod.Status.Message
			if msg == "" {
				msg = fmt.Sprintf("pod %s failed: %s", pod.Name, pod.Status.Reason)
			}

			return msg, true
		}

		for _, cs := range pod.Status.ContainerStatuses {
			if cs.State.Waiting != nil && fatalWaitingReasons[cs.State.Waiting.Reason] {
				return fmt.Sprintf("container %s: %s: %s", cs.Name, cs.State.Waiting.Reason, cs.State.Waiting.Message), true
			}
		}
	}

	return "", false
}

func conditionMessage(c *metav1.Condition) string {
	if c.Message != "" {
		return c.Message
	}

	return c.Reason
}

func readyMessage(w *v1.Workshop) string {
	if c := meta.FindStatusCondition(w.Status.Conditions, v1.ConditionReady); c != nil && c.Message != "" {
		return c.Message
	}

	return "workshop is ready"
}

func provisioningMessage(status workshop.Status) string {
	var waiting []string
	if !status.PodReady {
		waiting = append(waiting, "pod")
	}

	if !status.IngressReady {
		waiting = append(waiting, "ingress")
	}

	return "waiting for " + strings.Join(waiting, " and ")
}

func url(w *v1.Workshop) string {
	if w.Status.URL != "" {
		return w.Status.URL
	}

	if w.Spec.Ingress != nil && w.Spec.Ingress.Host != "" {
		return "https://" + w.Spec.Ingress.Host
	}

	return ""
}
