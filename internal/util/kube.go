package util

import (
	"time"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"

	v1 "github.com/orchestra-io/orchestra/api/v1"
)

// KubeConfig describes how to reach the cluster API.
type KubeConfig struct {
	// Kubeconfig is a path to a kubeconfig file. Empty means in-cluster config
	// with a fallback to the default loading rules.
	Kubeconfig string
	InCluster  bool
	QPS        float32
	Burst      int
	// Timeout bounds every request to the cluster API.
	Timeout time.Duration
}

// NewScheme returns a scheme with the built-in kinds and Workshop registered.
func NewScheme() (*runtime.Scheme, error) {
	scheme := runtime.NewScheme()

	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return nil, errors.Wrap(err, "failed to add client-go types to scheme")
	}

	if err := v1.AddToScheme(scheme); err != nil {
		return nil, errors.Wrap(err, "failed to add workshop types to scheme")
	}

	return scheme, nil
}

// GetRESTConfig loads a REST config, preferring in-cluster configuration when
// requested and falling back to kubeconfig loading rules otherwise.
func GetRESTConfig(c KubeConfig) (*rest.Config, error) {
	var (
		restConfig *rest.Config
		err        error
	)

	if c.InCluster {
		restConfig, err = rest.InClusterConfig()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load in-cluster config")
		}
	} else {
		loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
		if c.Kubeconfig != "" {
			loadingRules.ExplicitPath = c.Kubeconfig
		}

		restConfig, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, &clientcmd.ConfigOverrides{}).ClientConfig()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load kubeconfig")
		}
	}

	if c.QPS > 0 {
		restConfig.QPS = c.QPS
	}

	if c.Burst > 0 {
		restConfig.Burst = c.Burst
	}

	restConfig.Timeout = c.Timeout

	return restConfig, nil
}

// GetClient builds a controller-runtime client that understands Workshops.
func GetClient(c KubeConfig) (client.Client, error) {
	restConfig, err := GetRESTConfig(c)
	if err != nil {
		return nil, err
	}

	scheme, err := NewScheme()
	if err != nil {
		return nil, err
	}

	ctrClient, err := client.New(restConfig, client.Options{
		Scheme: scheme,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create controller client")
	}

	return ctrClient, nil
}
