package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/orchestra-io/orchestra/internal/util"
)

// KubernetesOptions holds cluster access options
type KubernetesOptions struct {
	Kubeconfig string
	InCluster  bool
	Namespace  string
	QPS        float32
	Burst      int
	Timeout    time.Duration
}

func NewKubernetesOptions() *KubernetesOptions {
	return &KubernetesOptions{
		Namespace: "default",
		QPS:       10,
		Burst:     20,
		Timeout:   30 * time.Second,
	}
}

func (o *KubernetesOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Kubeconfig, "kubeconfig", o.Kubeconfig, "path to a kubeconfig file, defaults to the standard loading rules")
	fs.BoolVar(&o.InCluster, "in-cluster", o.InCluster, "use the service account of the pod")
	fs.StringVar(&o.Namespace, "namespace", o.Namespace, "namespace used by workshop requests without a namespace parameter")
	fs.Float32Var(&o.QPS, "kube-qps", o.QPS, "queries per second to the cluster API")
	fs.IntVar(&o.Burst, "kube-burst", o.Burst, "burst of queries to the cluster API")
	fs.DurationVar(&o.Timeout, "kube-timeout", o.Timeout, "timeout of a single cluster API request")
}

func (o *KubernetesOptions) Validate() error {
	if o.InCluster && o.Kubeconfig != "" {
		return fmt.Errorf("--in-cluster and --kubeconfig are mutually exclusive")
	}

	if msgs := validation.IsDNS1123Label(o.Namespace); len(msgs) > 0 {
		return fmt.Errorf("--namespace %q is invalid: %v", o.Namespace, msgs)
	}

	if o.Timeout <= 0 {
		return fmt.Errorf("--kube-timeout must be positive")
	}

	return nil
}

func (o *KubernetesOptions) KubeConfig() util.KubeConfig {
	return util.KubeConfig{
		Kubeconfig: o.Kubeconfig,
		InCluster:  o.InCluster,
		QPS:        o.QPS,
		Burst:      o.Burst,
		Timeout:    o.Timeout,
	}
}
