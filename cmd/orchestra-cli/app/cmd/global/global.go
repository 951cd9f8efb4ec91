package global

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/orchestra-io/orchestra/pkg/client"
)

const defaultServerURL = "http://localhost:8000"

var (
	ServerURL string
	Token     string
	Namespace string
	Insecure  bool
	Timeout   time.Duration
)

// AddFlags registers the connection flags as persistent flags on the root command.
func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&ServerURL, "server-url", "", "API server URL (env: ORCHESTRA_SERVER_URL)")
	cmd.PersistentFlags().StringVar(&Token, "token", "", "Bearer token (env: ORCHESTRA_TOKEN)")
	cmd.PersistentFlags().StringVarP(&Namespace, "namespace", "n", "", "Workshop namespace, the server default when empty (env: ORCHESTRA_NAMESPACE)")
	cmd.PersistentFlags().BoolVar(&Insecure, "insecure", false, "Skip TLS verification")
	cmd.PersistentFlags().DurationVar(&Timeout, "request-timeout", 30*time.Second, "Timeout of a single API request")
}

// ResolveEnv fills in flag values from environment variables when not set via flags.
func ResolveEnv() {
	if ServerURL == "" {
		ServerURL = os.Getenv("ORCHESTRA_SERVER_URL")
	}

	if ServerURL == "" {
		ServerURL = defaultServerURL
	}

	if Token == "" {
		Token = os.Getenv("ORCHESTRA_TOKEN")
	}

	if Namespace == "" {
		Namespace = os.Getenv("ORCHESTRA_NAMESPACE")
	}
}

func NewClient() *client.Client {
	opts := []client.ClientOption{
		client.WithToken(Token),
		client.WithNamespace(Namespace),
		client.WithTimeout(Timeout),
	}

	if Insecure {
		opts = append(opts, client.WithInsecureSkipVerify())
	}

	return client.NewClient(ServerURL, opts...)
}
