package workshop

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/orchestra-io/orchestra/cmd/orchestra-cli/app/cmd/global"
	"github.com/orchestra-io/orchestra/internal/workshop"
)

type createOptions struct {
	file          string
	duration      string
	image         string
	cpu           string
	memory        string
	cpuRequest    string
	memoryRequest string
	storage       string
	storageClass  string
	host          string
	output        string
}

func NewCreateCmd() *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create [NAME]",
		Short: "Create a workshop",
		Long: `Create a workshop from flags or from a request file.

Examples:
  # Create a workshop with the server defaults
  orchestra-cli workshop create ws1

  # Create a larger workshop reachable on a host
  orchestra-cli workshop create ws1 --duration 8h --cpu 2 --memory 4Gi --host ws1.example.org

  # Create from a YAML or JSON request file
  orchestra-cli workshop create -f ws1.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(opts.output); err != nil {
				return err
			}

			req, err := opts.request(args)
			if err != nil {
				return err
			}

			ws, err := global.NewClient().Workshops.Create(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to create workshop %s: %w", req.Name, err)
			}

			if opts.output == outputTable {
				fmt.Fprintf(cmd.OutOrStdout(), "Workshop %s created, expires at %s\n", ws.Name, ws.Status.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
				return nil
			}

			return newPrinter(cmd.OutOrStdout(), opts.output).printWorkshops([]workshop.Workshop{*ws}, true)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "filename", "f", "", "YAML or JSON file holding the request")
	cmd.Flags().StringVar(&opts.duration, "duration", "", "How long the workshop lives, e.g. 2h")
	cmd.Flags().StringVar(&opts.image, "image", "", "Container image")
	cmd.Flags().StringVar(&opts.cpu, "cpu", "", "CPU limit, e.g. 2 or 500m")
	cmd.Flags().StringVar(&opts.memory, "memory", "", "Memory limit, e.g. 4Gi")
	cmd.Flags().StringVar(&opts.cpuRequest, "cpu-request", "", "CPU request")
	cmd.Flags().StringVar(&opts.memoryRequest, "memory-request", "", "Memory request")
	cmd.Flags().StringVar(&opts.storage, "storage", "", "Persistent storage size, e.g. 10Gi")
	cmd.Flags().StringVar(&opts.storageClass, "storage-class", "", "Storage class of the volume")
	cmd.Flags().StringVar(&opts.host, "host", "", "Ingress host name")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "Output format: table, json, yaml")

	return cmd
}

// request builds the create request. Flags override values from the file.
func (o *createOptions) request(args []string) (*workshop.Request, error) {
	req := &workshop.Request{}

	if o.file != "" {
		data, err := os.ReadFile(o.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", o.file, err)
		}

		if err := yaml.UnmarshalStrict(data, req); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", o.file, err)
		}
	}

	if len(args) == 1 {
		req.Name = args[0]
	}

	if req.Name == "" {
		return nil, fmt.Errorf("a workshop name is required")
	}

	setIf(&req.Duration, o.duration)
	setIf(&req.Image, o.image)
	setIf(&req.Resources.CPU, o.cpu)
	setIf(&req.Resources.Memory, o.memory)
	setIf(&req.Resources.CPURequest, o.cpuRequest)
	setIf(&req.Resources.MemoryRequest, o.memoryRequest)

	if o.storage != "" || o.storageClass != "" {
		if req.Storage == nil {
			req.Storage = &workshop.StorageRequest{}
		}

		setIf(&req.Storage.Size, o.storage)
		setIf(&req.Storage.StorageClass, o.storageClass)
	}

	if o.host != "" {
		if req.Ingress == nil {
			req.Ingress = &workshop.IngressRequest{}
		}

		req.Ingress.Host = o.host
	}

	return req, nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
