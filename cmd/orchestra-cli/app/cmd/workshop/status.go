package workshop

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/orchestra-io/orchestra/cmd/orchestra-cli/app/cmd/global"
	"github.com/orchestra-io/orchestra/internal/workshop"
	"github.com/orchestra-io/orchestra/pkg/client"
)

type statusOptions struct {
	output   string
	watch    bool
	interval time.Duration
	timeout  time.Duration
}

func NewStatusCmd() *cobra.Command {
	opts := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status NAME",
		Short: "Show the status of a workshop",
		Long: `Show the projected status of a workshop.

With --watch the status is polled and printed on every phase change until
the workshop is Running, Failed or gone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(opts.output); err != nil {
				return err
			}

			c := global.NewClient()
			p := newPrinter(cmd.OutOrStdout(), opts.output)

			if opts.watch {
				return watchStatus(cmd.Context(), c, p, args[0], opts)
			}

			st, err := c.Workshops.Status(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get status of workshop %s: %w", args[0], err)
			}

			return p.printStatus(st.Name, st.Status)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "Output format: table, json, yaml")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Poll until the workshop settles")
	cmd.Flags().DurationVar(&opts.interval, "interval", 5*time.Second, "Watch poll interval")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Minute, "Watch timeout")

	return cmd
}

func watchStatus(ctx context.Context, c *client.Client, p *printer, name string, opts *statusOptions) error {
	var last workshop.Phase

	err := wait.PollUntilContextTimeout(ctx, opts.interval, opts.timeout, true, func(ctx context.Context) (bool, error) {
		st, err := c.Workshops.Status(ctx, name)
		if client.IsNotFound(err) {
			fmt.Fprintf(p.out, "Workshop %s is gone\n", name)
			return true, nil
		}

		if err != nil {
			return false, err
		}

		if st.Status.Phase != last {
			last = st.Status.Phase

			if err := p.printStatus(st.Name, st.Status); err != nil {
				return false, err
			}
		}

		return settled(st.Status.Phase), nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch workshop %s: %w", name, err)
	}

	return nil
}

func settled(phase workshop.Phase) bool {
	return phase == workshop.PhaseRunning || phase == workshop.PhaseFailed
}
