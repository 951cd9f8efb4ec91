package workshop

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orchestra-io/orchestra/cmd/orchestra-cli/app/cmd/global"
)

func NewDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a workshop",
		Long:  `Delete a workshop and everything the operator created for it. Deleting a workshop that is already gone succeeds.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			out := cmd.OutOrStdout()

			if !force {
				fmt.Fprintf(out, "Are you sure you want to delete workshop %s? [y/N]: ", name)

				response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("failed to read input: %w", err)
				}

				response = strings.TrimSpace(response)
				if response != "y" && response != "Y" {
					fmt.Fprintln(out, "Operation cancelled")
					return nil
				}
			}

			if err := global.NewClient().Workshops.Delete(cmd.Context(), name); err != nil {
				return fmt.Errorf("failed to delete workshop %s: %w", name, err)
			}

			fmt.Fprintf(out, "Workshop %s deleted\n", name)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")

	return cmd
}
