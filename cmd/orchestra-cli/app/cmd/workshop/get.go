package workshop

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orchestra-io/orchestra/cmd/orchestra-cli/app/cmd/global"
	"github.com/orchestra-io/orchestra/internal/workshop"
)

func NewGetCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Show a workshop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			ws, err := global.NewClient().Workshops.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get workshop %s: %w", args[0], err)
			}

			return newPrinter(cmd.OutOrStdout(), output).printWorkshops([]workshop.Workshop{*ws}, true)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, yaml")

	return cmd
}
