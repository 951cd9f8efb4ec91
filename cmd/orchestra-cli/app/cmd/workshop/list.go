package workshop

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orchestra-io/orchestra/cmd/orchestra-cli/app/cmd/global"
	"github.com/orchestra-io/orchestra/internal/workshop"
	"github.com/orchestra-io/orchestra/pkg/client"
)

func NewListCmd() *cobra.Command {
	var (
		output string
		page   int
		size   int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List workshops",
		Long:    `List workshops in creation order. Without --page every page is fetched.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			c := global.NewClient()

			var (
				items []workshop.Workshop
				err   error
			)

			if page > 0 {
				var list *client.WorkshopList

				list, err = c.Workshops.List(cmd.Context(), client.ListOptions{Page: page, Size: size})
				if list != nil {
					items = list.Items
				}
			} else {
				items, err = c.Workshops.ListAll(cmd.Context())
			}

			if err != nil {
				return fmt.Errorf("failed to list workshops: %w", err)
			}

			if len(items) == 0 && output == outputTable {
				fmt.Fprintln(cmd.OutOrStdout(), "No workshops found")
				return nil
			}

			return newPrinter(cmd.OutOrStdout(), output).printWorkshops(items, false)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, yaml")
	cmd.Flags().IntVar(&page, "page", 0, "Fetch only this page")
	cmd.Flags().IntVar(&size, "size", 0, "Page size used with --page")

	return cmd
}
