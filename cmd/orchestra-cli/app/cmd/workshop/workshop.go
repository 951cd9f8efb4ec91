package workshop

import (
	"github.com/spf13/cobra"
)

func NewWorkshopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workshop",
		Aliases: []string{"workshops", "ws"},
		Short:   "Manage workshops",
		Long:    `Create, inspect and delete time-bounded RStudio workshops`,
	}

	cmd.AddCommand(NewCreateCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewGetCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
