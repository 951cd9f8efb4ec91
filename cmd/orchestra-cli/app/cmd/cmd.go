package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orchestra-io/orchestra/cmd/orchestra-cli/app/cmd/global"
	"github.com/orchestra-io/orchestra/cmd/orchestra-cli/app/cmd/workshop"
)

func NewOrchestraCliCommand() *cobra.Command {
	orchestraCliCmd := &cobra.Command{
		Use:   "orchestra-cli",
		Short: "Orchestra Command Line Interface",
		Long: `Orchestra CLI manages RStudio workshops through the Orchestra API.

Examples:
  # Create a workshop that lives for two hours
  orchestra-cli workshop create ws1 --duration 2h

  # List workshops
  orchestra-cli workshop list

  # Follow a workshop until it is running
  orchestra-cli workshop status ws1 --watch`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			global.ResolveEnv()
		},
	}

	global.AddFlags(orchestraCliCmd)

	orchestraCliCmd.AddCommand(workshop.NewWorkshopCmd())
	orchestraCliCmd.AddCommand(newVersionCmd())

	return orchestraCliCmd
}

func Execute() {
	err := NewOrchestraCliCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
