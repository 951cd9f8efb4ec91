package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/orchestra-io/orchestra/cmd/orchestra-cli/app/cmd/global"
	"github.com/orchestra-io/orchestra/internal/version"
)

func newVersionCmd() *cobra.Command {
	var clientOnly bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, git commit, build time, and other build information for orchestra-cli and the server it talks to`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Client: %s\n", version.Get().String())

			if clientOnly {
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			info, err := global.NewClient().System.Info(ctx)
			if err != nil {
				fmt.Fprintf(out, "Server: unavailable (%v)\n", err)
				return nil
			}

			fmt.Fprintf(out, "Server: %s %s\n", info.Name, info.Version)

			return nil
		},
	}

	cmd.Flags().BoolVar(&clientOnly, "client", false, "Only print the client version")

	return cmd
}
