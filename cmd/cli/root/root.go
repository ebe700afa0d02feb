package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pybo-board/pybo-client/cmd/cli/app"
)

// New builds the root command. Resource command groups register themselves
// onto it from main.
func New() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pybo",
		Short:         "PYBO question and answer board CLI",
		Long:          "Command line interface for the PYBO question and answer board.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(healthCmd())
	return rootCmd
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := app.Build()
			if err != nil {
				return err
			}
			msg, err := ctx.Client.HealthCheck(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}
