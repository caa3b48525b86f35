package cmd

import (
	"github.com/rykov/convocgen/config"
	"github.com/spf13/cobra"

	"fmt"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of ConvocGen",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ConvocGen "+config.Build.String())
		},
	}
}
