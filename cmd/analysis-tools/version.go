package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	analysistools "github.com/rtxi/analysis-tools"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of analysis-tools",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "analysis-tools version %s\n", strings.TrimSpace(analysistools.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
