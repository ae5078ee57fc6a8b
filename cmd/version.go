package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/solarrail/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of solarrail",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("solarrail v%s\n", version.Version)
		fmt.Printf("Build: %s (commit %s)\n", version.BuildTime, version.GitCommit)
		fmt.Println("Solar Panel Rail Span Design Tool")
		fmt.Println("Based on AS/NZS 1170.2 (Wind actions)")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
