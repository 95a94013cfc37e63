package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/okranek/muninn/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		version := buildinfo.Version
		if version == "" {
			version = "dev"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
				version = info.Main.Version
			}
		}

		if isJSONOutput() {
			outputSuccess(struct {
				Version string `json:"version"`
				Commit  string `json:"commit,omitempty"`
				Date    string `json:"date,omitempty"`
			}{version, buildinfo.Commit, buildinfo.Date})
			return nil
		}

		fmt.Printf("mnn %s\n", version)
		if buildinfo.Commit != "" {
			fmt.Printf("  commit: %s\n", buildinfo.Commit)
		}
		if buildinfo.Date != "" {
			fmt.Printf("  built:  %s\n", buildinfo.Date)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
