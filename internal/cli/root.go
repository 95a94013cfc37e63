// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okranek/muninn/internal/config"
	"github.com/okranek/muninn/internal/ui"
)

var (
	// Global flags
	corpusName     string // Named corpus from config
	corpusPathFlag string // Explicit path
	configPath     string

	// Resolved values
	resolvedCorpusPath string
	cfg                *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mnn",
	Short: "Muninn - safe reorganization for markdown knowledge bases",
	Long: `Muninn reorganizes a corpus of interlinked markdown notes so each note
lives in the directory its declared type calls for, without ever losing
data or silently breaking a reference.

Every apply run snapshots the corpus first, verifies the reference graph
afterward, and rolls back automatically if resolution regresses.

Named for Muninn (memory), one of Odin's two ravens.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that don't need a corpus
		switch cmd.Name() {
		case "init", "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ui.ConfigureTheme(cfg.UI.Accent)

		// Resolve corpus path: explicit path > named corpus > config default
		if corpusPathFlag != "" {
			resolvedCorpusPath = corpusPathFlag
		} else {
			resolvedCorpusPath, err = cfg.GetCorpusPath(corpusName)
			if err != nil {
				return fmt.Errorf(`no corpus specified

Either:
  1. Use --corpus-path /path/to/corpus
  2. Use --corpus <name> (from config)
  3. Set default_corpus in %s
  4. Run 'mnn init /path/to/corpus' to scaffold one`, config.ResolveConfigPath(configPath))
			}
		}

		if _, err := os.Stat(resolvedCorpusPath); os.IsNotExist(err) {
			return fmt.Errorf("corpus not found: %s", resolvedCorpusPath)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&corpusName, "corpus", "c", "", "Named corpus from config")
	rootCmd.PersistentFlags().StringVar(&corpusPathFlag, "corpus-path", "", "Explicit path to corpus root")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getCorpusPath returns the resolved corpus path.
func getCorpusPath() string {
	return resolvedCorpusPath
}
