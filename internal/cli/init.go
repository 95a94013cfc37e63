package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/okranek/muninn/internal/config"
	"github.com/okranek/muninn/internal/parser"
)

const defaultCorpusConfig = `# Muninn corpus configuration.
#
# directories maps a declared note type to the directory it belongs in.
directories:
  permanent: permanent/
  fleeting: fleeting/
  literature: literature/
  moc: moc/

# Where snapshots are stored. Defaults to a "<corpus>-backups" sibling.
# backup_dir: /path/to/backups
`

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Scaffold a new corpus",
	Long: `Create a corpus root with the default type directories and a muninn.yaml
holding the default type→directory table.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]

		configFile := filepath.Join(root, config.CorpusConfigFile)
		if _, err := os.Stat(configFile); err == nil {
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("%s already exists in %s", config.CorpusConfigFile, root),
				"Pick an empty or new directory")
		}

		for _, t := range parser.KnownTypes {
			if err := os.MkdirAll(filepath.Join(root, string(t)), 0o755); err != nil {
				return handleError(ErrInternal, err, "")
			}
		}
		if err := os.WriteFile(configFile, []byte(defaultCorpusConfig), 0o644); err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(struct {
				Root string `json:"root"`
			}{root})
			return nil
		}
		fmt.Printf("✓ Initialized corpus at %s\n", root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
