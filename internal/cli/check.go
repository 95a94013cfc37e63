package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okranek/muninn/internal/corpus"
	"github.com/okranek/muninn/internal/linkindex"
	"github.com/okranek/muninn/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify reference resolution across the corpus",
	Long: `Build the reference index and report every unresolved or ambiguous
reference, plus heading anchors that point at headings the target note
doesn't have. Read-only.

Pre-existing dangling references are normal in a growing corpus; this
command reports them but 'mnn apply' only fails a run when resolution
regresses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		corpusPath := getCorpusPath()

		c, err := corpus.Load(corpusPath)
		if err != nil {
			return handleError(ErrCorpusNotFound, err, "Check the corpus path")
		}

		ix, err := linkindex.Build(cmd.Context(), c)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		var warnings []Warning
		for _, re := range c.ReadErrors {
			warnings = append(warnings, Warning{Code: WarnReadError, Message: re.Error(), Ref: re.RelPath})
		}
		for _, ref := range ix.References {
			switch ref.Status {
			case linkindex.StatusUnresolved:
				msg := fmt.Sprintf("%s:%d: unresolved reference %s", ref.SourcePath, ref.Line, ref.Literal)
				if suggestions := ix.Suggestions(ref.Target); len(suggestions) > 0 {
					msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
				}
				warnings = append(warnings, Warning{Code: WarnUnresolved, Message: msg, Ref: ref.SourcePath})
			case linkindex.StatusAmbiguous:
				warnings = append(warnings, Warning{
					Code:    WarnAmbiguous,
					Message: fmt.Sprintf("%s:%d: ambiguous reference %s", ref.SourcePath, ref.Line, ref.Literal),
					Ref:     ref.SourcePath,
				})
			case linkindex.StatusResolved:
				if ref.AnchorMissing {
					warnings = append(warnings, Warning{
						Code:    WarnAnchorMissing,
						Message: fmt.Sprintf("%s:%d: %s resolves but heading %q not found", ref.SourcePath, ref.Line, ref.Literal, ref.Anchor),
						Ref:     ref.SourcePath,
					})
				}
			}
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(struct {
				Documents  int                   `json:"documents"`
				References int                   `json:"references"`
				Resolved   int                   `json:"resolved"`
				Unresolved int                   `json:"unresolved"`
				Refs       []linkindex.Reference `json:"refs"`
			}{len(c.Documents), len(ix.References), ix.ResolvedCount(), ix.UnresolvedCount(), ix.References}, warnings)
			return nil
		}

		printWarnings(warnings)
		fmt.Printf("%s %d documents, %d references: %d resolved, %d unresolved\n",
			ui.Bold.Render("✓"), len(c.Documents), len(ix.References), ix.ResolvedCount(), ix.UnresolvedCount())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
