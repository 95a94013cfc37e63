package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/okranek/muninn/internal/config"
	"github.com/okranek/muninn/internal/corpus"
	"github.com/okranek/muninn/internal/report"
)

var planFormat string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview which notes would move, without mutating anything",
	Long: `Compute the move plan for the corpus: every note whose declared type
disagrees with the directory it lives in, the destination it would move to,
and any blocked or skipped entries.

Planning is read-only and deterministic: the same corpus always yields the
same plan, in the same order. Notes with a missing or unrecognized type are
skipped and reported, never moved on a guess.

Examples:
  mnn plan                     # human-readable table
  mnn plan --format json       # machine-parsable
  mnn plan --format markdown   # rendered for the terminal`,
	RunE: func(cmd *cobra.Command, args []string) error {
		corpusPath := getCorpusPath()

		f, err := report.ParseFormat(planFormat)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		_, plan, warnings, err := loadPlan(corpusPath)
		if err != nil {
			return planLoadError(err)
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(struct {
				Plan    interface{}    `json:"plan"`
				Summary report.Summary `json:"summary"`
			}{plan, report.PlanSummary(plan)}, warnings)
			return nil
		}

		printWarnings(warnings)
		out, err := report.RenderPlan(plan, f)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		printRendered(out, f)
		return nil
	},
}

// planLoadError maps plan/corpus load failures to stable error codes.
func planLoadError(err error) error {
	switch {
	case errors.Is(err, corpus.ErrRootNotFound):
		return handleError(ErrCorpusNotFound, err, "Check the corpus path")
	case errors.Is(err, config.ErrConfiguration):
		return handleError(ErrConfigInvalid, err, "Fix the directories table in muninn.yaml")
	default:
		return handleError(ErrPlanFailed, err, "")
	}
}

func init() {
	planCmd.Flags().StringVar(&planFormat, "format", "table", "Output format: table, json, or markdown")
	rootCmd.AddCommand(planCmd)
}
