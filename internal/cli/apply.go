package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okranek/muninn/internal/backup"
	"github.com/okranek/muninn/internal/executor"
	"github.com/okranek/muninn/internal/report"
)

var (
	applyDryRun bool
	applyForce  bool
	applyFormat string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Move misfiled notes to their type's directory",
	Long: `Apply the current move plan: snapshot the corpus, move every non-blocked
entry, rebuild the reference index, and verify that no previously resolvable
reference broke. If resolution regresses the snapshot is restored
automatically and the run is reported as rolled back.

On success the snapshot is retained for manual rollback ('mnn snapshot
list'). Exactly one apply may run against a corpus at a time.

Examples:
  mnn apply --dry-run   # identical to 'mnn plan'
  mnn apply             # prompt, then commit
  mnn apply --force     # commit without prompting`,
	RunE: func(cmd *cobra.Command, args []string) error {
		corpusPath := getCorpusPath()

		f, err := report.ParseFormat(applyFormat)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		_, plan, warnings, err := loadPlan(corpusPath)
		if err != nil {
			return planLoadError(err)
		}

		backups, err := backupManager(corpusPath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		exec := executor.New(corpusPath, backups)

		if applyDryRun {
			res, err := exec.Preview(cmd.Context(), plan)
			if err != nil {
				return handleError(ErrPlanFailed, err, "")
			}
			return renderResult(res, warnings, f)
		}

		if plan.MoveCount() > 0 && !applyForce && !isJSONOutput() {
			out, _ := report.RenderPlan(plan, report.FormatTable)
			fmt.Print(out)
			fmt.Printf("\nApply %d moves? [y/N]: ", plan.MoveCount())

			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return handleError(ErrInternal, err, "")
			}
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		res, err := exec.Apply(cmd.Context(), plan)
		if err != nil {
			switch {
			case errors.Is(err, executor.ErrCorpusLocked):
				return handleError(ErrCorpusLocked, err, "Wait for the other run to finish")
			case errors.Is(err, backup.ErrBackup):
				return handleError(ErrBackupFailed, err, "No mutation was performed")
			case errors.Is(err, backup.ErrRollback):
				suggestion := ""
				if res != nil && res.Backup.ID != "" {
					suggestion = fmt.Sprintf("Re-inspect and restore manually: mnn snapshot restore %s", res.Backup.ID)
				}
				return handleError(ErrRollbackFailed, err, suggestion)
			default:
				return handleError(ErrApplyFailed, err, "")
			}
		}

		for _, entry := range res.Blocked {
			warnings = append(warnings, Warning{
				Code:    WarnBlocked,
				Message: fmt.Sprintf("%s not moved: %s", entry.FromPath, entry.Reason),
				Ref:     entry.FromPath,
			})
		}
		if res.RolledBack {
			warnings = append(warnings, Warning{
				Code:    WarnRolledBack,
				Message: res.FailureReason,
				Ref:     res.Backup.ID,
			})
		}
		return renderResult(res, warnings, f)
	},
}

func renderResult(res *executor.Result, warnings []Warning, f report.Format) error {
	if isJSONOutput() {
		outputSuccessWithWarnings(struct {
			Result  interface{}    `json:"result"`
			Summary report.Summary `json:"summary"`
		}{res, report.ResultSummary(res)}, warnings)
		return nil
	}

	printWarnings(warnings)
	out, err := report.RenderResult(res, f)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	printRendered(out, f)
	return nil
}

func init() {
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Preview without mutating the corpus")
	applyCmd.Flags().BoolVar(&applyForce, "force", false, "Skip the confirmation prompt")
	applyCmd.Flags().StringVar(&applyFormat, "format", "table", "Output format: table, json, or markdown")
	rootCmd.AddCommand(applyCmd)
}
