package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okranek/muninn/internal/history"
	"github.com/okranek/muninn/internal/ui"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded apply runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(getCorpusPath())
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		defer store.Close()

		runs, err := store.Recent(historyLimit)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(struct {
				Runs []history.Run `json:"runs"`
			}{runs})
			return nil
		}

		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return nil
		}
		t := ui.NewTable(5)
		for _, r := range runs {
			t.AddRow(
				r.FinishedAt.Local().Format(time.RFC3339),
				r.Outcome,
				fmt.Sprintf("moved %d/%d", r.Executed, r.Planned),
				fmt.Sprintf("blocked %d", r.Blocked),
				ui.Muted.Render(r.BackupID),
			)
		}
		fmt.Print(t.String())
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to show")
	rootCmd.AddCommand(historyCmd)
}
