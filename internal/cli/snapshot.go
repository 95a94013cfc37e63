package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okranek/muninn/internal/executor"
	"github.com/okranek/muninn/internal/ui"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage corpus snapshots",
	Long: `List, prune, and restore the snapshots 'mnn apply' creates before every
mutation. Snapshots live outside the live corpus and are retained until
explicitly pruned; retention policy is yours.`,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		backups, err := backupManager(getCorpusPath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		handles, err := backups.ListSnapshots()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(struct {
				Snapshots interface{} `json:"snapshots"`
			}{handles})
			return nil
		}

		if len(handles) == 0 {
			fmt.Println("No snapshots.")
			return nil
		}
		t := ui.NewTable(2)
		for _, h := range handles {
			created := ""
			if !h.CreatedAt.IsZero() {
				created = h.CreatedAt.Local().Format(time.RFC3339)
			}
			t.AddRow(ui.Accent.Render(h.ID), created)
		}
		fmt.Print(t.String())
		return nil
	},
}

var snapshotPruneDryRun bool

var snapshotPruneCmd = &cobra.Command{
	Use:   "prune <keep-n>",
	Short: "Delete all but the N most recent snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var keepN int
		if _, err := fmt.Sscanf(args[0], "%d", &keepN); err != nil || keepN < 0 {
			return handleErrorMsg(ErrInvalidInput,
				fmt.Sprintf("invalid keep count %q", args[0]),
				"Pass a non-negative integer")
		}

		backups, err := backupManager(getCorpusPath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		deleted, err := backups.Prune(keepN, snapshotPruneDryRun)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(struct {
				Deleted interface{} `json:"deleted"`
				DryRun  bool        `json:"dry_run"`
			}{deleted, snapshotPruneDryRun})
			return nil
		}

		verb := "Deleted"
		if snapshotPruneDryRun {
			verb = "Would delete"
		}
		fmt.Printf("%s %d snapshots\n", verb, len(deleted))
		for _, h := range deleted {
			fmt.Printf("  %s\n", h.ID)
		}
		return nil
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Replace the corpus with a snapshot's contents",
	Long: `Restore a snapshot. The snapshot is re-hashed against its manifest before
anything is touched; on mismatch the restore fails and the live corpus is
left exactly as it was.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		corpusPath := getCorpusPath()
		backups, err := backupManager(corpusPath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		h, err := backups.Snapshot(args[0])
		if err != nil {
			return handleError(ErrSnapshotNotFound, err, "Run 'mnn snapshot list'")
		}

		// Restores take the same exclusive lock as apply runs.
		if err := executor.New(corpusPath, backups).Restore(h); err != nil {
			if errors.Is(err, executor.ErrCorpusLocked) {
				return handleError(ErrCorpusLocked, err, "Wait for the other run to finish")
			}
			return handleError(ErrRollbackFailed, err, "")
		}

		if isJSONOutput() {
			outputSuccess(struct {
				Restored string `json:"restored"`
			}{h.ID})
			return nil
		}
		fmt.Printf("✓ Restored snapshot %s\n", h.ID)
		return nil
	},
}

func init() {
	snapshotPruneCmd.Flags().BoolVar(&snapshotPruneDryRun, "dry-run", false, "Report what would be deleted without deleting")
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotPruneCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
	rootCmd.AddCommand(snapshotCmd)
}
