package cli

import (
	"fmt"

	"github.com/okranek/muninn/internal/backup"
	"github.com/okranek/muninn/internal/config"
	"github.com/okranek/muninn/internal/corpus"
	"github.com/okranek/muninn/internal/planner"
	"github.com/okranek/muninn/internal/report"
	"github.com/okranek/muninn/internal/ui"
)

// loadPlan loads the corpus and computes the current move plan.
// Per-document read errors are returned as warnings, not failures.
func loadPlan(corpusPath string) (*corpus.Corpus, *planner.Plan, []Warning, error) {
	corpusCfg, err := config.LoadCorpusConfig(corpusPath)
	if err != nil {
		return nil, nil, nil, err
	}
	table, err := corpusCfg.ConventionTable()
	if err != nil {
		return nil, nil, nil, err
	}

	c, err := corpus.Load(corpusPath)
	if err != nil {
		return nil, nil, nil, err
	}

	var warnings []Warning
	for _, re := range c.ReadErrors {
		warnings = append(warnings, Warning{
			Code:    WarnReadError,
			Message: re.Error(),
			Ref:     re.RelPath,
		})
	}

	plan, err := planner.Compute(c, table)
	if err != nil {
		return nil, nil, nil, err
	}
	return c, plan, warnings, nil
}

// backupManager builds the backup manager for a corpus, honoring the
// backup_dir override in muninn.yaml.
func backupManager(corpusPath string) (*backup.Manager, error) {
	corpusCfg, err := config.LoadCorpusConfig(corpusPath)
	if err != nil {
		return nil, err
	}
	return backup.NewManager(corpusPath, corpusCfg.BackupDir), nil
}

// printRendered prints a report rendering, piping markdown through the
// terminal renderer when stdout is a tty.
func printRendered(out string, f report.Format) {
	if f == report.FormatMarkdown && ui.IsTerminal() {
		if rendered, err := ui.RenderMarkdown(out, ui.TermWidth()); err == nil {
			fmt.Print(rendered)
			return
		}
	}
	fmt.Print(out)
}

// printWarnings prints warnings in text mode.
func printWarnings(warnings []Warning) {
	for _, w := range warnings {
		fmt.Printf("⚠ %s\n", w.Message)
	}
}
