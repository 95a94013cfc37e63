// Package report renders move plans and execution results. Rendering is a
// pure function with no file-writing side effect; callers decide persistence.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/okranek/muninn/internal/executor"
	"github.com/okranek/muninn/internal/planner"
	"github.com/okranek/muninn/internal/ui"
)

// Format selects a rendering.
type Format string

const (
	// FormatJSON is the machine-parsable structured rendering.
	FormatJSON Format = "json"
	// FormatTable is the tabular human-readable rendering.
	FormatTable Format = "table"
	// FormatMarkdown renders a markdown document, suitable for terminal
	// display or saving alongside the corpus.
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatTable, "":
		return FormatTable, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json, table, or markdown)", s)
	}
}

// Summary is the counts line every rendering includes.
type Summary struct {
	Planned    int `json:"planned"`
	Executed   int `json:"executed"`
	Blocked    int `json:"blocked"`
	Skipped    int `json:"skipped"`
	RolledBack int `json:"rolled_back"`
}

func (s Summary) String() string {
	return fmt.Sprintf("planned %d, executed %d, blocked %d, skipped %d, rolled back %d",
		s.Planned, s.Executed, s.Blocked, s.Skipped, s.RolledBack)
}

// PlanSummary computes the summary for a dry plan (nothing executed).
func PlanSummary(p *planner.Plan) Summary {
	return Summary{
		Planned: len(p.Entries),
		Blocked: p.BlockedCount(),
		Skipped: len(p.Skipped),
	}
}

// ResultSummary computes the summary for an execution result.
func ResultSummary(r *executor.Result) Summary {
	s := Summary{
		Planned:  len(r.Plan.Entries),
		Executed: len(r.Executed),
		Blocked:  len(r.Blocked),
		Skipped:  len(r.Plan.Skipped),
	}
	if r.RolledBack {
		s.RolledBack = len(r.Executed)
	}
	return s
}

// RenderPlan renders a move plan.
func RenderPlan(p *planner.Plan, f Format) (string, error) {
	switch f {
	case FormatJSON:
		return renderJSON(struct {
			*planner.Plan
			Summary Summary `json:"summary"`
		}{p, PlanSummary(p)})
	case FormatMarkdown:
		return renderPlanMarkdown(p), nil
	default:
		return renderPlanTable(p), nil
	}
}

// RenderResult renders an execution (or preview) result.
func RenderResult(r *executor.Result, f Format) (string, error) {
	switch f {
	case FormatJSON:
		return renderJSON(struct {
			*executor.Result
			Summary Summary `json:"summary"`
		}{r, ResultSummary(r)})
	case FormatMarkdown:
		return renderResultMarkdown(r), nil
	default:
		return renderResultTable(r), nil
	}
}

func renderJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func entryRows(entries []planner.Entry, t *ui.Table) {
	for _, e := range entries {
		flag := ""
		if e.Blocked {
			flag = "BLOCKED"
		}
		t.AddRow(e.FromPath, "→", e.ToPath, e.Reason, flag)
	}
}

func renderPlanTable(p *planner.Plan) string {
	var sb strings.Builder

	if len(p.Entries) == 0 {
		sb.WriteString("No moves needed. Corpus already organized.\n")
	} else {
		t := ui.NewTable(5)
		entryRows(p.Entries, t)
		sb.WriteString(t.String())
	}

	if len(p.Skipped) > 0 {
		sb.WriteString("\nSkipped (never moved on a guess):\n")
		t := ui.NewTable(2)
		for _, s := range p.Skipped {
			t.AddRow("  "+s.Path, s.Reason)
		}
		sb.WriteString(t.String())
	}

	sb.WriteString("\nSummary: " + PlanSummary(p).String() + "\n")
	return sb.String()
}

func renderResultTable(r *executor.Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("State: %s\n", r.State))
	if r.Backup.ID != "" {
		sb.WriteString(fmt.Sprintf("Backup: %s\n", r.Backup.ID))
	}
	if r.FailureReason != "" {
		sb.WriteString(fmt.Sprintf("Failure: %s\n", r.FailureReason))
	}

	if len(r.Executed) > 0 {
		sb.WriteString("\nMoved:\n")
		t := ui.NewTable(5)
		entryRows(r.Executed, t)
		sb.WriteString(t.String())
	}
	if len(r.Blocked) > 0 {
		sb.WriteString("\nBlocked:\n")
		t := ui.NewTable(5)
		entryRows(r.Blocked, t)
		sb.WriteString(t.String())
	}
	if len(r.Plan.Skipped) > 0 {
		sb.WriteString("\nSkipped:\n")
		t := ui.NewTable(2)
		for _, s := range r.Plan.Skipped {
			t.AddRow("  "+s.Path, s.Reason)
		}
		sb.WriteString(t.String())
	}

	sb.WriteString(fmt.Sprintf("\nValidation: %s\n", r.Validation.Summary()))
	sb.WriteString("Summary: " + ResultSummary(r).String() + "\n")
	return sb.String()
}

func renderPlanMarkdown(p *planner.Plan) string {
	var sb strings.Builder
	sb.WriteString("# Move plan\n\n")
	writeEntriesMarkdown(&sb, p.Entries)
	if len(p.Skipped) > 0 {
		sb.WriteString("\n## Skipped\n\n")
		for _, s := range p.Skipped {
			sb.WriteString(fmt.Sprintf("- `%s`: %s\n", s.Path, s.Reason))
		}
	}
	sb.WriteString("\n**Summary:** " + PlanSummary(p).String() + "\n")
	return sb.String()
}

func renderResultMarkdown(r *executor.Result) string {
	var sb strings.Builder
	sb.WriteString("# Execution result\n\n")
	sb.WriteString(fmt.Sprintf("- State: `%s`\n", r.State))
	if r.Backup.ID != "" {
		sb.WriteString(fmt.Sprintf("- Backup: `%s`\n", r.Backup.ID))
	}
	if r.FailureReason != "" {
		sb.WriteString(fmt.Sprintf("- Failure: %s\n", r.FailureReason))
	}
	sb.WriteString(fmt.Sprintf("- Validation: %s\n", r.Validation.Summary()))

	if len(r.Executed) > 0 {
		sb.WriteString("\n## Moved\n\n")
		writeEntriesMarkdown(&sb, r.Executed)
	}
	if len(r.Blocked) > 0 {
		sb.WriteString("\n## Blocked\n\n")
		writeEntriesMarkdown(&sb, r.Blocked)
	}

	sb.WriteString("\n**Summary:** " + ResultSummary(r).String() + "\n")
	return sb.String()
}

func writeEntriesMarkdown(sb *strings.Builder, entries []planner.Entry) {
	if len(entries) == 0 {
		sb.WriteString("_No moves needed._\n")
		return
	}
	sb.WriteString("| From | To | Reason | Blocked |\n")
	sb.WriteString("|------|----|--------|---------|\n")
	for _, e := range entries {
		blocked := ""
		if e.Blocked {
			blocked = "yes"
		}
		sb.WriteString(fmt.Sprintf("| `%s` | `%s` | %s | %s |\n", e.FromPath, e.ToPath, e.Reason, blocked))
	}
}
