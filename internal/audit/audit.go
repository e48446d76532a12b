// Package audit generates the clinical audit table over the registered
// catalog: one row per instrument with its scoring strategy and audit
// status, rendered for the terminal or as markdown.
package audit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/psyq-catalog-server/internal/registry"
)

// Default status for instruments without an explicit override.
const (
	DefaultStatus = "NOT_AUDITED"
	DefaultNotes  = "Clinical audit required (questions and scoring)."
)

// Override pins a status and note for one instrument.
type Override struct {
	Status string
	Notes  string
}

// Row is one line of the audit table.
type Row struct {
	Code     string
	Name     string
	Items    int
	Strategy string
	Status   string
	Notes    string
}

// BuildRows assembles the audit rows for every registered questionnaire,
// in code order. Overrides are keyed by upper-case code.
func BuildRows(reg *registry.Registry, overrides map[string]Override) []Row {
	var rows []Row
	for _, md := range reg.AllMetadata() {
		row := Row{
			Code:     md.Code,
			Name:     md.Name,
			Items:    md.TotalQuestions,
			Strategy: md.ScoringStrategy,
			Status:   DefaultStatus,
			Notes:    DefaultNotes,
		}
		if md.ScoringStrategy == "not_implemented" {
			row.Status = "SCORING_PENDING"
		}
		if o, ok := overrides[strings.ToUpper(md.Code)]; ok {
			if o.Status != "" {
				row.Status = o.Status
			}
			if o.Notes != "" {
				row.Notes = o.Notes
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderMarkdown renders the rows as a markdown table.
func RenderMarkdown(rows []Row) string {
	var b strings.Builder
	b.WriteString("| Code | Name | Items | Strategy | Status | Notes |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s |\n",
			r.Code, r.Name, r.Items, r.Strategy, r.Status, r.Notes)
	}
	return b.String()
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // yellow
	auditedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7")) // gray
)

// RenderTable renders the rows for the terminal.
func RenderTable(rows []Row) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-12s %-40s %6s  %-15s %-16s", "CODE", "NAME", "ITEMS", "STRATEGY", "STATUS")))
	b.WriteString("\n")

	for _, r := range rows {
		var style lipgloss.Style
		switch r.Status {
		case "AUDITED":
			style = auditedStyle
		case "SCORING_PENDING", "REVIEW_REQUIRED", "DATA_MISSING":
			style = pendingStyle
		default:
			style = defaultStyle
		}

		name := r.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		line := fmt.Sprintf("%-12s %-40s %6d  %-15s %-16s", r.Code, name, r.Items, r.Strategy, r.Status)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
