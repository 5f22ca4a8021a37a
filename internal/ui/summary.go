package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/nconklindev/tickdiff/internal/types"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(muted)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...)
}

// RenderExtraction summarizes one extraction run.
func RenderExtraction(r *types.ExtractionResult) string {
	var s strings.Builder

	if r.Halted {
		s.WriteString(TitleStyle.Render("⏸ Extraction Halted"))
	} else {
		s.WriteString(TitleStyle.Render("✓ Extraction Complete"))
	}
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Input:  %s\n", r.InputFile))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s", r.OutputFile)))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Schema: %s\n", r.Schema))
	s.WriteString(fmt.Sprintf("Lines written: %s\n", humanize.Comma(int64(r.LinesWritten))))
	if r.Halted {
		s.WriteString(WarnStyle.Render("Stopped at a checkpoint; rows written so far were kept."))
		s.WriteString("\n")
	}

	return BoxStyle.Render(s.String())
}

// RenderReconcile summarizes every pair of a reconciliation run. The match
// bar shows the share of compared rows without a diff record.
func RenderReconcile(r *types.ReconcileResult) string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("⇄ Reconciliation"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s ⇄ %s", r.LeftFile, r.RightFile)))
	s.WriteString("\n")

	bar := progress.New(progress.WithWidth(24), progress.WithSolidFill(string(warm)))
	t := newTable("Pair", "Mode", "Rows", "Diffs", "Match", "Report")
	for _, p := range r.Pairs {
		if p.Err != nil {
			t.Row(p.Pair.Name, string(p.Pair.Mode), "-", "-", ErrorStyle.Render("failed"), "-")
			continue
		}
		rate := 1.0
		if p.Compared > 0 {
			rate = float64(p.Compared-len(p.Diffs)) / float64(p.Compared)
		}
		t.Row(
			p.Pair.Name,
			string(p.Pair.Mode),
			humanize.Comma(int64(p.Compared)),
			strconv.Itoa(len(p.Diffs)),
			bar.ViewAs(rate),
			p.OutputFile,
		)
	}
	s.WriteString(t.Render())
	s.WriteString("\n")

	for _, p := range r.Failed() {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("✗ %s: %v", p.Pair.Name, p.Err)))
		s.WriteString("\n")
	}

	return s.String()
}

// RenderSchemas lists registered schemas with their column layout.
func RenderSchemas(schemas []types.Schema) string {
	t := newTable("Schema", "Version", "Prefix", "Fields", "Columns")
	for _, sc := range schemas {
		cols := make([]string, len(sc.Fields))
		for i, f := range sc.Fields {
			cols[i] = fmt.Sprintf("%s(%d)", f.Name, f.Width)
		}
		t.Row(sc.Name, strconv.Itoa(sc.Version), strconv.Itoa(sc.Prefix), strconv.Itoa(len(sc.Fields)), strings.Join(cols, " "))
	}
	return t.Render()
}

func RenderError(err error) string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(err.Error())

	return BoxStyle.Render(s.String())
}
