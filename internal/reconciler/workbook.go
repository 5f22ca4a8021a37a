package reconciler

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nconklindev/tickdiff/internal/types"
)

const (
	summarySheet = "Summary"
	maxSheetName = 31
)

// ExportWorkbook writes a summary sheet plus one sheet of diff records per
// successful pair into a new workbook at path.
func ExportWorkbook(result *types.ReconcileResult, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(summarySheet, "A1", &[]any{"Pair", "Mode", "Left", "Right", "Compared", "Diffs", "Status"}); err != nil {
		return err
	}

	for i, p := range result.Pairs {
		status := "ok"
		if p.Err != nil {
			status = p.Err.Error()
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{p.Pair.Name, string(p.Pair.Mode), p.Pair.Left, p.Pair.Right, p.Compared, len(p.Diffs), status}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}

		if p.Err != nil {
			continue
		}
		sheet := uniqueSheetName(f, p.Pair.Name)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("add sheet %s: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, "A1", &[]any{"Line", "Left", "Right"}); err != nil {
			return err
		}
		for j, d := range p.Diffs {
			cell, _ := excelize.CoordinatesToCellName(1, j+2)
			if err := f.SetSheetRow(sheet, cell, &[]any{d.Line, d.Left, d.Right}); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

// uniqueSheetName returns sheetName(name), suffixed with _2, _3 and so on
// while a sheet of that name already exists in f.
func uniqueSheetName(f *excelize.File, name string) string {
	base := sheetName(name)
	sheet := base
	for n := 2; ; n++ {
		if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
			return sheet
		}
		suffix := fmt.Sprintf("_%d", n)
		trimmed := base
		if len(trimmed)+len(suffix) > maxSheetName {
			trimmed = trimmed[:maxSheetName-len(suffix)]
		}
		sheet = trimmed + suffix
	}
}

// sheetName makes a pair name safe as a worksheet name.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if name == "" || strings.EqualFold(name, summarySheet) {
		name = "pair_" + name
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
