package roster

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jmoret/rosterbee/internal/lms"
)

const xlsxSheet = "Students"

// WriteXLSX writes the per-student info workbook.
func WriteXLSX(path string, students []lms.StudentInfo) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	writeRow := func(row int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return f.SetSheetRow(xlsxSheet, cell, &cells)
	}

	if err := writeRow(1, infoHeader); err != nil {
		return fmt.Errorf("writing xlsx header: %w", err)
	}
	for i, s := range students {
		if err := writeRow(i+2, infoRow(s)); err != nil {
			return fmt.Errorf("writing xlsx row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
