package workbook

import (
	"errors"
	"fmt"

	"epexgrab/internal/epex"

	"github.com/xuri/excelize/v2"
)

var (
	ErrTemplateUnreadable = errors.New("template unreadable")
	ErrOutputUnwritable   = errors.New("output unwritable")
)

// Default placement: row 1 is reserved for caller-supplied headers, data
// starts at A2.
const (
	DefaultStartRow = 2
	DefaultStartCol = 1
)

// Write opens the workbook at templatePath, writes one row of eight cells
// per record into its first sheet starting at (startRow, startCol), and
// saves the result to outPath. Absent values become blank cells, never
// zero. Content outside the written region is left untouched; the template
// itself is only mutated when outPath equals templatePath.
func Write(templatePath, outPath string, rows []epex.HHRow, startRow, startCol int) error {
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTemplateUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("%w: workbook has no sheets", ErrTemplateUnreadable)
	}
	sheet := sheets[0]

	for i, r := range rows {
		values := []any{
			r.HH,
			optional(r.Low),
			optional(r.High),
			optional(r.Last),
			optional(r.WeightAvg),
			optional(r.BuyVolume),
			optional(r.SellVolume),
			optional(r.Volume),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(startCol+j, startRow+i)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputUnwritable, err)
	}
	return nil
}

// optional unwraps a possibly-absent value; excelize writes nil as a blank
// cell.
func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
