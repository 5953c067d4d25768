// Package export writes duty roster grids to xlsx workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"dutychart/internal/api"
)

// RosterWriter writes export preview grids using excelize.
type RosterWriter struct {
	file       *excelize.File
	sheet      string
	currentRow int
}

// NewRosterWriter creates an empty workbook.
func NewRosterWriter() *RosterWriter {
	return &RosterWriter{file: excelize.NewFile()}
}

// AddChart writes one duty chart preview as its own sheet: a title row, the
// column header, then one row per grid entry in server order.
func (w *RosterWriter) AddChart(preview *api.ExportPreview) error {
	name := sheetName(preview)
	if w.sheet == "" {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	w.sheet = name
	w.currentRow = 1

	title := name
	if preview.Chart.Office != nil && *preview.Chart.Office != "" {
		title = fmt.Sprintf("%s - %s", name, *preview.Chart.Office)
	}
	if err := w.writeRow([]any{title}); err != nil {
		return err
	}

	header := make([]any, len(preview.Columns))
	for i, col := range preview.Columns {
		header[i] = col.Label
	}
	if err := w.writeRow(header); err != nil {
		return err
	}

	for _, row := range preview.Rows {
		cells := make([]any, len(preview.Columns))
		for i, col := range preview.Columns {
			cells[i] = row[col.Key]
		}
		if err := w.writeRow(cells); err != nil {
			return err
		}
	}
	return nil
}

func (w *RosterWriter) writeRow(cells []any) error {
	for i, val := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, val); err != nil {
			return err
		}
	}
	w.currentRow++
	return nil
}

// WriteTo writes the workbook to w.
func (w *RosterWriter) WriteTo(out io.Writer) error {
	if w.sheet == "" {
		return fmt.Errorf("no charts written")
	}
	return w.file.Write(out)
}

// sheetName derives the sheet name, respecting Excel's 31 char limit.
func sheetName(preview *api.ExportPreview) string {
	name := fmt.Sprintf("Duty Chart %d", preview.Chart.ID)
	if preview.Chart.Name != nil && *preview.Chart.Name != "" {
		name = *preview.Chart.Name
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
