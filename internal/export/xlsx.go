package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"cyberdock/internal/analytics"
	"cyberdock/internal/engine"
)

// WriteXLSX writes the detail rows and the three rollups, one sheet each.
func WriteXLSX(w io.Writer, res engine.ShipmentsResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		return fmt.Errorf("error naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("error creating header style: %w", err)
	}

	header := append(append([]string{}, detailHeader...), "CANAL DE VENDA")
	if err := writeRow(f, SheetData, 1, header); err != nil {
		return err
	}
	for i, r := range res.Rows {
		cells := []any{r.OrderID, r.Receiver, r.Account, r.ShipmentType, r.Units, r.Level1, r.Deadline, Channel}
		if err := writeCells(f, SheetData, i+2, cells); err != nil {
			return err
		}
	}
	if err := styleHeader(f, SheetData, len(header), bold); err != nil {
		return err
	}

	for _, sec := range rollupSections(res) {
		if _, err := f.NewSheet(sec.sheet); err != nil {
			return fmt.Errorf("error creating sheet %s: %w", sec.sheet, err)
		}
		if err := writeRollup(f, sec, bold); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing spreadsheet: %w", err)
	}
	return nil
}

func writeRollup(f *excelize.File, sec rollupSection, bold int) error {
	header := rollupHeader(sec.title)
	if err := writeRow(f, sec.sheet, 1, header); err != nil {
		return err
	}
	for i, row := range sec.table.WithTotal() {
		if err := writeCells(f, sec.sheet, i+2, rollupCells(row)); err != nil {
			return err
		}
	}
	return styleHeader(f, sec.sheet, len(header), bold)
}

func rollupCells(row analytics.RollupRow) []any {
	return []any{row.Label, row.Units, row.Orders}
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return writeCells(f, sheet, row, cells)
}

func writeCells(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("error writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleHeader(f *excelize.File, sheet string, columns, style int) error {
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}
