package inventory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"navigation-qr/internal/generator"
)

const SheetName = "QR"

// Header of the printing inventory. One row per generated QR follows.
var Header = []string{"Piso", "ID", "X", "Y", "Archivo", "Payload"}

// Build returns the inventory workbook. The caller closes it.
func Build(records []generator.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(SheetName, cell, h)
	}
	f.SetCellStyle(SheetName, "A1", "F1", headerStyle)

	for i, r := range records {
		row := []any{r.Floor, r.NodeID, r.X, r.Y, filepath.Base(r.File), r.Payload}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(SheetName, "B", "B", 28)
	f.SetColWidth(SheetName, "E", "E", 32)
	f.SetColWidth(SheetName, "F", "F", 80)
	return f, nil
}

// Write saves the inventory workbook to path.
func Write(path string, records []generator.Record) error {
	f, err := Build(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
