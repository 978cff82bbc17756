package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/suteetoe/honeydew/internal/service"
)

const sheetName = "Todos"

var columnWidths = []float64{38, 40, 50, 10, 26, 26, 38, 26}

// XLSX renders the same columns as CSV into a single-sheet workbook with a
// bold, frozen header row.
func XLSX(todos []service.TodoDTO) (out []byte, err error) {
	f := excelize.NewFile()
	// closed only after WriteTo has run
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			out, err = nil, fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
				return nil, err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
				return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, t := range todos {
		row := []interface{}{
			t.ID.String(),
			t.Title,
			"",
			t.IsDone,
			formatTime(t.CompletedAt),
			formatTime(t.DueDate),
			"",
			formatTime(&t.CreatedAt),
		}
		if t.Notes != nil {
			row[2] = *t.Notes
		}
		if t.AssignedToUserID != nil {
			row[6] = t.AssignedToUserID.String()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
				return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
