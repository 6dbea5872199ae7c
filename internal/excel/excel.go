package excel

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// ErrWorkbook is returned when a workbook cannot be opened or read.
var ErrWorkbook = errors.New("workbook error")

// Row is one non-empty spreadsheet row. Cells keeps column positions, so a
// blank cell between two filled ones is an empty string.
type Row struct {
	Sheet  string
	Number int
	Cells  []string
}

// Cell returns the value in column i, or "" when the row is shorter.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// ReadTestSteps returns the text of every non-empty cell of the named sheets,
// row by row and left to right. Sheets missing from the workbook are skipped
// with a warning. Without sheet names every sheet is read in workbook order.
func ReadTestSteps(filePath string, sheetNames ...string) ([]string, error) {
	steps := make([]string, 0)
	rows, err := ReadRows(filePath, sheetNames...)
	if err != nil {
		return steps, err
	}
	for _, row := range rows {
		for _, cell := range row.Cells {
			if cell != "" {
				steps = append(steps, cell)
			}
		}
	}
	return steps, nil
}

// ReadRows is like ReadTestSteps but keeps the row structure.
func ReadRows(filePath string, sheetNames ...string) ([]Row, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Errorf("Failed to open workbook %s: %v", filePath, err)
		return nil, fmt.Errorf("%w: open %s: %w", ErrWorkbook, filePath, err)
	}
	defer func() {
		if errClose := f.Close(); errClose != nil {
			log.Debugf("Error closing workbook %s: %v", filePath, errClose)
		}
	}()

	if len(sheetNames) == 0 {
		sheetNames = f.GetSheetList()
	}

	result := make([]Row, 0)
	for _, sheetName := range sheetNames {
		if idx, errIndex := f.GetSheetIndex(sheetName); errIndex != nil || idx < 0 {
			log.Warnf("Sheet '%s' not found. Skipping...", sheetName)
			continue
		}
		rows, errRead := readSheet(f, sheetName)
		if errRead != nil {
			return nil, fmt.Errorf("%w: sheet %s: %w", ErrWorkbook, sheetName, errRead)
		}
		log.Debugf("Read %d rows from sheet '%s'", len(rows), sheetName)
		result = append(result, rows...)
	}
	return result, nil
}

// SheetNames lists the sheets of a workbook in order.
func SheetNames(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrWorkbook, filePath, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return f.GetSheetList(), nil
}

func readSheet(f *excelize.File, sheetName string) ([]Row, error) {
	rows, err := f.Rows(sheetName)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]Row, 0)
	number := 0
	for rows.Next() {
		number++
		columns, errColumns := rows.Columns()
		if errColumns != nil {
			return nil, errColumns
		}
		columns = trimTrailingEmpty(columns)
		if len(columns) == 0 {
			continue
		}
		for i, value := range columns {
			if value != "" {
				warnNonText(f, sheetName, i+1, number)
			}
		}
		result = append(result, Row{Sheet: sheetName, Number: number, Cells: columns})
	}
	if err = rows.Error(); err != nil {
		return nil, err
	}
	return result, nil
}

// warnNonText notes cells that do not hold text. Their formatted display
// value is used as the step text.
func warnNonText(f *excelize.File, sheetName string, col, row int) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	cellType, err := f.GetCellType(sheetName, cell)
	if err != nil {
		return
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
	default:
		log.Debugf("Cell %s!%s is not a text cell, using its displayed value", sheetName, cell)
	}
}

func trimTrailingEmpty(columns []string) []string {
	end := len(columns)
	for end > 0 && columns[end-1] == "" {
		end--
	}
	return columns[:end]
}
