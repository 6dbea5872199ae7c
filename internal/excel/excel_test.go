package excel

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook creates an .xlsx file. Each sheet maps to rows of cell values
// starting at A1.
func writeWorkbook(t *testing.T, sheets map[string][][]interface{}, order ...string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			for c, value := range row {
				if value == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, cell, value))
			}
		}
	}

	path := filepath.Join(t.TempDir(), "steps.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadTestStepsSingleColumn(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Steps": {{"Open page"}, {"Click button"}},
	}, "Steps")

	steps, err := ReadTestSteps(path, "Steps")
	require.NoError(t, err)
	assert.Equal(t, []string{"Open page", "Click button"}, steps)
}

func TestReadTestStepsSkipsMissingSheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Login":    {{"Open login"}, {"Enter user"}},
		"Checkout": {{"Add item"}},
	}, "Login", "Checkout")

	steps, err := ReadTestSteps(path, "Missing", "Checkout", "AlsoMissing", "Login")
	require.NoError(t, err)
	assert.Equal(t, []string{"Add item", "Open login", "Enter user"}, steps)
}

func TestReadTestStepsFlattensRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Steps": {
			{"click", "id", "submit"},
			{},
			{"type", nil, "name"},
		},
	}, "Steps")

	steps, err := ReadTestSteps(path, "Steps")
	require.NoError(t, err)
	assert.Equal(t, []string{"click", "id", "submit", "type", "name"}, steps)
}

func TestReadTestStepsConvertsNonTextCells(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Steps": {{"sleep", 3}, {"enabled", true}},
	}, "Steps")

	steps, err := ReadTestSteps(path, "Steps")
	require.NoError(t, err)
	assert.Equal(t, []string{"sleep", "3", "enabled", "TRUE"}, steps)
}

func TestReadTestStepsAllSheets(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"First":  {{"a"}},
		"Second": {{"b"}},
	}, "First", "Second")

	steps, err := ReadTestSteps(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, steps)
}

func TestReadTestStepsMissingWorkbook(t *testing.T) {
	steps, err := ReadTestSteps(filepath.Join(t.TempDir(), "none.xlsx"), "Steps")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWorkbook))
	assert.NotNil(t, steps)
	assert.Empty(t, steps)
}

func TestReadRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Steps": {
			{"open", nil, nil, "https://example.com"},
			{},
			{"click", "id", "go"},
		},
	}, "Steps")

	rows, err := ReadRows(path, "Steps")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, Row{Sheet: "Steps", Number: 1, Cells: []string{"open", "", "", "https://example.com"}}, rows[0])
	assert.Equal(t, Row{Sheet: "Steps", Number: 3, Cells: []string{"click", "id", "go"}}, rows[1])
	assert.Equal(t, "go", rows[1].Cell(2))
	assert.Equal(t, "", rows[1].Cell(3))
	assert.Equal(t, "", rows[1].Cell(-1))
}

func TestSheetNames(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"Login": {{"x"}},
		"Cart":  {{"y"}},
	}, "Login", "Cart")

	names, err := SheetNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Login", "Cart"}, names)

	_, err = SheetNames(filepath.Join(t.TempDir(), "none.xlsx"))
	assert.ErrorIs(t, err, ErrWorkbook)
}
