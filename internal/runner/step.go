package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/luispater/uiTestKit/internal/excel"
	log "github.com/sirupsen/logrus"
)

// ErrUnknownAction is returned for a step whose keyword is not registered.
var ErrUnknownAction = errors.New("unknown action")

// Step is one keyword line of a test case.
type Step struct {
	Action string
	Kind   string
	Value  string
	Data   string
	Retry  int
	// Source says where the step came from, e.g. "Login!3".
	Source string
}

func (s Step) String() string {
	parts := []string{s.Action}
	if s.Kind != "" || s.Value != "" {
		parts = append(parts, fmt.Sprintf("%s=%s", s.Kind, s.Value))
	}
	if s.Data != "" {
		parts = append(parts, fmt.Sprintf("%q", s.Data))
	}
	return strings.Join(parts, " ")
}

// TestCase is a named list of steps.
type TestCase struct {
	Name  string
	Steps []Step
}

// normalizeAction lowercases a keyword and drops separators, so "Verify Text",
// "verify_text" and "verifyText" are the same action.
func normalizeAction(action string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(action)))
}

// StepFromRow reads a spreadsheet row laid out as
// action | locator kind | locator value | data.
func StepFromRow(row excel.Row) Step {
	return Step{
		Action: normalizeAction(row.Cell(0)),
		Kind:   strings.TrimSpace(row.Cell(1)),
		Value:  row.Cell(2),
		Data:   row.Cell(3),
		Source: fmt.Sprintf("%s!%d", row.Sheet, row.Number),
	}
}

// StepFromWorkflow reads a workflow entry. Params start with the locator kind
// and value for element actions; the remaining param is the data.
func StepFromWorkflow(w ConfigurationWorkflow, source string) Step {
	step := Step{
		Action: normalizeAction(w.Action),
		Retry:  w.Retry,
		Source: source,
	}
	params := w.Params
	if a, ok := lookupAction(step.Action); ok && a.locator {
		if len(params) > 0 {
			step.Kind = strings.TrimSpace(params[0])
		}
		if len(params) > 1 {
			step.Value = params[1]
		}
		if len(params) > 2 {
			params = params[2:]
		} else {
			params = nil
		}
	}
	if len(params) > 0 {
		step.Data = params[0]
	}
	return step
}

// CasesFromWorkbook turns each sheet of a workbook into a test case named
// after the sheet. Sheets with no rows are left out.
func CasesFromWorkbook(path string, sheetNames ...string) ([]TestCase, error) {
	rows, err := excel.ReadRows(path, sheetNames...)
	if err != nil {
		return nil, err
	}

	cases := make([]TestCase, 0)
	index := make(map[string]int)
	for _, row := range rows {
		if strings.TrimSpace(row.Cell(0)) == "" {
			log.Debugf("Row %s!%d has no action, skipped", row.Sheet, row.Number)
			continue
		}
		i, ok := index[row.Sheet]
		if !ok {
			i = len(cases)
			index[row.Sheet] = i
			cases = append(cases, TestCase{Name: row.Sheet})
		}
		cases[i].Steps = append(cases[i].Steps, StepFromRow(row))
	}
	return cases, nil
}

// LoadWorkflow reads one YAML workflow file. The case is named by the file's
// name field, or the file name without extension.
func LoadWorkflow(path string) (TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TestCase{}, err
	}

	var cfg Configuration
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return TestCase{}, fmt.Errorf("failed to parse workflow %s: %w", path, err)
	}

	name := cfg.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	tc := TestCase{Name: name, Steps: make([]Step, 0, len(cfg.Workflow))}
	for i, w := range cfg.Workflow {
		tc.Steps = append(tc.Steps, StepFromWorkflow(w, fmt.Sprintf("%s#%d", filepath.Base(path), i+1)))
	}
	return tc, nil
}

// LoadWorkflows scans dir for yaml and yml files and loads each as a test case,
// in file name order.
func LoadWorkflows(dir string) ([]TestCase, error) {
	yamlFiles, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan yaml files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan yml files: %w", err)
	}
	allFiles := append(yamlFiles, ymlFiles...)
	sort.Strings(allFiles)

	cases := make([]TestCase, 0, len(allFiles))
	for _, filePath := range allFiles {
		log.Debugf("Loading workflow file: %s", filePath)
		tc, errLoad := LoadWorkflow(filePath)
		if errLoad != nil {
			return nil, errLoad
		}
		cases = append(cases, tc)
	}
	log.Debugf("Total loaded %d workflow files", len(allFiles))
	return cases, nil
}
