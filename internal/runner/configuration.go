package runner

// Configuration is a YAML workflow file. Each file is one test case.
type Configuration struct {
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description"`
	Workflow    []ConfigurationWorkflow `yaml:"workflow"`
}

// ConfigurationWorkflow is one step of a workflow. Params holds the locator
// kind and value first when the action needs an element, then the data.
type ConfigurationWorkflow struct {
	Action      string   `yaml:"action"`
	Description string   `yaml:"description"`
	Params      []string `yaml:"params"`
	Retry       int      `yaml:"retry"`
}
