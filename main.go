package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/luispater/uiTestKit/internal/browser"
	"github.com/luispater/uiTestKit/internal/config"
	"github.com/luispater/uiTestKit/internal/excel"
	"github.com/luispater/uiTestKit/internal/logging"
	"github.com/luispater/uiTestKit/internal/method"
	"github.com/luispater/uiTestKit/internal/report"
	"github.com/luispater/uiTestKit/internal/runner"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var Version = "dev"

const envVarPrefix = "UITESTKIT_"

var (
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Value:   config.DefaultPath,
		EnvVars: []string{envVarPrefix + "CONFIG"},
		Usage:   "Path to the configuration file (.properties or .yaml)",
	}
	LogConfigFlag = &cli.StringFlag{
		Name:    "log-config",
		EnvVars: []string{envVarPrefix + "LOG_CONFIG"},
		Usage:   "Path to the logging configuration file, overrides log.config",
	}
	DebugFlag = &cli.BoolFlag{
		Name:    "debug",
		EnvVars: []string{envVarPrefix + "DEBUG"},
		Usage:   "Enable debug logging",
	}
	WorkbookFlag = &cli.StringFlag{
		Name:    "workbook",
		Aliases: []string{"w"},
		Usage:   "Path to the .xlsx workbook holding the test steps",
	}
	SheetFlag = &cli.StringSliceFlag{
		Name:    "sheet",
		Aliases: []string{"s"},
		Usage:   "Sheet to read, may be repeated. All sheets when omitted",
	}
	WorkflowFlag = &cli.StringFlag{
		Name:  "workflow",
		Usage: "Directory of YAML workflow files to run",
	}
	ScreenshotDirFlag = &cli.StringFlag{
		Name:  "screenshot-dir",
		Usage: "Directory for screenshots of failing test cases",
	}
)

// app carries state between the Before hook and the commands.
type app struct {
	cfg       *config.AppConfig
	cfgErr    error
	logCloser io.Closer
}

func main() {
	a := &app{}

	cliApp := cli.NewApp()
	cliApp.Name = "uitestkit"
	cliApp.Usage = "Keyword driven browser tests from spreadsheets and YAML workflows"
	cliApp.Version = Version
	cliApp.Flags = []cli.Flag{ConfigFlag, LogConfigFlag, DebugFlag}
	cliApp.Before = a.before
	cliApp.After = a.after
	cliApp.Commands = []*cli.Command{
		{
			Name:   "steps",
			Usage:  "print the flattened steps of a workbook",
			Flags:  []cli.Flag{requiredFlag(WorkbookFlag), SheetFlag},
			Action: a.steps,
		},
		{
			Name:   "run",
			Usage:  "run workbook sheets and workflows in a browser and write the report",
			Flags:  []cli.Flag{WorkbookFlag, SheetFlag, WorkflowFlag, ScreenshotDirFlag},
			Action: a.run,
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func requiredFlag(f *cli.StringFlag) *cli.StringFlag {
	c := *f
	c.Required = true
	return &c
}

// before loads the configuration and sets up logging. This is the only place
// the logger is configured. A configuration error is kept for the commands
// that need it.
func (a *app) before(c *cli.Context) error {
	a.cfg, a.cfgErr = config.LoadConfig(c.String(ConfigFlag.Name))

	logConfig := config.DefaultLogConfig
	debug := c.Bool(DebugFlag.Name)
	if a.cfgErr == nil {
		logConfig = a.cfg.LogConfig
		debug = debug || a.cfg.Debug
	}
	if c.IsSet(LogConfigFlag.Name) {
		logConfig = c.String(LogConfigFlag.Name)
	}

	closer, err := logging.Setup(logConfig, debug)
	if err != nil {
		return err
	}
	a.logCloser = closer
	return nil
}

func (a *app) after(_ *cli.Context) error {
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}

func (a *app) steps(c *cli.Context) error {
	steps, err := excel.ReadTestSteps(c.String(WorkbookFlag.Name), c.StringSlice(SheetFlag.Name)...)
	if err != nil {
		return err
	}
	for _, step := range steps {
		_, _ = fmt.Fprintln(c.App.Writer, step)
	}
	return nil
}

func (a *app) run(c *cli.Context) error {
	if a.cfgErr != nil {
		return a.cfgErr
	}
	cfg := a.cfg

	workbook := c.String(WorkbookFlag.Name)
	workflowDir := c.String(WorkflowFlag.Name)
	if workbook == "" && workflowDir == "" {
		return cli.Exit("nothing to run, pass --workbook or --workflow", 2)
	}

	cases := make([]runner.TestCase, 0)
	if workbook != "" {
		fromWorkbook, err := runner.CasesFromWorkbook(workbook, c.StringSlice(SheetFlag.Name)...)
		if err != nil {
			return err
		}
		cases = append(cases, fromWorkbook...)
	}
	if workflowDir != "" {
		fromWorkflows, err := runner.LoadWorkflows(workflowDir)
		if err != nil {
			return err
		}
		cases = append(cases, fromWorkflows...)
	}
	log.Infof("Loaded %d test cases", len(cases))

	driver, err := browser.NewDriver(cfg)
	if err != nil {
		return err
	}
	defer func() {
		log.Debugf("Closing browser...")
		if errClose := driver.Close(); errClose != nil {
			log.Debugf("Error closing browser: %v", errClose)
		}
	}()

	session, err := driver.Open(context.Background())
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}

	m := method.NewMethod(session, method.WithExplicitWait(cfg.ExplicitWait.Duration))
	listener := report.NewListener(report.Options{
		File:       cfg.Report.File,
		Title:      cfg.Report.Title,
		Author:     cfg.Report.Author,
		EmployeeID: cfg.Report.EmployeeID,
		Company:    cfg.Report.Company,
	})
	r := runner.NewRunnerManager(m, listener, runner.WithScreenshotDir(c.String(ScreenshotDirFlag.Name)))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	stopWatch := r.AbortOn(sigChan)
	defer stopWatch()

	summary, err := r.Run(cases)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d test cases failed", summary.Failed, len(cases)), 1)
	}
	return nil
}
