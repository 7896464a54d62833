package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/prjkit/prjgen/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// pathList collects repeated -I flags in order.
type pathList []string

func (p *pathList) String() string {
	return strings.Join(*p, ":")
}

func (p *pathList) Set(value string) error {
	*p = append(*p, value)
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("prjgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
prjgen - generates RTOS configuration sources from a declarative project file.

Usage:
  prjgen [options] PROJECT_FILE

Arguments:
  PROJECT_FILE
    Path to the root project .prj.hcl file.

Options:
`)
		flagSet.PrintDefaults()
	}

	var includePaths pathList
	flagSet.Var(&includePaths, "I", "Include search path, may be repeated. Tried in order after the including file's directory.")
	projectFlag := flagSet.String("project", "", "Path to the root project file.")
	outputFlag := flagSet.String("o", ".", "Directory generated files are written to.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *projectFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ProjectFile:  path,
		OutputDir:    *outputFlag,
		IncludePaths: includePaths,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
