package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
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

// Config is the fully validated, parsed set of process-level options.
type Config struct {
	YamlPath  string
	HCLPath   string
	LogFormat string
	LogLevel  string
	// Workers is accepted for interface parity with common scheduler CLIs.
	// The current Engine schedules one goroutine per task rather than a
	// bounded pool (see internal/engine's concurrency model), so this value
	// is currently only logged, not enforced.
	Workers int
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly (e.g. --help), or
// an *ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("dagrs", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
dagrs - a concurrent DAG task scheduler.

Usage:
  dagrs [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	yamlFlag := flagSet.String("yaml", "", "Path to a YAML task file.")
	hclFlag := flagSet.String("hcl", "", "Path to an HCL task file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 10, "Advisory concurrency hint; the scheduler runs one goroutine per task regardless.")
	versionFlag := flagSet.Bool("version", false, "Print the version and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *versionFlag {
		fmt.Fprintln(output, "dagrs (development build)")
		return nil, true, nil
	}

	if *yamlFlag == "" && *hclFlag == "" {
		slog.Debug("No task file provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if *yamlFlag != "" && *hclFlag != "" {
		return nil, false, &ExitError{Code: 2, Message: "specify only one of --yaml or --hcl"}
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
	slog.Debug("CLI parameter validation complete.")

	config := &Config{
		YamlPath:  *yamlFlag,
		HCLPath:   *hclFlag,
		LogFormat: logFormat,
		LogLevel:  logLevel,
		Workers:   *workersFlag,
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
