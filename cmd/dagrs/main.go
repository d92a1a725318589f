package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/skull8888888/dagrs/internal/action"
	"github.com/skull8888888/dagrs/internal/builtinactions"
	"github.com/skull8888888/dagrs/internal/cli"
	"github.com/skull8888888/dagrs/internal/ctxlog"
	"github.com/skull8888888/dagrs/internal/engine"
	"github.com/skull8888888/dagrs/internal/parser"
	"github.com/skull8888888/dagrs/internal/parser/hclparser"
	"github.com/skull8888888/dagrs/internal/parser/yamlparser"
	"github.com/skull8888888/dagrs/internal/shellaction"
)

// main is the entrypoint for the dagrs command.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	level := parseLevel(cfg.LogLevel)
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	var (
		data    []byte
		readErr error
		useHCL  bool
	)
	if cfg.HCLPath != "" {
		data, readErr = os.ReadFile(cfg.HCLPath)
		useHCL = true
	} else {
		data, readErr = os.ReadFile(cfg.YamlPath)
	}
	if readErr != nil {
		return &cli.ExitError{Code: 1, Message: fmt.Sprintf("failed to read task file: %v", readErr)}
	}

	resolver := parser.ActionResolverFunc(resolveBuiltinAction)

	var p parser.Parser
	if useHCL {
		p = hclparser.New()
	} else {
		p = yamlparser.New()
	}
	parsedTasks, err := p.Parse(data, resolver, nil)
	if err != nil {
		return &cli.ExitError{Code: 1, Message: fmt.Sprintf("failed to parse task file: %v", err)}
	}

	dag := engine.New()
	dag.WithTasks(parsedTasks)

	ctx := ctxlog.WithLogger(context.Background(), logger)
	ok, err := dag.Start(ctx)
	if err != nil {
		return &cli.ExitError{Code: 1, Message: fmt.Sprintf("dag failed to start: %v", err)}
	}
	if !ok {
		return &cli.ExitError{Code: 1, Message: "one or more tasks failed"}
	}

	fmt.Fprintln(outW, "all tasks completed successfully")
	return nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// resolveBuiltinAction maps a task file's action identifier to one of the
// builtin actions or the shell-command action.
func resolveBuiltinAction(name string, args map[string]any) (action.Action, error) {
	switch name {
	case "print":
		return builtinactions.NewPrint(), nil
	case "env_vars":
		return builtinactions.NewEnvVars(), nil
	case "shell":
		cmd, _ := args["command"].(string)
		if cmd == "" {
			return nil, fmt.Errorf("shell action requires a %q argument", "command")
		}
		return shellaction.New(cmd), nil
	case "http_request":
		url, _ := args["url"].(string)
		method, _ := args["method"].(string)
		return builtinactions.NewHTTPRequest(nil, method, url), nil
	default:
		return nil, fmt.Errorf("unknown action %q", name)
	}
}
