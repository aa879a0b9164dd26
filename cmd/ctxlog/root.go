package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Station-Manager/errors"
	"github.com/spf13/cobra"

	"github.com/Station-Manager/ctxlogger"
)

var levels = []string{"debug", "info", "warning", "error", "critical", "exception"}

type options struct {
	configPath string
	context    []string
	errMsg     string
	stack      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ctxlog <level> <event> [key=value ...]",
		Short: "Write a structured JSON log record",
		Long: `Writes one JSON record to stdout (and any other sink enabled in the
configuration). Context fields given with --context take precedence over
fields given after the event, exactly as in a ContextLogger.

Levels: ` + strings.Join(levels, ", ") + `.
Values are typed as integer, float or boolean when they parse as one.`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (yaml, json or toml)")
	flags.StringArrayVar(&opts.context, "context", nil, "context field as key=value, repeatable")
	flags.StringVar(&opts.errMsg, "error", "", "error message logged with the exception level")
	flags.BoolVar(&opts.stack, "stack", false, "include the current stack")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	const op errors.Op = "ctxlog.run"

	level, event := strings.ToLower(args[0]), args[1]
	if !knownLevel(level) {
		return fmt.Errorf("unknown level %q, want one of %s", args[0], strings.Join(levels, ", "))
	}

	contextFields, err := parseFields(opts.context)
	if err != nil {
		return errors.New(op).Err(err).Msg("invalid --context")
	}
	callFields, err := parseFields(args[2:])
	if err != nil {
		return errors.New(op).Err(err).Msg("invalid field")
	}
	if opts.stack {
		if callFields == nil {
			callFields = make(ctxlogger.Fields, 1)
		}
		callFields[ctxlogger.StackInfoKey] = true
	}

	cfg, err := ctxlogger.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	svc := &ctxlogger.Service{Config: cfg, Output: cmd.OutOrStdout()}
	if err = svc.Initialize(); err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	logger := ctxlogger.New(svc)
	logger.AddContext(contextFields)

	switch level {
	case "debug":
		return logger.Debug(event, callFields)
	case "info":
		return logger.Info(event, callFields)
	case "warning", "warn":
		return logger.Warning(event, callFields)
	case "error":
		return logger.Error(event, callFields)
	case "critical", "fatal":
		return logger.Critical(event, callFields)
	default:
		return logger.Exception(errors.New(op).Msg(exceptionMessage(opts, event)), event, callFields)
	}
}

func knownLevel(level string) bool {
	switch level {
	case "warn", "fatal":
		return true
	}
	return slices.Contains(levels, level)
}

func exceptionMessage(opts *options, event string) string {
	if opts.errMsg != "" {
		return opts.errMsg
	}
	return event
}

// parseFields turns key=value pairs into fields, typing each value.
func parseFields(pairs []string) (ctxlogger.Fields, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	fields := make(ctxlogger.Fields, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		fields[key] = parseValue(val)
	}
	return fields, nil
}

func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
