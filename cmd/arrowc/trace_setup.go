package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"arrowc/internal/project"
	"arrowc/internal/trace"
)

// setupTracing builds the tracer from the trace flags, falling back to the
// [trace] section of arrowc.toml, and attaches it to the command context.
// The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command, cfg project.TraceConfig) (func(), trace.Tracer, error) {
	output, err := getString(cmd, "trace")
	if err != nil {
		return nil, nil, err
	}
	if output == "" {
		output = cfg.Output
	}
	levelStr, err := getString(cmd, "trace-level")
	if err != nil {
		return nil, nil, err
	}
	if levelStr == "" {
		levelStr = cfg.Level
	}
	formatStr, err := getString(cmd, "trace-format")
	if err != nil {
		return nil, nil, err
	}
	if formatStr == "" {
		formatStr = cfg.Format
	}
	sinkStr, err := getString(cmd, "trace-sink")
	if err != nil {
		return nil, nil, err
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, err
	}
	// --trace alone means phase level.
	if level == trace.LevelOff && output != "" && !cmd.Flags().Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, trace.Nop, nil
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, err
	}
	sinks, err := trace.ParseSink(sinkStr)
	if err != nil {
		return nil, nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Sinks:      sinks,
		Format:     format,
		OutputPath: output,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if ring := trace.Ring(tracer); ring != nil {
			if err := ring.Dump(cmd.ErrOrStderr(), format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, tracer, nil
}
