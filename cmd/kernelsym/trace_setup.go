package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"kernelsym/internal/project"
	"kernelsym/internal/trace"
)

// setupTracing builds the tracer from kernelsym.toml [trace], with the
// --trace flags taking precedence, and attaches it to the command context.
// Flag values are written back into cfg.
func setupTracing(cmd *cobra.Command, cfg *project.TraceConfig) (trace.Tracer, error) {
	if cmd.Flags().Changed("trace") {
		out, err := cmd.Flags().GetString("trace")
		if err != nil {
			return nil, err
		}
		cfg.Output = out
	}
	if cmd.Flags().Changed("trace-level") {
		lvl, err := cmd.Flags().GetString("trace-level")
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}
	if cmd.Flags().Changed("trace-mode") {
		mode, err := cmd.Flags().GetString("trace-mode")
		if err != nil {
			return nil, err
		}
		cfg.Mode = mode
	}

	level, err := trace.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	// An output path alone asks for phase-level tracing.
	if level == trace.LevelOff && cfg.Output != "" {
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(trace.Config{Level: level, Mode: mode, OutputPath: cfg.Output})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	return tracer, nil
}

// dumpRing writes the ring buffer to path once the command is done.
func dumpRing(ring *trace.RingTracer, path string, errOut io.Writer) {
	var w io.Writer = os.Stderr
	format := trace.FormatText
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(errOut, "trace: %v\n", err)
			return
		}
		defer f.Close()
		w = f
		if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
			format = trace.FormatNDJSON
		}
	}
	if err := ring.Dump(w, format); err != nil {
		fmt.Fprintf(errOut, "trace: dump error: %v\n", err)
	}
}
