package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"irpack/internal/config"
	"irpack/internal/trace"
)

// setupTracing merges the [trace] section with the trace flags, builds the
// tracer and attaches it to the command context. Flags win over the file.
func setupTracing(cmd *cobra.Command, cfg config.Config) (trace.Tracer, error) {
	flags := cmd.Root().PersistentFlags()
	section := cfg.Trace
	for name, dst := range map[string]*string{
		"trace":       &section.Output,
		"trace-level": &section.Level,
		"trace-mode":  &section.Mode,
	} {
		v, err := flags.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		if flags.Changed(name) {
			*dst = v
		}
	}
	// An explicit output without a level means the caller wants a trace.
	if flags.Changed("trace") && !flags.Changed("trace-level") && section.Level == trace.LevelOff.String() {
		section.Level = trace.LevelDetail.String()
	}
	cfg.Trace = section

	tc, err := cfg.TraceConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid trace configuration: %w", err)
	}
	tracer, err := trace.New(tc)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	return tracer, nil
}
