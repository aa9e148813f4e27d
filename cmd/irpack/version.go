package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"irpack/internal/version"
	"irpack/internal/wire"
)

func newVersionCmd() *cobra.Command {
	var (
		format string
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show irpack build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := collectVersionInfo()
			if !full {
				info.GitCommit, info.BuildDate = "", ""
			}
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "pretty":
				renderVersionPretty(out, info)
				return nil
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case "yaml":
				enc := yaml.NewEncoder(out)
				if err := enc.Encode(info); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unsupported format %q (must be pretty, json or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json|yaml)")
	cmd.Flags().BoolVar(&full, "full", false, "include commit and build date")
	return cmd
}

func collectVersionInfo() version.Info {
	v := strings.TrimSpace(version.Version)
	if v == "" {
		v = "dev"
	}
	return version.Info{
		Version:       v,
		FormatVersion: wire.FormatVersion,
		GitCommit:     valueOrUnknown(strings.TrimSpace(version.GitCommit)),
		BuildDate:     valueOrUnknown(strings.TrimSpace(version.BuildDate)),
	}
}

func renderVersionPretty(out io.Writer, info version.Info) {
	fmt.Fprintf(out, "irpack %s (wire format v%d)\n", version.Colored(), info.FormatVersion)
	if info.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", info.GitCommit)
	}
	if info.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", info.BuildDate)
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
