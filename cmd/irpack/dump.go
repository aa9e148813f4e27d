package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"irpack/internal/blobstore"
	"irpack/internal/ir"
	"irpack/internal/wire"
)

// moduleReport is what `irpack dump` prints.
type moduleReport struct {
	Module        string       `json:"module" yaml:"module"`
	FormatVersion uint32       `json:"format_version" yaml:"format_version"`
	HeaderBytes   int          `json:"header_bytes" yaml:"header_bytes"`
	BlobBytes     int          `json:"blob_bytes" yaml:"blob_bytes"`
	Files         []fileReport `json:"files" yaml:"files"`
	Owners        []ownerEntry `json:"owners,omitempty" yaml:"owners,omitempty"`
}

type fileReport struct {
	Name    string       `json:"name" yaml:"name"`
	Package string       `json:"package,omitempty" yaml:"package,omitempty"`
	Blobs   []blobReport `json:"blobs" yaml:"blobs"`
}

type blobReport struct {
	ID    string `json:"id" yaml:"id"`
	Kind  string `json:"kind" yaml:"kind"`
	Name  string `json:"name" yaml:"name"`
	Bytes int    `json:"bytes" yaml:"bytes"`
}

type ownerEntry struct {
	Nested string `json:"nested" yaml:"nested"`
	Owner  string `json:"owner" yaml:"owner"`
}

func newDumpCmd(env *cliEnv) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump <module>",
		Short: "Show a module header and its blob sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			switch format {
			case "pretty", "json", "yaml":
			default:
				return fmt.Errorf("unsupported format %q (must be pretty, json or yaml)", format)
			}
			st, err := env.openStore()
			if err != nil {
				return err
			}
			report, err := buildReport(cmd, st, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(report); err != nil {
					return err
				}
				return enc.Close()
			default:
				renderReport(out, report)
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json|yaml)")
	return cmd
}

func buildReport(cmd *cobra.Command, st blobstore.Store, module string) (*moduleReport, error) {
	ctx := cmd.Context()
	header, err := st.Header(ctx, module)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", module, err)
	}
	var h wire.Module
	if err := wire.Unmarshal(header, &h); err != nil {
		return nil, fmt.Errorf("module %s: header: %w", module, err)
	}
	report := &moduleReport{Module: h.Name, FormatVersion: h.Version, HeaderBytes: len(header)}
	for _, f := range h.Files {
		fr := fileReport{Name: f.Name, Package: f.Package}
		for _, raw := range f.Declarations {
			id := ir.UniqID(raw)
			data, err := st.Blob(ctx, module, id)
			if err != nil {
				return nil, fmt.Errorf("module %s: blob %s: %w", module, id, err)
			}
			kind, name := describeBlob(data)
			fr.Blobs = append(fr.Blobs, blobReport{ID: id.String(), Kind: kind, Name: name, Bytes: len(data)})
			report.BlobBytes += len(data)
		}
		report.Files = append(report.Files, fr)
	}
	for _, o := range h.Owners {
		report.Owners = append(report.Owners, ownerEntry{Nested: ir.UniqID(o.ID).String(), Owner: ir.UniqID(o.Blob).String()})
	}
	return report, nil
}

// describeBlob peeks at the declaration kind and name of a blob.
func describeBlob(data []byte) (kind, name string) {
	var d wire.Declaration
	if err := wire.Unmarshal(data, &d); err != nil {
		return "malformed", ""
	}
	return d.Declarator.Case.String(), declaratorName(&d.Declarator)
}

func declaratorName(d *wire.Declarator) string {
	switch {
	case d.Class != nil:
		return d.Class.Name
	case d.Function != nil:
		return d.Function.Base.Name
	case d.Constructor != nil:
		return "<init>"
	case d.Property != nil:
		return d.Property.Name
	case d.Field != nil:
		return d.Field.Name
	case d.Variable != nil:
		return d.Variable.Name
	case d.EnumEntry != nil:
		return d.EnumEntry.Name
	case d.TypeAlias != nil:
		return d.TypeAlias.Name
	default:
		return ""
	}
}

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	idColor      = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

func renderReport(out io.Writer, r *moduleReport) {
	fmt.Fprintf(out, "%s %s (format v%d)\n", headingColor.Sprint("module"), r.Module, r.FormatVersion)
	fmt.Fprintf(out, "  header %d bytes, blobs %d bytes\n", r.HeaderBytes, r.BlobBytes)
	for _, f := range r.Files {
		pkg := ""
		if f.Package != "" {
			pkg = dimColor.Sprintf(" package %s", f.Package)
		}
		fmt.Fprintf(out, "%s %s%s\n", headingColor.Sprint("file"), f.Name, pkg)
		for _, b := range f.Blobs {
			fmt.Fprintf(out, "  %s %-14s %-20s %6d bytes\n", idColor.Sprint(b.ID), b.Kind, b.Name, b.Bytes)
		}
	}
	if len(r.Owners) > 0 {
		fmt.Fprintf(out, "%s\n", headingColor.Sprint("owners"))
		for _, o := range r.Owners {
			fmt.Fprintf(out, "  %s -> %s\n", idColor.Sprint(o.Nested), idColor.Sprint(o.Owner))
		}
	}
}

func newListCmd(env *cliEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the modules in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := env.openStore()
			if err != nil {
				return err
			}
			names, err := st.Modules(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
