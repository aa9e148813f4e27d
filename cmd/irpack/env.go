package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"irpack/internal/blobstore"
	"irpack/internal/config"
	"irpack/internal/trace"
)

// cliEnv is the state shared by all commands of one invocation.
type cliEnv struct {
	cfg    config.Config
	tracer trace.Tracer
	store  blobstore.Store
}

func (e *cliEnv) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	if err := setupColor(flags.Lookup("color").Value.String()); err != nil {
		return err
	}

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Resolve(cfgPath, ".")
	if err != nil {
		return err
	}
	if spec, _ := flags.GetString("store"); spec != "" {
		kind, path, err := parseStoreSpec(spec)
		if err != nil {
			return err
		}
		cfg.Store = config.Store{Kind: kind, Path: path}
		cfg.Dir = ""
	}
	e.cfg = cfg

	tracer, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	e.tracer = tracer
	return nil
}

// openStore opens the configured store once per invocation.
func (e *cliEnv) openStore() (blobstore.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	st, err := e.cfg.OpenStore()
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", e.cfg.Store.Kind, err)
	}
	e.store = st
	return st, nil
}

// finish dumps the trace ring after a failure and releases resources.
func (e *cliEnv) finish(w io.Writer, failed bool) {
	if e.tracer != nil {
		if failed {
			if ring := ringOf(e.tracer); ring != nil {
				fmt.Fprintln(w, "trace: last events before the failure")
				if err := ring.Dump(w, trace.FormatText); err != nil {
					fmt.Fprintf(w, "trace: dump error: %v\n", err)
				}
			}
		}
		if err := e.tracer.Flush(); err != nil {
			fmt.Fprintf(w, "trace: flush error: %v\n", err)
		}
		if err := e.tracer.Close(); err != nil {
			fmt.Fprintf(w, "trace: close error: %v\n", err)
		}
		e.tracer = nil
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			fmt.Fprintf(w, "store: close error: %v\n", err)
		}
		e.store = nil
	}
}

func ringOf(t trace.Tracer) *trace.RingTracer {
	switch t := t.(type) {
	case *trace.RingTracer:
		return t
	case *trace.MultiTracer:
		return t.Ring()
	default:
		return nil
	}
}

// parseStoreSpec splits "kind:path"; a bare "memory" needs no path.
func parseStoreSpec(spec string) (kind, path string, err error) {
	kind, path, found := strings.Cut(spec, ":")
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case blobstore.KindMemory:
		return kind, "", nil
	case blobstore.KindDisk, blobstore.KindSQLite:
		if !found || path == "" {
			return "", "", fmt.Errorf("store %q needs a path (expected %s:<path>)", spec, kind)
		}
		return kind, path, nil
	default:
		return "", "", fmt.Errorf("invalid store %q (expected memory|disk:<dir>|sqlite:<file>)", spec)
	}
}

func setupColor(value string) error {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	return nil
}
