package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"irpack/internal/blobstore"
	"irpack/internal/ir"
	"irpack/internal/irser"
)

func newPrintCmd(env *cliEnv) *cobra.Command {
	var (
		deps          []string
		showIDs       bool
		fakeOverrides bool
	)
	cmd := &cobra.Command{
		Use:   "print <module> [id...]",
		Short: "Decode a module, or selected top-level declarations, and print the IR",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]ir.UniqID, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			st, err := env.openStore()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			b := ir.NewBuiltins()
			res, err := resolveDeps(ctx, env, st, b, deps)
			if err != nil {
				return err
			}
			opts := ir.DumpOptions{ShowIDs: showIDs, SkipFakeOverrides: !fakeOverrides}
			return printModule(ctx, cmd.OutOrStdout(), env, st, args[0], res, ids, opts)
		},
	}
	cmd.Flags().StringSliceVar(&deps, "dep", nil, "stored modules to decode first and resolve references against")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "show declaration identities")
	cmd.Flags().BoolVar(&fakeOverrides, "fake-overrides", false, "include fake-override members")
	return cmd
}

// resolveDeps decodes dependency modules in order; each may refer to the
// built-ins and to the ones before it.
func resolveDeps(ctx context.Context, env *cliEnv, st blobstore.Store, b *ir.Builtins, deps []string) (irser.Resolution, error) {
	resolvers := irser.Resolvers{irser.NewModuleResolver(b.Module())}
	for _, dep := range deps {
		header, err := st.Header(ctx, dep)
		if err != nil {
			return irser.Resolution{}, fmt.Errorf("dependency %s: %w", dep, err)
		}
		res := irser.Resolution{Builtins: b.Declarations(), Resolver: resolvers}
		m, err := irser.Decode(ctx, header, blobstore.Fetcher(ctx, st, dep), res, env.cfg.CodecOptions(nil))
		if err != nil {
			return irser.Resolution{}, fmt.Errorf("dependency %s: %w", dep, err)
		}
		resolvers = append(irser.Resolvers{irser.NewModuleResolver(m)}, resolvers...)
	}
	return irser.Resolution{Builtins: b.Declarations(), Resolver: resolvers}, nil
}

func printModule(ctx context.Context, out io.Writer, env *cliEnv, st blobstore.Store, module string,
	res irser.Resolution, ids []ir.UniqID, opts ir.DumpOptions) error {
	header, err := st.Header(ctx, module)
	if err != nil {
		return fmt.Errorf("module %s: %w", module, err)
	}
	d, err := irser.NewDecoder(header, blobstore.Fetcher(ctx, st, module), res, env.cfg.CodecOptions(nil))
	if err != nil {
		return fmt.Errorf("module %s: %w", module, err)
	}
	if len(ids) == 0 {
		m, err := d.Module(ctx)
		if err != nil {
			return err
		}
		return ir.Dump(out, m, opts)
	}
	for _, id := range ids {
		decl, err := d.Load(ctx, id)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(out, ir.DumpDeclaration(decl, opts)); err != nil {
			return err
		}
	}
	return nil
}

// parseID accepts the "#hex" form the CLI prints, 0x-prefixed hex and
// decimal identities.
func parseID(s string) (ir.UniqID, error) {
	var (
		v   uint64
		err error
	)
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		v, err = strconv.ParseUint(hex, 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 0, 64)
	}
	if err != nil || v == 0 {
		return ir.NoUniqID, fmt.Errorf("invalid declaration identity %q", s)
	}
	return ir.UniqID(v), nil
}
