package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"irpack/internal/blobstore"
	"irpack/internal/ir"
	"irpack/internal/irser"
)

func newCopyCmd(env *cliEnv) *cobra.Command {
	var (
		to     string
		verify bool
		deps   []string
	)
	cmd := &cobra.Command{
		Use:   "copy <module>",
		Short: "Copy a module to another store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, path, err := parseStoreSpec(to)
			if err != nil {
				return err
			}
			src, err := env.openStore()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			module := args[0]
			ser, err := blobstore.Load(ctx, src, module)
			if err != nil {
				return fmt.Errorf("module %s: %w", module, err)
			}

			if verify {
				b := ir.NewBuiltins()
				res, err := resolveDeps(ctx, env, src, b, deps)
				if err != nil {
					return err
				}
				fetch := func(id ir.UniqID) ([]byte, error) {
					data, ok := ser.Blobs[id]
					if !ok {
						return nil, blobstore.ErrNotFound
					}
					return data, nil
				}
				if _, err := irser.Decode(ctx, ser.Header, fetch, res, env.cfg.CodecOptions(nil)); err != nil {
					return fmt.Errorf("module %s does not decode: %w", module, err)
				}
			}

			dst, err := blobstore.Open(kind, path)
			if err != nil {
				return fmt.Errorf("open %s store: %w", kind, err)
			}
			defer dst.Close()
			if err := dst.PutModule(ctx, module, ser); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %s (%d blobs) to %s\n", module, len(ser.Blobs), to)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination store as kind:path")
	cmd.Flags().BoolVar(&verify, "verify", false, "decode the module before writing it")
	cmd.Flags().StringSliceVar(&deps, "dep", nil, "stored modules the verification decode resolves against")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
