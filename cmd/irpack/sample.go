package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"irpack/internal/ir"
	"irpack/internal/irser"
	"irpack/internal/irtest"
)

func newSampleCmd(env *cliEnv) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "sample <module>",
		Short: "Encode a built-in sample module into the store",
		Long: `sample writes one of the fixture modules irpack is tested with:
"kitchen" covers every declaration, expression and type kind, "identity" is
a single function and "overrides" exercises fake-override references.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := ir.NewBuiltins()
			module := args[0]
			var m *ir.Module
			switch kind {
			case "kitchen":
				m = irtest.KitchenSink(b, module).Module
			case "identity":
				m, _ = irtest.Identity(b, module)
			case "overrides":
				m = irtest.FakeOverrides(b, module).Module
			default:
				return fmt.Errorf("unknown sample %q (expected kitchen|identity|overrides)", kind)
			}
			st, err := env.openStore()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ser, err := irser.Encode(ctx, m, env.cfg.CodecOptions(b.Declarations()))
			if err != nil {
				return err
			}
			if err := st.PutModule(ctx, module, ser); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d blobs)\n", module, len(ser.Blobs))
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "kitchen", "sample to write (kitchen|identity|overrides)")
	return cmd
}
