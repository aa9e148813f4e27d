package irser

import "irpack/internal/ir"

// DefaultMaxDepth bounds nesting of declarations, expressions and types.
const DefaultMaxDepth = 65535

// Options tunes Encode and Decode.
type Options struct {
	// MaxDepth bounds nesting; 0 means DefaultMaxDepth.
	MaxDepth int
	// Builtins, when set, are seeded into the encode index as identities
	// 1..N before any user declaration.
	Builtins []ir.Declaration
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
