// Package irser serializes IR modules to msgpack blobs and back.
//
// Encode writes a header listing each file's top-level declarations by
// identity, plus one blob per top-level declaration. Decode and Decoder
// rebuild the graph from the header and a fetch function, resolving
// identities through memo tables that live as long as the Decoder, and
// references into other compilation units through a Resolution.
//
// Identities: built-ins take 1..N in table order; user declarations take
// ModuleSalt(module)<<40 | seq, or keep the identity recorded by an earlier
// decode. A reference carries the identity, plus a name-path descriptor
// when the target is visible outside its module.
package irser
