package wire

// Symbol is a use-site reference: a local identity, plus a descriptor when
// the target can be named from other compilation units.
type Symbol struct {
	Kind       uint8       `msgpack:"k"`
	ID         uint64      `msgpack:"i,omitempty"`
	Descriptor *Descriptor `msgpack:"d,omitempty"`
}

// Descriptor is a name-path reference.
type Descriptor struct {
	Package   string `msgpack:"p,omitempty"`
	ClassPath string `msgpack:"c,omitempty"`
	Name      string `msgpack:"n"`
	Flags     uint32 `msgpack:"f,omitempty"`
	ID        uint64 `msgpack:"i,omitempty"`
}

// Descriptor flags.
const (
	FlagGetter uint32 = 1 << iota
	FlagSetter
	FlagDefaultConstructor
	FlagEnumEntry
	FlagEnumSpecial
	FlagFakeOverride
)
