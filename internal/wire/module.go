package wire

// Module is the header of a serialized module.
type Module struct {
	Version uint32 `msgpack:"v"`
	Name    string `msgpack:"n"`
	Files   []File `msgpack:"f,omitempty"`
	// Owners lists nested declarations referenced from other blobs with the
	// top-level declaration whose blob contains them, sorted by ID.
	Owners []Owner `msgpack:"o,omitempty"`
}

// Owner places a nested declaration in the blob of a top-level one.
type Owner struct {
	ID   uint64 `msgpack:"i"`
	Blob uint64 `msgpack:"b"`
}

// File lists the identities of its top-level declarations in order.
type File struct {
	Name         string   `msgpack:"n"`
	Package      string   `msgpack:"p,omitempty"`
	Declarations []uint64 `msgpack:"d,omitempty"`
}

// Coordinates are source offsets.
type Coordinates struct {
	Start int32 `msgpack:"s,omitempty"`
	End   int32 `msgpack:"e,omitempty"`
}
