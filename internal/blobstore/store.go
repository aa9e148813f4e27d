// Package blobstore keeps serialized modules: one header plus one blob per
// top-level declaration, addressed by module name and identity.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"irpack/internal/ir"
	"irpack/internal/irser"
	"irpack/internal/wire"
)

var (
	// ErrNotFound is returned for an unknown module or blob.
	ErrNotFound = errors.New("blobstore: not found")
	// ErrUnknownKind is returned by Open for an unsupported store kind.
	ErrUnknownKind = errors.New("blobstore: unknown store kind")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("blobstore: store closed")
)

// Store kinds accepted by Open.
const (
	KindMemory = "memory"
	KindDisk   = "disk"
	KindSQLite = "sqlite"
)

// Store persists serialized modules. Putting a module replaces any earlier
// version of it, blobs included.
type Store interface {
	PutModule(ctx context.Context, module string, s *irser.Serialized) error
	Header(ctx context.Context, module string) ([]byte, error)
	Blob(ctx context.Context, module string, id ir.UniqID) ([]byte, error)
	// Modules lists the stored module names in ascending order.
	Modules(ctx context.Context) ([]string, error)
	Close() error
}

// Open returns a store of the given kind. Path is a directory for disk
// stores, a database file for sqlite stores and ignored for memory stores.
func Open(kind, path string) (Store, error) {
	switch kind {
	case KindMemory, "":
		return NewMemStore(), nil
	case KindDisk:
		return OpenDisk(path)
	case KindSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Fetcher adapts a store to the codec's fetch function for one module.
func Fetcher(ctx context.Context, st Store, module string) irser.FetchFunc {
	return func(id ir.UniqID) ([]byte, error) {
		return st.Blob(ctx, module, id)
	}
}

// Load reads a whole module back: the header and the blob of every
// top-level declaration it lists.
func Load(ctx context.Context, st Store, module string) (*irser.Serialized, error) {
	header, err := st.Header(ctx, module)
	if err != nil {
		return nil, err
	}
	ids, err := TopLevel(header)
	if err != nil {
		return nil, err
	}
	out := &irser.Serialized{Header: header, Blobs: make(map[ir.UniqID][]byte, len(ids))}
	for _, id := range ids {
		data, err := st.Blob(ctx, module, id)
		if err != nil {
			return nil, fmt.Errorf("blob %s of %s: %w", id, module, err)
		}
		out.Blobs[id] = data
	}
	return out, nil
}

// TopLevel lists the identities a header names, file by file.
func TopLevel(header []byte) ([]ir.UniqID, error) {
	var h wire.Module
	if err := wire.Unmarshal(header, &h); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	var ids []ir.UniqID
	for _, f := range h.Files {
		for _, raw := range f.Declarations {
			ids = append(ids, ir.UniqID(raw))
		}
	}
	return ids, nil
}

func checkPut(module string, s *irser.Serialized) error {
	if module == "" {
		return errors.New("blobstore: empty module name")
	}
	if s == nil || len(s.Header) == 0 {
		return fmt.Errorf("blobstore: module %s has no header", module)
	}
	return nil
}

// sortedIDs returns the blob identities of s in ascending order.
func sortedIDs(s *irser.Serialized) []ir.UniqID {
	ids := make([]ir.UniqID, 0, len(s.Blobs))
	for id := range s.Blobs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func blobKey(id ir.UniqID) string { return fmt.Sprintf("%016x", uint64(id)) }
