package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"irpack/internal/ir"
	"irpack/internal/irser"
)

// diskSchemaVersion is bumped whenever the on-disk layout changes.
const diskSchemaVersion uint16 = 1

// maxParallelWrites bounds concurrent blob writes of one PutModule.
const maxParallelWrites = 8

// DiskStore keeps one directory per module:
//
//	<dir>/index.mp
//	<dir>/<module>/header.mp
//	<dir>/<module>/blobs/<id hex>.blob
//
// Every file is written to a temp file and renamed into place. Safe for
// concurrent use within one process.
type DiskStore struct {
	mu  sync.RWMutex
	dir string
}

// diskIndex lists the stored modules.
type diskIndex struct {
	Schema  uint16
	Modules map[string]diskEntry
}

type diskEntry struct {
	Dir   string
	Blobs uint32
}

// OpenDisk opens or creates a disk store rooted at dir.
func OpenDisk(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, errors.New("blobstore: disk store needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s := &DiskStore{dir: dir}
	idx, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	if idx.Schema != diskSchemaVersion {
		return nil, fmt.Errorf("blobstore: %s has schema %d, want %d", dir, idx.Schema, diskSchemaVersion)
	}
	return s, nil
}

func (s *DiskStore) indexPath() string { return filepath.Join(s.dir, "index.mp") }

func (s *DiskStore) moduleDir(module string) string {
	return filepath.Join(s.dir, url.PathEscape(module))
}

func (s *DiskStore) blobPath(module string, id ir.UniqID) string {
	return filepath.Join(s.moduleDir(module), "blobs", blobKey(id)+".blob")
}

func (s *DiskStore) readIndex() (*diskIndex, error) {
	idx := &diskIndex{Schema: diskSchemaVersion, Modules: make(map[string]diskEntry)}
	data, err := os.ReadFile(s.indexPath())
	if errors.Is(err, os.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return nil, err
	}
	if err := msgpack.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("blobstore: read index: %w", err)
	}
	if idx.Modules == nil {
		idx.Modules = make(map[string]diskEntry)
	}
	return idx, nil
}

func (s *DiskStore) writeIndex(idx *diskIndex) error {
	data, err := msgpack.Marshal(idx)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.indexPath(), data)
}

// PutModule implements Store. The module directory is rebuilt next to the
// old one and swapped in, so readers never see a half-written module.
func (s *DiskStore) PutModule(ctx context.Context, module string, ser *irser.Serialized) error {
	if err := checkPut(module, ser); err != nil {
		return err
	}
	blobs, err := safecast.Conv[uint32](len(ser.Blobs))
	if err != nil {
		return fmt.Errorf("blobstore: module %s: %w", module, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staging, err := os.MkdirTemp(s.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)
	if err := os.MkdirAll(filepath.Join(staging, "blobs"), 0o755); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(staging, "header.mp"), ser.Header); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelWrites)
	for _, id := range sortedIDs(ser) {
		data := ser.Blobs[id]
		path := filepath.Join(staging, "blobs", blobKey(id)+".blob")
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return writeFileAtomic(path, data)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("blobstore: write %s: %w", module, err)
	}

	final := s.moduleDir(module)
	if err := os.RemoveAll(final); err != nil {
		return err
	}
	if err := os.Rename(staging, final); err != nil {
		return err
	}

	idx, err := s.readIndex()
	if err != nil {
		return err
	}
	idx.Modules[module] = diskEntry{Dir: filepath.Base(final), Blobs: blobs}
	return s.writeIndex(idx)
}

// Header implements Store.
func (s *DiskStore) Header(_ context.Context, module string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readFile(filepath.Join(s.moduleDir(module), "header.mp"))
}

// Blob implements Store.
func (s *DiskStore) Blob(_ context.Context, module string, id ir.UniqID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readFile(s.blobPath(module, id))
}

// Modules implements Store.
func (s *DiskStore) Modules(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(idx.Modules))
	for name := range idx.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close implements Store; a disk store holds no open handles.
func (s *DiskStore) Close() error { return nil }

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func writeFileAtomic(path string, data []byte) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
