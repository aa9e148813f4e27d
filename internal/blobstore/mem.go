package blobstore

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"irpack/internal/ir"
	"irpack/internal/irser"
)

type memModule struct {
	header []byte
	blobs  map[ir.UniqID][]byte
}

// MemStore keeps modules in memory. Safe for concurrent use.
type MemStore struct {
	mu      sync.RWMutex
	modules map[string]*memModule
	closed  bool
}

// NewMemStore returns an empty store.
func NewMemStore() *MemStore {
	return &MemStore{modules: make(map[string]*memModule)}
}

// PutModule implements Store.
func (m *MemStore) PutModule(ctx context.Context, module string, s *irser.Serialized) error {
	if err := checkPut(module, s); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	mod := &memModule{header: bytes.Clone(s.Header), blobs: make(map[ir.UniqID][]byte, len(s.Blobs))}
	for id, data := range s.Blobs {
		mod.blobs[id] = bytes.Clone(data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.modules[module] = mod
	return nil
}

// Header implements Store.
func (m *MemStore) Header(_ context.Context, module string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	mod, ok := m.modules[module]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(mod.header), nil
}

// Blob implements Store.
func (m *MemStore) Blob(_ context.Context, module string, id ir.UniqID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	mod, ok := m.modules[module]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := mod.blobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(data), nil
}

// Modules implements Store.
func (m *MemStore) Modules(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	names := make([]string, 0, len(m.modules))
	for name := range m.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close drops every module.
func (m *MemStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.modules = nil
	return nil
}
