package storage

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Driver used by tests and the memory backend.
// It holds documents in maps guarded by a mutex, matching the
// read-your-writes behavior of the embedded engine.
type Memory struct {
	mu          sync.Mutex
	collections map[string]map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string][]byte)}
}

func (m *Memory) Insert(_ context.Context, collection, id string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.collection(collection)
	if _, exists := docs[id]; exists {
		return fmt.Errorf("insert into %s: duplicate id %s", collection, id)
	}
	docs[id] = clone(doc)
	return nil
}

func (m *Memory) Get(_ context.Context, collection, id string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collection(collection)[id]
	if !ok {
		return nil, false, nil
	}
	return clone(doc), true, nil
}

func (m *Memory) List(_ context.Context, collection string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.collection(collection)
	out := make([][]byte, 0, len(docs))
	for _, doc := range docs {
		out = append(out, clone(doc))
	}
	return out, nil
}

func (m *Memory) Put(_ context.Context, collection, id string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(collection)[id] = clone(doc)
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collection(collection), id)
	return nil
}

func (m *Memory) Close() error { return nil }

// collection returns the document map, creating it on first use.
// Callers must hold the mutex.
func (m *Memory) collection(name string) map[string][]byte {
	docs, ok := m.collections[name]
	if !ok {
		docs = make(map[string][]byte)
		m.collections[name] = docs
	}
	return docs
}

func clone(doc []byte) []byte {
	out := make([]byte, len(doc))
	copy(out, doc)
	return out
}
