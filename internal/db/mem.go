package db

import (
	"context"
	"sync"

	"github.com/mithrel/leancanvas/pkg/canvas"
)

// MemStore keeps the encoded record in process memory.
type MemStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemStore() *MemStore { return &MemStore{} }

func (m *MemStore) Load(ctx context.Context) (canvas.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return canvas.Record{}, ErrNotFound
	}
	return decodeRecord(m.data)
}

func (m *MemStore) Save(ctx context.Context, r canvas.Record) error {
	data, err := encodeRecord(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *MemStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// SetRaw stores bytes as-is; tests use it to plant corrupt values.
func (m *MemStore) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
}

func (m *MemStore) Close() error { return nil }
