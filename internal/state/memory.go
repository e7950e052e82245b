package state

import (
	"bytes"
	"sync"
)

// MemoryStore keeps values for the life of the process.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	closed bool
	obs    observers
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	return m.Update(key, func([]byte, bool) ([]byte, error) { return value, nil })
}

func (m *MemoryStore) Delete(key string) error {
	return m.Update(key, func([]byte, bool) ([]byte, error) { return nil, nil })
}

func (m *MemoryStore) Update(key string, fn UpdateFunc) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	current, ok := m.values[key]
	next, err := fn(bytes.Clone(current), ok)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if next == nil {
		delete(m.values, key)
	} else {
		m.values[key] = bytes.Clone(next)
	}
	m.mu.Unlock()
	m.obs.notify(key)
	return nil
}

func (m *MemoryStore) Observe(key string, fn func(string)) func() {
	return m.obs.add(key, fn)
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
