package storage

import "sync"

// Memory is an in-process KV store. Zero value is not usable; construct
// with NewMemory.
type Memory struct {
	values sync.Map
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns the value for key and whether it exists.
func (m *Memory) Get(key string) (string, bool) {
	v, ok := m.values.Load(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	m.values.Store(key, value)
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) error {
	m.values.Delete(key)
	return nil
}
