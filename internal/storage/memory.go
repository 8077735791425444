package storage

import "sync"

// Memory is an in-process key/value slot. Nothing survives the process.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	// FailPut, when set, is returned by every Put.
	FailPut error
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		return m.FailPut
	}
	m.values[key] = value
	return nil
}
