package cache

import (
	"errors"
	"sync"
)

// ErrQuotaExceeded is returned by a Medium when a write no longer fits.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Medium is the local persistence contract: a flat string key-value store.
// Read reports ok=false on a missing key. Write may fail with
// ErrQuotaExceeded when the medium is full.
type Medium interface {
	Read(key string) (value string, ok bool, err error)
	Write(key, value string) error
}

// MemoryMedium is an in-memory Medium. MaxBytes, when non-zero, caps the
// total stored size so quota behavior can be exercised in tests.
type MemoryMedium struct {
	MaxBytes int

	mu   sync.Mutex
	data map[string]string
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{data: make(map[string]string)}
}

func (m *MemoryMedium) Read(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryMedium) Write(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MaxBytes > 0 {
		total := len(value)
		for k, v := range m.data {
			if k == key {
				continue
			}
			total += len(v)
		}
		if total > m.MaxBytes {
			return ErrQuotaExceeded
		}
	}
	m.data[key] = value
	return nil
}
