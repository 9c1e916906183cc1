package store

import (
	"context"
	"sync"

	"rocketcart/model"
)

// MemoryStore keeps encoded snapshots in a map so reads go through the same
// codec as the durable drivers.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	key  string
}

func NewMemoryStore(key string) *MemoryStore {
	if key == "" {
		key = DefaultKey
	}
	return &MemoryStore{data: make(map[string][]byte), key: key}
}

func (m *MemoryStore) Load(ctx context.Context) (model.Cart, error) {
	m.mu.RLock()
	payload, ok := m.data[m.key]
	m.mu.RUnlock()

	if !ok {
		return model.Cart{}, nil
	}
	return decode(payload)
}

func (m *MemoryStore) Save(ctx context.Context, cart model.Cart) error {
	payload, err := encode(cart)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[m.key] = payload
	return nil
}

// Put stores a raw payload under the store's key, bypassing the codec.
func (m *MemoryStore) Put(payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[m.key] = payload
}

func (m *MemoryStore) Close() error { return nil }
