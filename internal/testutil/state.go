package testutil

import (
	"testing"

	"traki/internal/state"
)

// NewTestDB creates an in-memory state database with the schema applied.
// The database is automatically closed when the test completes.
func NewTestDB(t *testing.T) *state.DB {
	t.Helper()

	db, err := state.Open(":memory:", FixedClock())
	if err != nil {
		t.Fatalf("failed to open state database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// MemoryStateStore is a map-backed StateStore for tests that don't need
// durability.
type MemoryStateStore struct {
	values map[string]string
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{values: make(map[string]string)}
}

func (m *MemoryStateStore) GetValue(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStateStore) SetValue(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *MemoryStateStore) DeleteValue(key string) error {
	delete(m.values, key)
	return nil
}
