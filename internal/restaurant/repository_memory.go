package restaurant

import (
	"context"
	"sync"
)

type MemoryRepository struct {
	mu       sync.Mutex
	snapshot []byte
	backups  map[string][]byte
	saveErr  error
	saves    int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{backups: make(map[string][]byte)}
}

func (m *MemoryRepository) Load(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, nil
}

func (m *MemoryRepository) Save(ctx context.Context, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snapshot = append([]byte(nil), snapshot...)
	m.saves++
	return nil
}

func (m *MemoryRepository) Backup(ctx context.Context, day string, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backups[day] = append([]byte(nil), snapshot...)
	return nil
}

// FailSaves makes every subsequent Save return err (nil restores normal saves).
func (m *MemoryRepository) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

func (m *MemoryRepository) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryRepository) Snapshot() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

func (m *MemoryRepository) BackupFor(day string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backups[day]
}
