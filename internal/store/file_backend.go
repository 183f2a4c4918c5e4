package store

import (
	"context"
	"streamwatch/internal/providers"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// FileBackend keeps every entry in memory and writes a compressed snapshot
// to disk on Persist. Writes between two Persist calls are lost on crash.
type FileBackend struct {
	*MemoryBackend
	path        string
	fileManager *FileManager
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	dirty       atomic.Bool
	persistMu   sync.Mutex
}

func NewFileBackend(path string, fileManager *FileManager, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileBackend {
	return &FileBackend{
		MemoryBackend: NewMemoryBackend(),
		path:          path,
		fileManager:   fileManager,
		logger:        logger,
		metrics:       metrics,
	}
}

func (b *FileBackend) Put(ctx context.Context, key string, value []byte) error {
	if err := b.MemoryBackend.Put(ctx, key, value); err != nil {
		return err
	}
	b.dirty.Store(true)
	return nil
}

func (b *FileBackend) Delete(ctx context.Context, key string) error {
	if err := b.MemoryBackend.Delete(ctx, key); err != nil {
		return err
	}
	b.dirty.Store(true)
	return nil
}

func (b *FileBackend) Restore() error {
	snapshot, err := b.fileManager.LoadFromFile(b.path)
	if err != nil {
		return err
	}
	if snapshot == nil {
		b.logger.Infof(providers.TypeApp, "No state file at %s, starting empty", b.path)
		return nil
	}
	b.replace(snapshot.Entries)
	b.logger.Infof(providers.TypeApp, "Restored %d entries from %s", len(snapshot.Entries), b.path)
	return nil
}

// Persist writes a snapshot when anything changed since the last one.
func (b *FileBackend) Persist() error {
	b.persistMu.Lock()
	defer b.persistMu.Unlock()

	if !b.dirty.Swap(false) {
		return nil
	}
	start := time.Now()
	err := b.fileManager.SaveToFile(b.path, &Snapshot{Version: snapshotVersion, Entries: b.snapshot()})
	if err != nil {
		b.dirty.Store(true)
		return err
	}
	b.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

func (b *FileBackend) Close() error {
	err := b.Persist()
	b.fileManager.Close()
	return err
}
