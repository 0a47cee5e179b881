package scoreboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultMaxEntries bounds how many records a store keeps per size.
const DefaultMaxEntries = 100

// FileStore implements Store with one JSON file per maze size.
type FileStore struct {
	dir        string
	maxEntries int
	mu         sync.Mutex
}

// NewFileStore creates the directory if needed. maxEntries <= 0 selects
// DefaultMaxEntries.
func NewFileStore(dir string, maxEntries int) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scores directory: %w", err)
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &FileStore{dir: dir, maxEntries: maxEntries}, nil
}

// Add inserts rec and keeps only the best maxEntries records for its size.
func (fs *FileStore) Add(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	recs, err := fs.load(rec.Size)
	if err != nil {
		return err
	}
	recs = append(recs, rec)
	rank(recs)
	if len(recs) > fs.maxEntries {
		recs = recs[:fs.maxEntries]
	}

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}

	// Write to a temp file first so readers never see a partial list.
	tmp := fs.getFilePath(rec.Size) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write scores file: %w", err)
	}
	if err := os.Rename(tmp, fs.getFilePath(rec.Size)); err != nil {
		return fmt.Errorf("failed to replace scores file: %w", err)
	}
	return nil
}

// Top returns up to limit records for size, best first. limit <= 0 returns
// every stored record.
func (fs *FileStore) Top(ctx context.Context, size, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	recs, err := fs.load(size)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Close implements Store.
func (fs *FileStore) Close() error { return nil }

func (fs *FileStore) load(size int) ([]Record, error) {
	data, err := os.ReadFile(fs.getFilePath(size))
	if errors.Is(err, os.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scores file: %w", err)
	}

	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	rank(recs)
	return recs, nil
}

// getFilePath returns the file holding records for one maze size
func (fs *FileStore) getFilePath(size int) string {
	return filepath.Join(fs.dir, fmt.Sprintf("size-%d.json", size))
}
