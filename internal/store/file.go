package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/mmcdole/chartbox/internal/domain"
)

// ErrLocked is returned when another process owns the data directory.
var ErrLocked = errors.New("data directory is in use by another process")

// FileStore keeps the root in one JSON file. Saves go through a temp file
// and a rename, so the previous copy survives a failed write.
type FileStore struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// NewFileStore opens the store at path and takes the process lock at lockPath.
// An empty lockPath skips locking.
func NewFileStore(path, lockPath string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &FileStore{path: path, logger: logger}
	if lockPath != "" {
		s.lock = flock.New(lockPath)
		ok, err := s.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLocked, lockPath)
		}
	}

	// A leftover temp file means a save was interrupted; the real file is intact.
	if err := os.Remove(s.tmpPath()); err == nil {
		logger.Warn("removed interrupted save", "path", s.tmpPath())
	}
	return s, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) tmpPath() string { return s.path + ".tmp" }

func (s *FileStore) Load(ctx context.Context) (*domain.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return Decode(raw)
}

func (s *FileStore) Save(ctx context.Context, data *domain.Data) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := Encode(data)
	if err != nil {
		return err
	}

	tmpPath := s.tmpPath()
	if err := writeSynced(tmpPath, raw); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("saved data", "path", s.path, "bytes", len(raw))
	return nil
}

// Close releases the process lock.
func (s *FileStore) Close() error {
	if s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

func writeSynced(path string, raw []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
