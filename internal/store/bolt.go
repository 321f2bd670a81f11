package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/chartbox/internal/domain"
)

// Bucket and key names
var (
	bucketRoot = []byte("root")
	keyData    = []byte("data")
	keySavedAt = []byte("saved_at")
)

// BoltStore keeps the root as a single value in a bbolt database.
// Every save is one transaction, so readers never see a partial root.
type BoltStore struct {
	db     *bolt.DB
	logger *slog.Logger
}

// NewBoltStore opens the database at path. If the database holds no root yet
// and legacyPath names an existing JSON root, that file is imported and
// renamed with an ".imported" suffix.
func NewBoltStore(path, legacyPath string, logger *slog.Logger) (*BoltStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRoot)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltStore{db: db, logger: logger}
	if legacyPath != "" {
		if err := s.importLegacy(legacyPath); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// importLegacy copies a JSON root into an empty database.
func (s *BoltStore) importLegacy(legacyPath string) error {
	raw, err := os.ReadFile(legacyPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read legacy data: %w", err)
	}

	var imported bool
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRoot)
		if b.Get(keyData) != nil {
			return nil
		}
		if _, err := Decode(raw); err != nil {
			s.logger.Warn("legacy data is corrupt, not importing", "path", legacyPath, "error", err)
			return nil
		}
		imported = true
		return putRoot(b, raw)
	})
	if err != nil {
		return fmt.Errorf("import legacy data: %w", err)
	}
	if !imported {
		return nil
	}

	if err := os.Rename(legacyPath, legacyPath+".imported"); err != nil {
		s.logger.Warn("failed to rename imported legacy data", "path", legacyPath, "error", err)
	}
	s.logger.Info("imported legacy data", "path", legacyPath, "bytes", len(raw))
	return nil
}

func (s *BoltStore) Load(ctx context.Context) (*domain.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketRoot).Get(keyData); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, domain.ErrNotFound
	}
	return Decode(raw)
}

func (s *BoltStore) Save(ctx context.Context, data *domain.Data) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := Encode(data)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return putRoot(tx.Bucket(bucketRoot), raw)
	})
	if err != nil {
		return fmt.Errorf("save data: %w", err)
	}
	s.logger.Debug("saved data", "path", s.db.Path(), "bytes", len(raw))
	return nil
}

// SavedAt returns when the root was last written, or the zero time.
func (s *BoltStore) SavedAt() time.Time {
	var ts time.Time
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketRoot).Get(keySavedAt); v != nil {
			ts, _ = time.Parse(time.RFC3339Nano, string(v))
		}
		return nil
	})
	return ts
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func putRoot(b *bolt.Bucket, raw []byte) error {
	if err := b.Put(keyData, raw); err != nil {
		return err
	}
	return b.Put(keySavedAt, []byte(time.Now().UTC().Format(time.RFC3339Nano)))
}
