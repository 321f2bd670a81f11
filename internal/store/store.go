// Package store persists the root object as a single unit.
package store

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/chartbox/internal/domain"
)

// Backend names
const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

// Options selects and locates a backend.
type Options struct {
	Backend    string // "file" (default) or "bolt"
	Path       string // Data file or database
	LegacyPath string // JSON root imported by the bolt backend on first open
	LockPath   string // Process lock for the file backend
}

// Open returns the configured root store.
func Open(opts Options, logger *slog.Logger) (domain.RootStore, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Path, opts.LockPath, logger)
	case BackendBolt:
		return NewBoltStore(opts.Path, opts.LegacyPath, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
