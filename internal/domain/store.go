package domain

import "context"

// RootStore persists the root object as one unit.
// Save must be atomic: a failed or interrupted save leaves the previous
// copy intact.
type RootStore interface {
	// Load returns ErrNotFound when nothing was saved yet and an error
	// wrapping ErrCorrupt when the saved copy cannot be decoded.
	Load(ctx context.Context) (*Data, error)
	Save(ctx context.Context, data *Data) error
	Close() error
}

// InfoReader extracts chart metadata from a storage entry (archive or directory).
type InfoReader interface {
	ReadInfo(ctx context.Context, path string) (BriefChartInfo, error)
}

// ProgressFunc is called with loaded/total counts during long operations.
type ProgressFunc func(loaded, total int)

// RootAccess is the read/mutate discipline over the shared root object.
// Update runs fn under an exclusive lock; View runs fn under a shared lock.
// Persist writes the whole root; callers invoke it after each logical mutation.
type RootAccess interface {
	View(fn func(data *Data))
	Update(fn func(data *Data) error) error
	Persist(ctx context.Context) error
}
