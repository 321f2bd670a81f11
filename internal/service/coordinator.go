// Package service owns the process-wide root object.
package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mmcdole/chartbox/internal/domain"
)

// Reconciler compares a snapshot of the index against storage.
type Reconciler interface {
	Reconcile(ctx context.Context, charts []domain.LocalChart, respacks []string, onProgress domain.ProgressFunc) (domain.ScanReport, error)
}

// Coordinator owns the root object. Every read goes through View and every
// mutation through Update; both share one lock around the whole root.
// Coordinator implements domain.RootAccess.
type Coordinator struct {
	store   domain.RootStore
	scanner Reconciler
	logger  *slog.Logger

	mu   sync.RWMutex
	data *domain.Data

	saveMu sync.Mutex // One save at a time
	scans  singleflight.Group

	ready     chan struct{}
	readyOnce sync.Once
}

// NewCoordinator creates a coordinator holding a default root until Load.
func NewCoordinator(store domain.RootStore, scanner Reconciler, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		store:   store,
		scanner: scanner,
		logger:  logger,
		data:    domain.DefaultData(),
		ready:   make(chan struct{}),
	}
}

// Load replaces the root with the persisted copy. A missing or unreadable
// copy leaves the defaults in place.
func (c *Coordinator) Load(ctx context.Context) error {
	data, err := c.store.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.logger.Info("no saved data, starting with defaults")
		data = domain.DefaultData()
	case errors.Is(err, domain.ErrCorrupt):
		c.logger.Warn("saved data is corrupt, starting with defaults", "error", err)
		data = domain.DefaultData()
	case err != nil:
		c.logger.Error("failed to load data", "error", err)
		return err
	default:
		c.logger.Info("loaded data", "charts", len(data.Charts), "folders", len(data.Favorites.Folders))
	}

	c.mu.Lock()
	c.data = data
	c.mu.Unlock()
	return nil
}

// Initialize reconciles the index with storage, then ensures the default
// folder exists, then runs pending migrations. Calls made while a pass is in
// flight wait for it and share its report; only the first caller's
// onProgress is used.
func (c *Coordinator) Initialize(ctx context.Context, onProgress domain.ProgressFunc) (domain.ScanReport, error) {
	v, err, shared := c.scans.Do("reconcile", func() (interface{}, error) {
		return c.reconcile(ctx, onProgress)
	})
	if err != nil {
		return domain.ScanReport{}, err
	}
	if shared {
		c.logger.Debug("joined in-flight reconciliation")
	}
	return v.(domain.ScanReport), nil
}

// Rescan runs another reconciliation pass on demand.
func (c *Coordinator) Rescan(ctx context.Context, onProgress domain.ProgressFunc) (domain.ScanReport, error) {
	return c.Initialize(ctx, onProgress)
}

func (c *Coordinator) reconcile(ctx context.Context, onProgress domain.ProgressFunc) (domain.ScanReport, error) {
	c.mu.RLock()
	charts := slices.Clone(c.data.Charts)
	respacks := slices.Clone(c.data.Respacks)
	c.mu.RUnlock()

	report, err := c.scanner.Reconcile(ctx, charts, respacks, onProgress)
	if err != nil {
		c.logger.Error("reconciliation failed", "error", err)
		return domain.ScanReport{}, err
	}

	c.mu.Lock()
	c.data.ApplyScan(report)
	c.data.Favorites.EnsureDefault()
	report.Migrations = c.data.Migrate()
	total := len(c.data.Charts)
	c.mu.Unlock()

	for _, name := range report.Migrations {
		c.logger.Info("applied migration", "migration", name)
	}
	c.logger.Info("library ready", "charts", total, "added", len(report.Added), "pruned", len(report.Pruned))

	c.readyOnce.Do(func() { close(c.ready) })
	return report, nil
}

// Ready is closed once the first reconciliation pass has completed.
func (c *Coordinator) Ready() <-chan struct{} { return c.ready }

func (c *Coordinator) IsReady() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// View runs fn with shared access to the root. fn must not retain the
// pointer or mutate through it.
func (c *Coordinator) View(fn func(data *domain.Data)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.data)
}

// Update runs fn with exclusive access to the root. fn must check its
// preconditions before mutating so a returned error leaves the root unchanged.
func (c *Coordinator) Update(fn func(data *domain.Data) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.data)
}

// Persist writes the whole root through the store.
func (c *Coordinator) Persist(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Save(ctx, c.data)
}

// Close releases the store.
func (c *Coordinator) Close() error {
	return c.store.Close()
}
