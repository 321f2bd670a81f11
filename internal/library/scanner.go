package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/chartbox/internal/domain"
)

const defaultParseWorkers = 4

// Layout locates the chart storage areas on disk.
type Layout struct {
	ChartsDir   string // Root that every local_path is relative to
	RespacksDir string // Resource packs, one entry per pack
}

// CustomDir holds user imports (custom/<filename>).
func (l Layout) CustomDir() string { return filepath.Join(l.ChartsDir, "custom") }

// DownloadDir holds remote downloads named by id (download/<id>).
func (l Layout) DownloadDir() string { return filepath.Join(l.ChartsDir, "download") }

// Resolve returns the on-disk location of a chart path.
func (l Layout) Resolve(p domain.ChartPath) string {
	return filepath.Join(l.ChartsDir, filepath.FromSlash(p.String()))
}

// Scanner reconciles the chart index with what storage actually contains.
type Scanner struct {
	layout      Layout
	reader      domain.InfoReader
	logger      *slog.Logger
	workers     int
	listTimeout time.Duration
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithParseWorkers bounds how many entries are parsed at once.
func WithParseWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithListTimeout fails the pass when listing a storage area takes longer than d.
func WithListTimeout(d time.Duration) Option {
	return func(s *Scanner) { s.listTimeout = d }
}

// NewScanner creates a new Scanner.
func NewScanner(layout Layout, reader domain.InfoReader, logger *slog.Logger, opts ...Option) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scanner{layout: layout, reader: reader, logger: logger, workers: defaultParseWorkers}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) Layout() Layout { return s.layout }

// candidate is a storage entry that is not yet in the index.
type candidate struct {
	path   domain.ChartPath
	onDisk string
}

// Reconcile compares a snapshot of the index against storage.
//
// The known set is computed once from charts, so discovery order does not
// affect which entries are added. Unreadable entries are skipped and counted;
// only a failure to list a storage area is returned, wrapping
// domain.ErrStorageUnavailable.
func (s *Scanner) Reconcile(
	ctx context.Context,
	charts []domain.LocalChart,
	respacks []string,
	onProgress domain.ProgressFunc,
) (domain.ScanReport, error) {
	var report domain.ScanReport

	// 1. Prune entries whose storage is gone
	known := make(map[string]struct{}, len(charts))
	for i := range charts {
		known[charts[i].Path.String()] = struct{}{}
		if s.missing(charts[i].Path) {
			report.Pruned = append(report.Pruned, charts[i].Path)
		}
	}

	// 2. List the storage areas concurrently
	var customEntries, downloadEntries, respackEntries []os.DirEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		customEntries, err = s.list(gctx, s.layout.CustomDir())
		return err
	})
	g.Go(func() (err error) {
		downloadEntries, err = s.list(gctx, s.layout.DownloadDir())
		return err
	})
	if s.layout.RespacksDir != "" {
		g.Go(func() (err error) {
			respackEntries, err = s.list(gctx, s.layout.RespacksDir)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.ScanReport{}, err
	}

	// 3. Collect unknown entries, imports before downloads
	var candidates []candidate
	for _, e := range customEntries {
		p := domain.ImportedPath(e.Name())
		if _, ok := known[p.String()]; ok {
			continue
		}
		candidates = append(candidates, candidate{path: p, onDisk: filepath.Join(s.layout.CustomDir(), e.Name())})
	}
	for _, e := range downloadEntries {
		id, ok := parseRemoteID(e.Name())
		if !ok {
			s.logger.Debug("skipping download entry with non-numeric name", "name", e.Name())
			report.Skipped++
			continue
		}
		p := domain.DownloadedPath(id)
		if _, ok := known[p.String()]; ok {
			continue
		}
		candidates = append(candidates, candidate{path: p, onDisk: filepath.Join(s.layout.DownloadDir(), e.Name())})
	}

	// 4. Parse candidates; failures collapse to a skip
	added, skipped, err := s.parseAll(ctx, candidates, onProgress)
	if err != nil {
		return domain.ScanReport{}, err
	}
	report.Added = added
	report.Skipped += skipped

	// 5. Resource packs not listed yet
	for _, e := range respackEntries {
		if !slices.Contains(respacks, e.Name()) {
			report.Respacks = append(report.Respacks, e.Name())
		}
	}

	s.logger.Info("reconciled library",
		"pruned", len(report.Pruned),
		"added", len(report.Added),
		"skipped", report.Skipped,
		"respacks", len(report.Respacks))
	return report, nil
}

// missing reports whether the chart's storage entry no longer exists.
func (s *Scanner) missing(p domain.ChartPath) bool {
	_, err := os.Stat(s.layout.Resolve(p))
	return errors.Is(err, fs.ErrNotExist)
}

func (s *Scanner) parseAll(
	ctx context.Context,
	candidates []candidate,
	onProgress domain.ProgressFunc,
) ([]domain.LocalChart, int, error) {
	results := make([]*domain.LocalChart, len(candidates))

	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		if onProgress == nil {
			return
		}
		mu.Lock()
		done++
		onProgress(done, len(candidates))
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, c := range candidates {
		g.Go(func() error {
			defer report()
			info, err := s.reader.ReadInfo(gctx, c.onDisk)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.Debug("skipping unreadable chart", "path", c.path.String(), "error", err)
				return nil
			}
			chart := domain.NewLocalChart(c.path, info)
			results[i] = &chart
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	added := make([]domain.LocalChart, 0, len(results))
	skipped := 0
	for _, r := range results {
		if r == nil {
			skipped++
			continue
		}
		added = append(added, *r)
	}
	return added, skipped, nil
}

// list enumerates dir, creating it when missing. Any failure, including the
// list timeout, wraps domain.ErrStorageUnavailable.
func (s *Scanner) list(ctx context.Context, dir string) ([]os.DirEntry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", domain.ErrStorageUnavailable, dir, err)
	}

	if s.listTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.listTimeout)
		defer cancel()
	}

	type result struct {
		entries []os.DirEntry
		err     error
	}
	resultCh := make(chan result, 1)
	go func() {
		entries, err := os.ReadDir(dir)
		resultCh <- result{entries, err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, fmt.Errorf("%w: list %s: %w", domain.ErrStorageUnavailable, dir, res.err)
		}
		return res.entries, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: list %s: %w", domain.ErrStorageUnavailable, dir, ctx.Err())
	}
}

// parseRemoteID accepts only the canonical decimal form so the entry name
// and the synthesized local_path stay identical.
func parseRemoteID(name string) (int32, bool) {
	id, err := strconv.ParseInt(name, 10, 32)
	if err != nil || strconv.FormatInt(id, 10) != name {
		return 0, false
	}
	return int32(id), true
}
