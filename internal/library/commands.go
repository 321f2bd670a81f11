package library

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/chartbox/internal/domain"
)

// Rescanner runs a reconciliation pass against the live root.
type Rescanner interface {
	Rescan(ctx context.Context, onProgress domain.ProgressFunc) (domain.ScanReport, error)
}

// Commands mutates the chart index. Every successful command persists the root.
type Commands struct {
	root    domain.RootAccess
	scanner Rescanner
	logger  *slog.Logger
}

// NewCommands creates a new Commands instance.
func NewCommands(root domain.RootAccess, scanner Rescanner, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	return &Commands{root: root, scanner: scanner, logger: logger}
}

// RecordPlay merges a finished play into the chart's best record and the
// per-path record table.
func (c *Commands) RecordPlay(ctx context.Context, path string, rec domain.SimpleRecord) (domain.SimpleRecord, error) {
	var best domain.SimpleRecord
	err := c.root.Update(func(data *domain.Data) error {
		i := data.FindChart(path)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrChartNotFound, path)
		}
		best = rec
		if prev := data.Charts[i].Record; prev != nil {
			best = prev.Better(rec)
		}
		data.Charts[i].Record = &best

		stored := best
		if prev := data.LocalRecords[path]; prev != nil {
			stored = prev.Better(best)
		}
		data.LocalRecords[path] = &stored
		return nil
	})
	if err != nil {
		c.logger.Error("failed to record play", "error", err, "path", path)
		return domain.SimpleRecord{}, err
	}
	c.logger.Info("recorded play", "path", path, "score", rec.Score, "best", best.Score)
	return best, c.persist(ctx)
}

// SetMods replaces the modifier set of a chart.
func (c *Commands) SetMods(ctx context.Context, path string, mods domain.Mods) error {
	err := c.root.Update(func(data *domain.Data) error {
		i := data.FindChart(path)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrChartNotFound, path)
		}
		data.Charts[i].Mods = mods
		return nil
	})
	if err != nil {
		c.logger.Error("failed to set mods", "error", err, "path", path)
		return err
	}
	c.logger.Debug("set mods", "path", path, "mods", mods)
	return c.persist(ctx)
}

// MarkUnlockPlayed records that the chart's unlock sequence was watched.
func (c *Commands) MarkUnlockPlayed(ctx context.Context, path string) error {
	err := c.root.Update(func(data *domain.Data) error {
		i := data.FindChart(path)
		if i < 0 {
			return fmt.Errorf("%w: %s", domain.ErrChartNotFound, path)
		}
		data.Charts[i].PlayedUnlock = true
		return nil
	})
	if err != nil {
		c.logger.Error("failed to mark unlock played", "error", err, "path", path)
		return err
	}
	return c.persist(ctx)
}

// Rescan reconciles the index with storage and persists the result.
func (c *Commands) Rescan(ctx context.Context, onProgress domain.ProgressFunc) (domain.ScanReport, error) {
	report, err := c.scanner.Rescan(ctx, onProgress)
	if err != nil {
		c.logger.Error("failed to rescan library", "error", err)
		return domain.ScanReport{}, err
	}
	return report, c.persist(ctx)
}

func (c *Commands) persist(ctx context.Context) error {
	if err := c.root.Persist(ctx); err != nil {
		c.logger.Error("failed to persist data", "error", err)
		return err
	}
	return nil
}
