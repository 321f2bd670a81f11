package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mmcdole/chartbox/internal/chartinfo"
	"github.com/mmcdole/chartbox/internal/config"
	"github.com/mmcdole/chartbox/internal/domain"
	"github.com/mmcdole/chartbox/internal/favorites"
	"github.com/mmcdole/chartbox/internal/library"
	"github.com/mmcdole/chartbox/internal/log"
	"github.com/mmcdole/chartbox/internal/service"
	"github.com/mmcdole/chartbox/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.LoadConfig(c.configPath())
	})
	return c.config, c.configErr
}

// app wires the library for one command invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	coord  *service.Coordinator
	report domain.ScanReport

	charts    *library.Queries
	chartCmds *library.Commands
	favs      *favorites.Queries
	favCmds   *favorites.Commands
}

// withApp loads the root, reconciles it with storage and runs fn. Changes
// found by reconciliation are persisted before fn runs.
func (c *commandContext) withApp(cmd *cobra.Command, onProgress domain.ProgressFunc, fn func(*app) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	logger.Info("starting chartbox", "version", Version, "command", cmd.CommandPath())

	rootStore, err := store.Open(store.Options{
		Backend:    cfg.Storage.Backend,
		Path:       cfg.Storage.Path,
		LegacyPath: cfg.LegacyDataPath(),
		LockPath:   cfg.LockPath(),
	}, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	scanner := library.NewScanner(
		library.Layout{ChartsDir: cfg.Paths.ChartsDir, RespacksDir: cfg.Paths.RespacksDir},
		chartinfo.NewReader(logger),
		logger,
		library.WithParseWorkers(cfg.Library.ParseWorkers),
		library.WithListTimeout(cfg.Library.ScanTimeout),
	)
	coord := service.NewCoordinator(rootStore, scanner, logger)
	defer func() {
		if err := coord.Close(); err != nil {
			logger.Warn("failed to close storage", "error", err)
		}
	}()

	if err := coord.Load(ctx); err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	report, err := coord.Initialize(ctx, onProgress)
	if err != nil {
		return fmt.Errorf("initialize library: %w", err)
	}
	if report.Changed() {
		if err := coord.Persist(ctx); err != nil {
			return fmt.Errorf("save data: %w", err)
		}
	}

	return fn(&app{
		cfg:       cfg,
		logger:    logger,
		coord:     coord,
		report:    report,
		charts:    library.NewQueries(coord),
		chartCmds: library.NewCommands(coord, coord, logger),
		favs:      favorites.NewQueries(coord),
		favCmds:   favorites.NewCommands(coord, logger),
	})
}
