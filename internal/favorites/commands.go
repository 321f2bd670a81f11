package favorites

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/chartbox/internal/domain"
)

// Commands provides the folder mutations UI pages call.
// Each command is one Update on the root followed by a persist.
type Commands struct {
	root   domain.RootAccess
	logger *slog.Logger
}

// NewCommands creates a new Commands instance.
func NewCommands(root domain.RootAccess, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	return &Commands{root: root, logger: logger}
}

func (c *Commands) CreateFolder(ctx context.Context, name string) error {
	name, err := folderName(name)
	if err != nil {
		return err
	}
	err = c.root.Update(func(data *domain.Data) error {
		if !data.Favorites.CreateFolder(name) {
			return fmt.Errorf("%w: %s", domain.ErrFolderExists, name)
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("failed to create folder", "error", err, "folder", name)
		return err
	}
	c.logger.Info("created folder", "folder", name)
	return c.persist(ctx)
}

// RenameFolder renames a custom folder and carries its cover override along.
func (c *Commands) RenameFolder(ctx context.Context, oldName, newName string) error {
	newName, err := folderName(newName)
	if err != nil {
		return err
	}
	if oldName == domain.DefaultFolder {
		return domain.ErrReservedFolder
	}
	if oldName == newName {
		return nil
	}
	err = c.root.Update(func(data *domain.Data) error {
		fav := &data.Favorites
		if _, ok := fav.Folders[oldName]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrFolderNotFound, oldName)
		}
		if !fav.RenameFolder(oldName, newName) {
			return fmt.Errorf("%w: %s", domain.ErrFolderExists, newName)
		}
		fav.MoveCover(oldName, newName)
		return nil
	})
	if err != nil {
		c.logger.Warn("failed to rename folder", "error", err, "from", oldName, "to", newName)
		return err
	}
	c.logger.Info("renamed folder", "from", oldName, "to", newName)
	return c.persist(ctx)
}

// DeleteFolder removes a custom folder together with its cover override.
func (c *Commands) DeleteFolder(ctx context.Context, name string) error {
	if name == domain.DefaultFolder {
		return domain.ErrReservedFolder
	}
	err := c.root.Update(func(data *domain.Data) error {
		fav := &data.Favorites
		if _, ok := fav.Folders[name]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrFolderNotFound, name)
		}
		fav.DeleteFolder(name)
		fav.RemoveCover(name)
		return nil
	})
	if err != nil {
		c.logger.Warn("failed to delete folder", "error", err, "folder", name)
		return err
	}
	c.logger.Info("deleted folder", "folder", name)
	return c.persist(ctx)
}

func (c *Commands) AddTo(ctx context.Context, folder, path string) error {
	err := c.root.Update(func(data *domain.Data) error {
		if !data.Favorites.AddTo(folder, path) {
			return fmt.Errorf("%w: %s", domain.ErrFolderNotFound, folder)
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("failed to add to folder", "error", err, "folder", folder, "path", path)
		return err
	}
	c.logger.Debug("added to folder", "folder", folder, "path", path)
	return c.persist(ctx)
}

func (c *Commands) RemoveFrom(ctx context.Context, folder, path string) error {
	err := c.root.Update(func(data *domain.Data) error {
		if _, ok := data.Favorites.Folders[folder]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrFolderNotFound, folder)
		}
		data.Favorites.RemoveFrom(folder, path)
		return nil
	})
	if err != nil {
		c.logger.Warn("failed to remove from folder", "error", err, "folder", folder, "path", path)
		return err
	}
	c.logger.Debug("removed from folder", "folder", folder, "path", path)
	return c.persist(ctx)
}

// ToggleDefault flips membership in the default folder and reports whether
// the path is now favorited there.
func (c *Commands) ToggleDefault(ctx context.Context, path string) (bool, error) {
	var added bool
	_ = c.root.Update(func(data *domain.Data) error {
		added = data.Favorites.ToggleDefault(path)
		return nil
	})
	c.logger.Debug("toggled default favorite", "path", path, "added", added)
	return added, c.persist(ctx)
}

// SetCover overrides the cover image of a folder.
func (c *Commands) SetCover(ctx context.Context, folder, ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return c.RemoveCover(ctx, folder)
	}
	err := c.root.Update(func(data *domain.Data) error {
		if !data.Favorites.SetCover(folder, ref) {
			return fmt.Errorf("%w: %s", domain.ErrFolderNotFound, folder)
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("failed to set cover", "error", err, "folder", folder)
		return err
	}
	c.logger.Info("set folder cover", "folder", folder, "cover", ref)
	return c.persist(ctx)
}

func (c *Commands) RemoveCover(ctx context.Context, folder string) error {
	err := c.root.Update(func(data *domain.Data) error {
		if _, ok := data.Favorites.Folders[folder]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrFolderNotFound, folder)
		}
		data.Favorites.RemoveCover(folder)
		return nil
	})
	if err != nil {
		c.logger.Warn("failed to remove cover", "error", err, "folder", folder)
		return err
	}
	return c.persist(ctx)
}

// PruneDangling drops folder entries that no longer resolve to a chart.
func (c *Commands) PruneDangling(ctx context.Context) (int, error) {
	var removed int
	_ = c.root.Update(func(data *domain.Data) error {
		known := data.KnownPaths()
		removed = data.Favorites.PrunePaths(func(p string) bool {
			_, ok := known[p]
			return ok
		})
		return nil
	})
	if removed == 0 {
		return 0, nil
	}
	c.logger.Info("pruned dangling favorites", "count", removed)
	return removed, c.persist(ctx)
}

func (c *Commands) persist(ctx context.Context) error {
	if err := c.root.Persist(ctx); err != nil {
		c.logger.Error("failed to persist data", "error", err)
		return err
	}
	return nil
}

func folderName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrEmptyFolderName
	}
	return name, nil
}
