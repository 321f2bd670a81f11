package domain

import "slices"

// DefaultFolder is the reserved folder that always exists and can never be
// renamed or deleted.
const DefaultFolder = "default"

// Favorites organizes chart paths into named folders.
// Membership is many-to-many: a path may sit in any number of folders.
// Folder lists keep insertion order, so the last entry is the most recently added.
type Favorites struct {
	Folders map[string][]string `json:"folders"`
	Covers  map[string]string   `json:"covers"` // Folder name -> custom cover image reference
}

// EnsureDefault creates the reserved folder if it is missing.
func (f *Favorites) EnsureDefault() {
	if f.Folders == nil {
		f.Folders = make(map[string][]string)
	}
	if f.Covers == nil {
		f.Covers = make(map[string]string)
	}
	if _, ok := f.Folders[DefaultFolder]; !ok {
		f.Folders[DefaultFolder] = []string{}
	}
}

func (f *Favorites) IsInDefault(path string) bool {
	return slices.Contains(f.Folders[DefaultFolder], path)
}

// IsFavorited reports whether any folder contains path.
func (f *Favorites) IsFavorited(path string) bool {
	for _, paths := range f.Folders {
		if slices.Contains(paths, path) {
			return true
		}
	}
	return false
}

// AddTo appends path to an existing folder unless it is already there.
// It returns false when the folder does not exist; folders are never
// created implicitly.
func (f *Favorites) AddTo(folder, path string) bool {
	paths, ok := f.Folders[folder]
	if !ok {
		return false
	}
	if !slices.Contains(paths, path) {
		f.Folders[folder] = append(paths, path)
	}
	return true
}

// RemoveFrom drops every occurrence of path from folder.
func (f *Favorites) RemoveFrom(folder, path string) {
	paths, ok := f.Folders[folder]
	if !ok {
		return
	}
	f.Folders[folder] = slices.DeleteFunc(paths, func(p string) bool { return p == path })
}

// ToggleDefault flips membership of path in the reserved folder and
// returns true if the path was added.
func (f *Favorites) ToggleDefault(path string) bool {
	f.EnsureDefault()
	paths := f.Folders[DefaultFolder]
	if i := slices.Index(paths, path); i >= 0 {
		f.Folders[DefaultFolder] = slices.Delete(paths, i, i+1)
		return false
	}
	f.Folders[DefaultFolder] = append(paths, path)
	return true
}

// CreateFolder adds an empty folder. It fails without mutating anything
// if the name is already taken.
func (f *Favorites) CreateFolder(name string) bool {
	if _, ok := f.Folders[name]; ok {
		return false
	}
	if f.Folders == nil {
		f.Folders = make(map[string][]string)
	}
	f.Folders[name] = []string{}
	return true
}

// RenameFolder moves the path list of oldName to newName.
// Covers are not touched; callers migrate them with MoveCover.
func (f *Favorites) RenameFolder(oldName, newName string) bool {
	if oldName == DefaultFolder {
		return false
	}
	if _, exists := f.Folders[newName]; exists {
		return false
	}
	paths, ok := f.Folders[oldName]
	if !ok {
		return false
	}
	delete(f.Folders, oldName)
	f.Folders[newName] = paths
	return true
}

// DeleteFolder removes a custom folder. The reserved folder is kept.
// Covers are not touched; callers drop them with RemoveCover.
func (f *Favorites) DeleteFolder(name string) {
	if name == DefaultFolder {
		return
	}
	delete(f.Folders, name)
}

// CustomFolderNames returns every folder except the reserved one, in map order.
func (f *Favorites) CustomFolderNames() []string {
	names := make([]string, 0, len(f.Folders))
	for name := range f.Folders {
		if name != DefaultFolder {
			names = append(names, name)
		}
	}
	return names
}

// AllFolderNames returns the reserved folder first (if present), then the rest.
func (f *Favorites) AllFolderNames() []string {
	names := make([]string, 0, len(f.Folders))
	if _, ok := f.Folders[DefaultFolder]; ok {
		names = append(names, DefaultFolder)
	}
	return append(names, f.CustomFolderNames()...)
}

// GetPaths returns a copy of the folder's paths, or an empty slice.
func (f *Favorites) GetPaths(folder string) []string {
	paths := f.Folders[folder]
	if paths == nil {
		return []string{}
	}
	return slices.Clone(paths)
}

// FoldersContaining lists every folder whose list contains path.
func (f *Favorites) FoldersContaining(path string) []string {
	var names []string
	for name, paths := range f.Folders {
		if slices.Contains(paths, path) {
			names = append(names, name)
		}
	}
	return names
}

// LatestPath returns the most recently added path of a folder.
func (f *Favorites) LatestPath(folder string) (string, bool) {
	paths := f.Folders[folder]
	if len(paths) == 0 {
		return "", false
	}
	return paths[len(paths)-1], true
}

// Cover returns the cover override for folder.
func (f *Favorites) Cover(folder string) (string, bool) {
	ref, ok := f.Covers[folder]
	return ref, ok
}

// SetCover records a cover override for an existing folder.
func (f *Favorites) SetCover(folder, ref string) bool {
	if _, ok := f.Folders[folder]; !ok {
		return false
	}
	if f.Covers == nil {
		f.Covers = make(map[string]string)
	}
	f.Covers[folder] = ref
	return true
}

func (f *Favorites) RemoveCover(folder string) {
	delete(f.Covers, folder)
}

// MoveCover re-keys a cover override after a rename. A missing cover is a no-op.
func (f *Favorites) MoveCover(oldName, newName string) {
	ref, ok := f.Covers[oldName]
	if !ok {
		return
	}
	delete(f.Covers, oldName)
	f.Covers[newName] = ref
}

// PrunePaths drops folder entries for which keep returns false and reports
// how many entries were removed. Reconciliation never calls this; dangling
// references are tolerated by readers.
func (f *Favorites) PrunePaths(keep func(path string) bool) int {
	removed := 0
	for name, paths := range f.Folders {
		before := len(paths)
		f.Folders[name] = slices.DeleteFunc(paths, func(p string) bool { return !keep(p) })
		removed += before - len(f.Folders[name])
	}
	return removed
}
