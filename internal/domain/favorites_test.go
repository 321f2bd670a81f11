package domain

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFavorites() *Favorites {
	f := &Favorites{}
	f.EnsureDefault()
	return f
}

func TestEnsureDefaultIsIdempotent(t *testing.T) {
	f := &Favorites{}
	f.EnsureDefault()
	require.True(t, f.AddTo(DefaultFolder, "custom/a.zip"))

	f.EnsureDefault()
	assert.Equal(t, []string{"custom/a.zip"}, f.GetPaths(DefaultFolder))
	assert.NotNil(t, f.Covers)
}

func TestAddToRemoveFromNoDuplicates(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	paths := []string{"custom/a.zip", "custom/b.zip", "download/1", "download/2", "builtin/x"}

	for round := 0; round < 200; round++ {
		f := newFavorites()
		require.True(t, f.CreateFolder("mix"))

		want := []string{}
		for step := 0; step < 30; step++ {
			p := paths[rng.Intn(len(paths))]
			if rng.Intn(3) == 0 {
				f.RemoveFrom("mix", p)
				want = slices.DeleteFunc(want, func(s string) bool { return s == p })
			} else {
				require.True(t, f.AddTo("mix", p))
				if !slices.Contains(want, p) {
					want = append(want, p)
				}
			}
		}

		got := f.GetPaths("mix")
		compact := slices.Clone(got)
		slices.Sort(compact)
		assert.Equal(t, len(compact), len(slices.Compact(compact)), "duplicates in %v", got)
		assert.Equal(t, want, got)
	}
}

func TestAddToMissingFolder(t *testing.T) {
	f := newFavorites()
	assert.False(t, f.AddTo("nope", "custom/a.zip"))
	_, exists := f.Folders["nope"]
	assert.False(t, exists, "AddTo must not create folders")
}

func TestRemoveFromMissing(t *testing.T) {
	f := newFavorites()
	f.RemoveFrom("nope", "custom/a.zip")
	f.RemoveFrom(DefaultFolder, "custom/a.zip")
	assert.Empty(t, f.GetPaths(DefaultFolder))
}

func TestCreateFolderTwice(t *testing.T) {
	f := newFavorites()
	require.True(t, f.CreateFolder("x"))
	require.True(t, f.AddTo("x", "download/42"))

	assert.False(t, f.CreateFolder("x"))
	assert.Equal(t, []string{"download/42"}, f.GetPaths("x"))
}

func TestFolderNamesAreCaseSensitive(t *testing.T) {
	f := newFavorites()
	assert.True(t, f.CreateFolder("Hard"))
	assert.True(t, f.CreateFolder("hard"))
	assert.ElementsMatch(t, []string{"Hard", "hard"}, f.CustomFolderNames())
}

func TestRenameFolder(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *Favorites)
		oldName string
		newName string
		wantOK  bool
	}{
		{
			name:    "default folder is protected",
			setup:   func(f *Favorites) { f.AddTo(DefaultFolder, "custom/a.zip") },
			oldName: DefaultFolder,
			newName: "anything",
		},
		{
			name: "target exists",
			setup: func(f *Favorites) {
				f.CreateFolder("a")
				f.CreateFolder("b")
				f.AddTo("a", "custom/a.zip")
				f.AddTo("b", "custom/b.zip")
			},
			oldName: "a",
			newName: "b",
		},
		{
			name:    "renaming onto default",
			setup:   func(f *Favorites) { f.CreateFolder("a") },
			oldName: "a",
			newName: DefaultFolder,
		},
		{
			name:    "source missing",
			oldName: "ghost",
			newName: "c",
		},
		{
			name: "success",
			setup: func(f *Favorites) {
				f.CreateFolder("a")
				f.AddTo("a", "download/7")
			},
			oldName: "a",
			newName: "c",
			wantOK:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFavorites()
			if tt.setup != nil {
				tt.setup(f)
			}
			before := cloneFolders(f.Folders)

			ok := f.RenameFolder(tt.oldName, tt.newName)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, before, f.Folders)
				return
			}
			_, oldExists := f.Folders[tt.oldName]
			assert.False(t, oldExists)
			assert.Equal(t, before[tt.oldName], f.Folders[tt.newName])
		})
	}
}

func TestRenameKeepsCoverUntilMoved(t *testing.T) {
	f := newFavorites()
	f.CreateFolder("a")
	require.True(t, f.SetCover("a", "covers/a.png"))

	require.True(t, f.RenameFolder("a", "b"))
	ref, ok := f.Cover("a")
	assert.True(t, ok)
	assert.Equal(t, "covers/a.png", ref)

	f.MoveCover("a", "b")
	_, ok = f.Cover("a")
	assert.False(t, ok)
	ref, _ = f.Cover("b")
	assert.Equal(t, "covers/a.png", ref)
}

func TestDeleteFolder(t *testing.T) {
	f := newFavorites()
	f.CreateFolder("plain")
	f.CreateFolder("covered")
	f.AddTo("plain", "custom/a.zip")
	f.AddTo(DefaultFolder, "custom/a.zip")
	f.SetCover("covered", "covers/c.png")

	f.DeleteFolder("plain")
	_, exists := f.Folders["plain"]
	assert.False(t, exists)
	assert.True(t, f.IsFavorited("custom/a.zip"), "membership elsewhere survives")

	f.DeleteFolder("covered")
	assert.Equal(t, map[string]string{"covered": "covers/c.png"}, f.Covers)

	f.DeleteFolder(DefaultFolder)
	assert.Contains(t, f.Folders, DefaultFolder)
}

func TestToggleDefault(t *testing.T) {
	f := &Favorites{}

	assert.True(t, f.ToggleDefault("download/3"))
	assert.True(t, f.IsInDefault("download/3"))
	assert.False(t, f.ToggleDefault("download/3"))
	assert.False(t, f.IsInDefault("download/3"))
}

func TestFolderNameListing(t *testing.T) {
	f := newFavorites()
	f.CreateFolder("b")
	f.CreateFolder("a")

	all := f.AllFolderNames()
	require.Len(t, all, 3)
	assert.Equal(t, DefaultFolder, all[0])
	assert.ElementsMatch(t, []string{"a", "b"}, all[1:])
	assert.ElementsMatch(t, []string{"a", "b"}, f.CustomFolderNames())
}

func TestMembershipQueries(t *testing.T) {
	f := newFavorites()
	f.CreateFolder("x")
	f.AddTo("x", "custom/a.zip")
	f.AddTo(DefaultFolder, "custom/a.zip")
	f.AddTo(DefaultFolder, "custom/b.zip")

	assert.ElementsMatch(t, []string{"x", DefaultFolder}, f.FoldersContaining("custom/a.zip"))
	assert.Equal(t, []string{DefaultFolder}, f.FoldersContaining("custom/b.zip"))
	assert.Empty(t, f.FoldersContaining("custom/c.zip"))
	assert.False(t, f.IsFavorited("custom/c.zip"))
	assert.Empty(t, f.GetPaths("missing"))

	latest, ok := f.LatestPath(DefaultFolder)
	assert.True(t, ok)
	assert.Equal(t, "custom/b.zip", latest)
}

func TestGetPathsReturnsCopy(t *testing.T) {
	f := newFavorites()
	f.AddTo(DefaultFolder, "custom/a.zip")

	paths := f.GetPaths(DefaultFolder)
	paths[0] = "mutated"
	assert.Equal(t, []string{"custom/a.zip"}, f.GetPaths(DefaultFolder))
}

func TestSetCoverRequiresFolder(t *testing.T) {
	f := newFavorites()
	assert.False(t, f.SetCover("ghost", "covers/g.png"))
	assert.Empty(t, f.Covers)
}

func TestPrunePaths(t *testing.T) {
	f := newFavorites()
	f.CreateFolder("x")
	f.AddTo("x", "custom/gone.zip")
	f.AddTo("x", "custom/kept.zip")
	f.AddTo(DefaultFolder, "custom/gone.zip")

	removed := f.PrunePaths(func(p string) bool { return p != "custom/gone.zip" })
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"custom/kept.zip"}, f.GetPaths("x"))
	assert.Empty(t, f.GetPaths(DefaultFolder))
}

func cloneFolders(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = slices.Clone(v)
	}
	return out
}
