package favorites

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/chartbox/internal/domain"
)

// Cover is the image shown on a folder card.
type Cover struct {
	Ref    string // Custom image reference, or the local_path of a chart
	Custom bool   // Ref is a user override rather than a chart
}

// Queries provides synchronous reads of the favorites.
type Queries struct {
	root domain.RootAccess
}

// NewQueries creates a new Queries instance.
func NewQueries(root domain.RootAccess) *Queries {
	return &Queries{root: root}
}

func (q *Queries) GetPaths(folder string) []string {
	var paths []string
	q.root.View(func(data *domain.Data) { paths = data.Favorites.GetPaths(folder) })
	return paths
}

func (q *Queries) IsFavorited(path string) bool {
	var ok bool
	q.root.View(func(data *domain.Data) { ok = data.Favorites.IsFavorited(path) })
	return ok
}

func (q *Queries) IsInDefault(path string) bool {
	var ok bool
	q.root.View(func(data *domain.Data) { ok = data.Favorites.IsInDefault(path) })
	return ok
}

func (q *Queries) FoldersContaining(path string) []string {
	var names []string
	q.root.View(func(data *domain.Data) { names = data.Favorites.FoldersContaining(path) })
	return names
}

func (q *Queries) CustomFolderNames() []string {
	var names []string
	q.root.View(func(data *domain.Data) { names = data.Favorites.CustomFolderNames() })
	return names
}

func (q *Queries) AllFolderNames() []string {
	var names []string
	q.root.View(func(data *domain.Data) { names = data.Favorites.AllFolderNames() })
	return names
}

// Exists reports whether a folder with this exact name exists.
func (q *Queries) Exists(folder string) bool {
	var ok bool
	q.root.View(func(data *domain.Data) { _, ok = data.Favorites.Folders[folder] })
	return ok
}

// Cover returns the folder's override, or else the most recently added
// path that still resolves to a chart.
func (q *Queries) Cover(folder string) (Cover, bool) {
	var (
		cover Cover
		found bool
	)
	q.root.View(func(data *domain.Data) {
		if ref, ok := data.Favorites.Cover(folder); ok {
			cover, found = Cover{Ref: ref, Custom: true}, true
			return
		}
		paths := data.Favorites.Folders[folder]
		for i := len(paths) - 1; i >= 0; i-- {
			if data.FindChart(paths[i]) >= 0 {
				cover, found = Cover{Ref: paths[i]}, true
				return
			}
		}
	})
	return cover, found
}

// FolderCharts resolves the folder's paths to charts in insertion order.
// Paths without a chart are skipped.
func (q *Queries) FolderCharts(folder string) []domain.LocalChart {
	var charts []domain.LocalChart
	q.root.View(func(data *domain.Data) {
		for _, p := range data.Favorites.Folders[folder] {
			if i := data.FindChart(p); i >= 0 {
				charts = append(charts, data.Charts[i])
			}
		}
	})
	return charts
}

// MatchFolders returns folder names that fuzzy-match query, closest first.
// An empty query returns every folder.
func (q *Queries) MatchFolders(query string) []string {
	names := q.AllFolderNames()
	if query == "" {
		return names
	}

	matches := fuzzy.RankFindNormalizedFold(query, names)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	results := make([]string, len(matches))
	for i, m := range matches {
		results[i] = m.Target
	}
	return results
}
