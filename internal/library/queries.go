package library

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/chartbox/internal/domain"
)

// SearchResult is a chart matched by Search
type SearchResult struct {
	Chart          domain.LocalChart
	MatchedIndexes []int // Rune positions in the title that matched
	Score          int   // Higher is better
}

// titleIndex implements fuzzy.Source over chart titles
type titleIndex struct {
	charts      []domain.LocalChart
	lowerTitles []string
}

func (idx *titleIndex) String(i int) string { return idx.lowerTitles[i] }
func (idx *titleIndex) Len() int            { return len(idx.charts) }

// Queries provides synchronous reads of the chart index.
// Paths that no longer resolve to a chart are reported as misses.
type Queries struct {
	root domain.RootAccess
}

// NewQueries creates a new Queries instance.
func NewQueries(root domain.RootAccess) *Queries {
	return &Queries{root: root}
}

// FindByPath returns a copy of the chart stored under path.
func (q *Queries) FindByPath(path string) (domain.LocalChart, bool) {
	var (
		chart domain.LocalChart
		found bool
	)
	q.root.View(func(data *domain.Data) {
		if i := data.FindChart(path); i >= 0 {
			chart, found = data.Charts[i], true
		}
	})
	return chart, found
}

// Charts returns a copy of the index in stored order.
func (q *Queries) Charts() []domain.LocalChart {
	var charts []domain.LocalChart
	q.root.View(func(data *domain.Data) {
		charts = make([]domain.LocalChart, len(data.Charts))
		copy(charts, data.Charts)
	})
	return charts
}

// Resolve maps paths to charts in order, skipping paths with no chart.
func (q *Queries) Resolve(paths []string) []domain.LocalChart {
	var charts []domain.LocalChart
	q.root.View(func(data *domain.Data) {
		for _, p := range paths {
			if i := data.FindChart(p); i >= 0 {
				charts = append(charts, data.Charts[i])
			}
		}
	})
	return charts
}

// Record returns the best play record for path, falling back to records
// kept for charts that are not in the index.
func (q *Queries) Record(path string) (domain.SimpleRecord, bool) {
	var (
		rec   domain.SimpleRecord
		found bool
	)
	q.root.View(func(data *domain.Data) {
		if i := data.FindChart(path); i >= 0 && data.Charts[i].Record != nil {
			rec, found = *data.Charts[i].Record, true
			return
		}
		if r := data.LocalRecords[path]; r != nil {
			rec, found = *r, true
		}
	})
	return rec, found
}

// Search fuzzy-matches query against chart titles, best match first.
func (q *Queries) Search(query string) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	idx := &titleIndex{charts: q.Charts()}
	idx.lowerTitles = make([]string, len(idx.charts))
	for i := range idx.charts {
		idx.lowerTitles[i] = strings.ToLower(idx.charts[i].Title())
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), idx)
	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Chart:          idx.charts[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
