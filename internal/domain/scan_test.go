package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyScan(t *testing.T) {
	data := DefaultData()
	data.Charts = append(data.Charts,
		NewLocalChart(ImportedPath("gone.zip"), BriefChartInfo{Name: "Gone"}),
		NewLocalChart(DownloadedPath(1), BriefChartInfo{Name: "Kept"}),
	)
	data.Respacks = []string{"default"}
	data.Favorites.EnsureDefault()
	data.Favorites.AddTo(DefaultFolder, "custom/gone.zip")

	report := ScanReport{
		Pruned: []ChartPath{ImportedPath("gone.zip")},
		Added: []LocalChart{
			NewLocalChart(ImportedPath("new.zip"), BriefChartInfo{Name: "New"}),
			NewLocalChart(DownloadedPath(1), BriefChartInfo{Name: "Duplicate"}),
		},
		Respacks: []string{"default", "neon"},
	}
	assert.True(t, report.Changed())

	data.ApplyScan(report)

	var paths []string
	for _, c := range data.Charts {
		paths = append(paths, c.Path.String())
	}
	assert.Equal(t, []string{"download/1", "custom/new.zip"}, paths)
	assert.Equal(t, "Kept", data.Charts[0].Name)
	assert.Equal(t, []string{"default", "neon"}, data.Respacks)
	assert.True(t, data.Favorites.IsInDefault("custom/gone.zip"), "pruning does not cascade into favorites")

	data.ApplyScan(report)
	assert.Len(t, data.Charts, 2)
}

func TestEmptyReportIsUnchanged(t *testing.T) {
	assert.False(t, ScanReport{Skipped: 3}.Changed())
}
