package domain

import "slices"

// ScanReport describes what a reconciliation pass found on disk.
// It is computed on a snapshot and applied to the live root with ApplyScan.
type ScanReport struct {
	Pruned     []ChartPath  // Known charts whose storage entry is gone
	Added      []LocalChart // Newly discovered charts, imports before downloads
	Respacks   []string     // Resource packs not yet listed
	Skipped    int          // Entries that were not readable charts
	Migrations []string     // One-time migrations applied after the pass
}

// Changed reports whether applying the report alters the root.
func (r ScanReport) Changed() bool {
	return len(r.Pruned) > 0 || len(r.Added) > 0 || len(r.Respacks) > 0 || len(r.Migrations) > 0
}

// ApplyScan merges a report into the index. Charts added since the snapshot
// was taken are kept, and a path already present is never added twice.
// Favorites are left alone: folders may keep references to pruned paths.
func (d *Data) ApplyScan(r ScanReport) {
	if len(r.Pruned) > 0 {
		gone := make(map[string]struct{}, len(r.Pruned))
		for _, p := range r.Pruned {
			gone[p.String()] = struct{}{}
		}
		d.Charts = slices.DeleteFunc(d.Charts, func(c LocalChart) bool {
			_, ok := gone[c.Path.String()]
			return ok
		})
	}

	known := d.KnownPaths()
	for _, chart := range r.Added {
		key := chart.Path.String()
		if _, ok := known[key]; ok {
			continue
		}
		known[key] = struct{}{}
		d.Charts = append(d.Charts, chart)
	}

	for _, name := range r.Respacks {
		if !slices.Contains(d.Respacks, name) {
			d.Respacks = append(d.Respacks, name)
		}
	}
}
