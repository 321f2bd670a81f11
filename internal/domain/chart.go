package domain

import (
	"strconv"
	"strings"
	"time"
)

// PathKind identifies the storage namespace a chart lives in
type PathKind int

const (
	PathCanonical  PathKind = iota // Built-in content, stored under its catalog path
	PathImported                   // User import: custom/<filename>
	PathDownloaded                 // Remote catalog download: download/<id>
)

const (
	importedPrefix   = "custom/"
	downloadedPrefix = "download/"
)

// String returns a short name for the namespace
func (k PathKind) String() string {
	switch k {
	case PathImported:
		return "custom"
	case PathDownloaded:
		return "download"
	default:
		return "canonical"
	}
}

// ChartPath is the stable identity of a local chart.
// The legacy string form ("custom/song.zip", "download/42", or a bare
// catalog path) is produced only by String and the text marshalers.
type ChartPath struct {
	kind PathKind
	name string // Filename for imports, full path for canonical content
	id   int32  // Remote id for downloads
}

// ImportedPath returns the identity of a user-imported chart file.
func ImportedPath(filename string) ChartPath {
	return ChartPath{kind: PathImported, name: filename}
}

// DownloadedPath returns the identity of a chart fetched from the remote catalog.
func DownloadedPath(id int32) ChartPath {
	return ChartPath{kind: PathDownloaded, id: id}
}

// CanonicalPath returns the identity of built-in content.
func CanonicalPath(path string) ChartPath {
	return ChartPath{kind: PathCanonical, name: path}
}

// ParseChartPath classifies a legacy local_path string.
// A download entry whose suffix is not the canonical decimal form of an
// int32 is kept as a canonical path so the string round-trips unchanged.
func ParseChartPath(s string) ChartPath {
	if name, ok := strings.CutPrefix(s, importedPrefix); ok && name != "" {
		return ImportedPath(name)
	}
	if rest, ok := strings.CutPrefix(s, downloadedPrefix); ok {
		if id, err := strconv.ParseInt(rest, 10, 32); err == nil && strconv.FormatInt(id, 10) == rest {
			return DownloadedPath(int32(id))
		}
	}
	return CanonicalPath(s)
}

func (p ChartPath) Kind() PathKind { return p.kind }

// Filename returns the import filename (empty for other kinds).
func (p ChartPath) Filename() string {
	if p.kind != PathImported {
		return ""
	}
	return p.name
}

// RemoteID returns the remote catalog id of a downloaded chart.
func (p ChartPath) RemoteID() (int32, bool) {
	if p.kind != PathDownloaded {
		return 0, false
	}
	return p.id, true
}

func (p ChartPath) IsZero() bool { return p == ChartPath{} }

// String returns the legacy local_path form used in storage and favorites.
func (p ChartPath) String() string {
	switch p.kind {
	case PathImported:
		return importedPrefix + p.name
	case PathDownloaded:
		return downloadedPrefix + strconv.FormatInt(int64(p.id), 10)
	default:
		return p.name
	}
}

func (p ChartPath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *ChartPath) UnmarshalText(text []byte) error {
	*p = ParseChartPath(string(text))
	return nil
}

// BriefChartInfo is the descriptive metadata kept for every local chart
type BriefChartInfo struct {
	ID           *int32     `json:"id"`       // Remote catalog id (nil for imports)
	Uploader     *int32     `json:"uploader"` // Remote user id of the uploader
	Name         string     `json:"name"`
	Level        string     `json:"level"` // Difficulty label, e.g. "IN Lv.13"
	Difficulty   float32    `json:"difficulty"`
	Intro        string     `json:"intro"`
	Charter      string     `json:"charter"`
	Composer     string     `json:"composer"`
	Illustrator  string     `json:"illustrator"`
	Created      *time.Time `json:"created"`
	Updated      *time.Time `json:"updated"`
	ChartUpdated *time.Time `json:"chartUpdated"`
	HasUnlock    bool       `json:"hasUnlock"`

	// Older data files stored the intro under "description"
	LegacyDescription string `json:"description,omitempty"`
}

// normalize folds legacy fields into their current names.
func (b *BriefChartInfo) normalize() {
	if b.LegacyDescription != "" {
		if b.Intro == "" {
			b.Intro = b.LegacyDescription
		}
		b.LegacyDescription = ""
	}
}

// Mods is a bit set of gameplay modifiers
type Mods uint8

const (
	ModAutoplay Mods = 1 << iota
	ModFlipX
	ModFadeIn
	ModFadeOut
	ModNightcore
	ModDaycore
)

func (m Mods) Has(flag Mods) bool { return m&flag != 0 }

// SimpleRecord is the best-play snapshot for a chart
type SimpleRecord struct {
	Score     int32   `json:"score"`
	Accuracy  float32 `json:"accuracy"`
	FullCombo bool    `json:"full_combo"`
}

// Grade returns the grade letter for the record's score
func (r SimpleRecord) Grade() string {
	switch {
	case r.Score >= 1_000_000:
		return "φ"
	case r.FullCombo, r.Score >= 960_000:
		return "V"
	case r.Score >= 920_000:
		return "S"
	case r.Score >= 880_000:
		return "A"
	case r.Score >= 820_000:
		return "B"
	case r.Score >= 700_000:
		return "C"
	default:
		return "F"
	}
}

// Better merges two records, keeping the best of each field.
func (r SimpleRecord) Better(other SimpleRecord) SimpleRecord {
	out := r
	if other.Score > out.Score {
		out.Score = other.Score
	}
	if other.Accuracy > out.Accuracy {
		out.Accuracy = other.Accuracy
	}
	out.FullCombo = out.FullCombo || other.FullCombo
	return out
}

// LocalChart is one entry of the local library index
type LocalChart struct {
	BriefChartInfo
	Path         ChartPath     `json:"local_path"`
	Record       *SimpleRecord `json:"record"`
	Mods         Mods          `json:"mods"`
	PlayedUnlock bool          `json:"played_unlock"`
}

// NewLocalChart builds an index entry for a freshly discovered chart.
// The remote id is taken from the path for downloads and cleared otherwise.
func NewLocalChart(path ChartPath, info BriefChartInfo) LocalChart {
	info.ID = nil
	if id, ok := path.RemoteID(); ok {
		info.ID = &id
	}
	return LocalChart{BriefChartInfo: info, Path: path}
}

// Title returns a display title, falling back to the path.
func (c *LocalChart) Title() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Path.String()
}
