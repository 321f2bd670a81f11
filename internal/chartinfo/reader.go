// Package chartinfo reads the metadata header of a chart stored as a zip
// archive or an unpacked directory.
package chartinfo

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"gopkg.in/yaml.v3"

	"github.com/mmcdole/chartbox/internal/domain"
)

// InfoFiles are the metadata file names looked up at the chart root, in order.
var InfoFiles = []string{"info.yml", "info.yaml"}

// maxMusicBytes bounds how much of a music file is buffered for tag reading.
const maxMusicBytes = 32 << 20

// Info mirrors the chart's info.yml
type Info struct {
	ID           *int32  `yaml:"id"`
	Uploader     *int32  `yaml:"uploader"`
	Name         string  `yaml:"name"`
	Level        string  `yaml:"level"`
	Difficulty   float32 `yaml:"difficulty"`
	Charter      string  `yaml:"charter"`
	Composer     string  `yaml:"composer"`
	Illustrator  string  `yaml:"illustrator"`
	Intro        string  `yaml:"intro"`
	Chart        string  `yaml:"chart"`
	Music        string  `yaml:"music"`
	Illustration string  `yaml:"illustration"`
	UnlockVideo  *string `yaml:"unlockVideo"`
	Created      *string `yaml:"created"`
	Updated      *string `yaml:"updated"`
	ChartUpdated *string `yaml:"chartUpdated"`
}

// Brief converts the parsed header into index metadata.
func (i Info) Brief() domain.BriefChartInfo {
	return domain.BriefChartInfo{
		ID:           i.ID,
		Uploader:     i.Uploader,
		Name:         i.Name,
		Level:        i.Level,
		Difficulty:   i.Difficulty,
		Intro:        i.Intro,
		Charter:      i.Charter,
		Composer:     i.Composer,
		Illustrator:  i.Illustrator,
		Created:      parseTime(i.Created),
		Updated:      parseTime(i.Updated),
		ChartUpdated: parseTime(i.ChartUpdated),
		HasUnlock:    i.UnlockVideo != nil && *i.UnlockVideo != "",
	}
}

func parseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}

// Reader implements domain.InfoReader.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a new chart metadata reader.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// ReadInfo parses the metadata of the chart at path. Any failure wraps
// domain.ErrInvalidChart.
func (r *Reader) ReadInfo(ctx context.Context, path string) (domain.BriefChartInfo, error) {
	if err := ctx.Err(); err != nil {
		return domain.BriefChartInfo{}, err
	}

	fsys, closeFn, err := open(path)
	if err != nil {
		return domain.BriefChartInfo{}, fmt.Errorf("%w: %v", domain.ErrInvalidChart, err)
	}
	defer closeFn()

	info, err := ReadInfoFS(fsys)
	if err != nil {
		return domain.BriefChartInfo{}, fmt.Errorf("%w: %v", domain.ErrInvalidChart, err)
	}

	if info.Music != "" && (info.Composer == "" || info.Name == "") {
		r.fillFromMusicTags(fsys, &info)
	}
	if strings.TrimSpace(info.Name) == "" {
		return domain.BriefChartInfo{}, fmt.Errorf("%w: missing name", domain.ErrInvalidChart)
	}

	return info.Brief(), nil
}

// ReadInfoFS decodes the first metadata file found at the root of fsys.
func ReadInfoFS(fsys fs.FS) (Info, error) {
	for _, name := range InfoFiles {
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Info{}, fmt.Errorf("read %s: %w", name, err)
		}
		var info Info
		if err := yaml.Unmarshal(data, &info); err != nil {
			return Info{}, fmt.Errorf("parse %s: %w", name, err)
		}
		return info, nil
	}
	return Info{}, errors.New("no info.yml")
}

// fillFromMusicTags uses the audio tags of the chart's music file for blank
// name/composer fields. Failures leave the info unchanged.
func (r *Reader) fillFromMusicTags(fsys fs.FS, info *Info) {
	f, err := fsys.Open(info.Music)
	if err != nil {
		r.logger.Debug("music file unavailable", "music", info.Music, "error", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxMusicBytes))
	if err != nil {
		r.logger.Debug("failed to read music file", "music", info.Music, "error", err)
		return
	}

	meta, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		r.logger.Debug("no audio tags", "music", info.Music, "error", err)
		return
	}

	if info.Name == "" {
		info.Name = meta.Title()
	}
	if info.Composer == "" {
		info.Composer = meta.Artist()
		if albumArtist := meta.AlbumArtist(); info.Composer == "" && albumArtist != "" {
			info.Composer = albumArtist
		}
	}
}

// open returns a file system view of a chart archive or directory.
func open(path string) (fs.FS, func() error, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if st.IsDir() {
		return os.DirFS(path), func() error { return nil }, nil
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, err
	}
	return zr, zr.Close, nil
}
