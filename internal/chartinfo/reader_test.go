package chartinfo

import (
	"archive/zip"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/chartbox/internal/domain"
)

const sampleInfo = `name: Spasmodic
level: IN Lv.15
difficulty: 15.4
charter: someone
composer: a composer
illustrator: an illustrator
intro: hello
music: song.mp3
unlockVideo: unlock.mp4
created: "2023-05-01T10:00:00Z"
`

func writeZip(t *testing.T, path string, files map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

// id3v23 builds a minimal ID3v2.3 tag with title and artist frames.
func id3v23(title, artist string) []byte {
	frame := func(id, text string) []byte {
		body := append([]byte{0}, text...)
		out := []byte(id)
		size := make([]byte, 4)
		binary.BigEndian.PutUint32(size, uint32(len(body)))
		out = append(out, size...)
		out = append(out, 0, 0)
		return append(out, body...)
	}
	frames := append(frame("TIT2", title), frame("TPE1", artist)...)

	header := []byte{'I', 'D', '3', 3, 0, 0}
	n := len(frames)
	header = append(header, byte(n>>21&0x7f), byte(n>>14&0x7f), byte(n>>7&0x7f), byte(n&0x7f))
	return append(header, frames...)
}

func TestReadInfoFromZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.zip")
	writeZip(t, path, map[string][]byte{"info.yml": []byte(sampleInfo)})

	info, err := NewReader(nil).ReadInfo(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Spasmodic", info.Name)
	assert.Equal(t, "IN Lv.15", info.Level)
	assert.InDelta(t, 15.4, info.Difficulty, 0.001)
	assert.Equal(t, "hello", info.Intro)
	assert.True(t, info.HasUnlock)
	require.NotNil(t, info.Created)
	assert.Equal(t, 2023, info.Created.Year())
	assert.Nil(t, info.Updated)
}

func TestReadInfoFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.yaml"), []byte("name: Dir Chart\nlevel: HD\n"), 0o644))

	info, err := NewReader(nil).ReadInfo(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "Dir Chart", info.Name)
	assert.False(t, info.HasUnlock)
}

func TestReadInfoFailures(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "bad.zip")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), 0o644))

	noInfo := filepath.Join(dir, "empty.zip")
	writeZip(t, noInfo, map[string][]byte{"chart.json": []byte("{}")})

	badYAML := filepath.Join(dir, "yaml.zip")
	writeZip(t, badYAML, map[string][]byte{"info.yml": []byte("name: [unterminated")})

	noName := filepath.Join(dir, "noname.zip")
	writeZip(t, noName, map[string][]byte{"info.yml": []byte("level: EZ\n")})

	tests := map[string]string{
		"corrupt archive": corrupt,
		"missing info":    noInfo,
		"invalid yaml":    badYAML,
		"missing name":    noName,
		"missing path":    filepath.Join(dir, "ghost.zip"),
	}

	reader := NewReader(nil)
	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := reader.ReadInfo(context.Background(), path)
			assert.ErrorIs(t, err, domain.ErrInvalidChart)
		})
	}
}

func TestReadInfoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(nil).ReadInfo(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadInfoFillsFromMusicTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.zip")
	writeZip(t, path, map[string][]byte{
		"info.yml": []byte("level: AT\nmusic: song.mp3\n"),
		"song.mp3": id3v23("Tagged Title", "Tagged Artist"),
	})

	info, err := NewReader(nil).ReadInfo(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Tagged Title", info.Name)
	assert.Equal(t, "Tagged Artist", info.Composer)
}

func TestBriefIgnoresBadTimestamps(t *testing.T) {
	bad := "yesterday"
	brief := Info{Name: "x", Updated: &bad}.Brief()
	assert.Nil(t, brief.Updated)
}
