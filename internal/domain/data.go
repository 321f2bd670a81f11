package domain

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	// DefaultAnysGateway is the gateway used when the data file does not name one
	DefaultAnysGateway = "https://anys.mivik.moe"

	// LegacyTermsModified is the terms version recorded for users who accepted
	// the terms before versioned acceptance existed.
	LegacyTermsModified = "Mon, 05 Aug 2024 17:32:41 GMT"

	// DefaultResPackName replaces absolute resource pack paths left by old data files
	DefaultResPackName = "chart.zip"
)

// Migration names reported by Data.Migrate
const (
	MigrationResPackPath = "res_pack_path"
	MigrationTerms       = "terms_modified"
)

// User is the signed-in account snapshot kept between sessions
type User struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Language string `json:"language,omitempty"`
}

// GameConfig holds the player-facing game settings stored with the root object
type GameConfig struct {
	ResPackPath *string `json:"resPackPath"`
	Offset      float32 `json:"offset"`
	Speed       float32 `json:"speed"`
	NoteScale   float32 `json:"noteScale"`
	MusicVolume float32 `json:"volumeMusic"`
	SfxVolume   float32 `json:"volumeSfx"`
	Aggressive  bool    `json:"aggressive"`
	Autoplay    bool    `json:"autoplay"`
	Mods        Mods    `json:"mods"`
	ChartDebug  bool    `json:"chartDebug"`
}

// DefaultGameConfig returns the settings of a fresh install
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Speed:       1,
		NoteScale:   1,
		MusicVolume: 1,
		SfxVolume:   1,
	}
}

// Init resets values that would make the game unplayable.
func (c *GameConfig) Init() {
	if c.Speed <= 0 {
		c.Speed = 1
	}
	if c.NoteScale <= 0 {
		c.NoteScale = 1
	}
	if c.MusicVolume < 0 {
		c.MusicVolume = 1
	}
	if c.SfxVolume < 0 {
		c.SfxVolume = 1
	}
}

// Data is the root object persisted between runs.
// Decoding over DefaultData keeps defaults for missing fields; unknown
// fields are ignored.
type Data struct {
	Me                *User                    `json:"me"`
	Charts            []LocalChart             `json:"charts"`
	LocalRecords      map[string]*SimpleRecord `json:"local_records"`
	Config            GameConfig               `json:"config"`
	MessageCheckTime  *time.Time               `json:"message_check_time"`
	Language          *string                  `json:"language"`
	Theme             int                      `json:"theme"`
	Tokens            *[2]string               `json:"tokens"`
	Respacks          []string                 `json:"respacks"`
	RespackID         int                      `json:"respack_id"`
	AcceptInvalidCert bool                     `json:"accept_invalid_cert"`
	ReadTosAndPolicy  bool                     `json:"read_tos_and_policy"` // Legacy; see Migrate
	TermsModified     *string                  `json:"terms_modified"`
	IgnoredVersion    *string                  `json:"ignored_version"`
	Character         json.RawMessage          `json:"character,omitempty"`
	EnableAnys        bool                     `json:"enable_anys"`
	AnysGateway       string                   `json:"anys_gateway"`
	Favorites         Favorites                `json:"favorites"`
}

// DefaultData returns the root object of a first run
func DefaultData() *Data {
	return &Data{
		Charts:       []LocalChart{},
		LocalRecords: make(map[string]*SimpleRecord),
		Config:       DefaultGameConfig(),
		Respacks:     []string{},
		AnysGateway:  DefaultAnysGateway,
		Favorites: Favorites{
			Folders: make(map[string][]string),
			Covers:  make(map[string]string),
		},
	}
}

// Normalize repairs structural defaults after decoding: nil maps and
// slices, an empty gateway and legacy chart fields.
func (d *Data) Normalize() {
	if d.Charts == nil {
		d.Charts = []LocalChart{}
	}
	if d.LocalRecords == nil {
		d.LocalRecords = make(map[string]*SimpleRecord)
	}
	if d.Respacks == nil {
		d.Respacks = []string{}
	}
	if d.AnysGateway == "" {
		d.AnysGateway = DefaultAnysGateway
	}
	if d.Favorites.Folders == nil {
		d.Favorites.Folders = make(map[string][]string)
	}
	if d.Favorites.Covers == nil {
		d.Favorites.Covers = make(map[string]string)
	}
	for i := range d.Charts {
		d.Charts[i].normalize()
	}
}

// Migrate applies one-time upgrades of older data files and returns the
// names of the migrations that changed something. Running it again is a no-op.
func (d *Data) Migrate() []string {
	var applied []string
	if p := d.Config.ResPackPath; p != nil && strings.HasPrefix(*p, "/") {
		name := DefaultResPackName
		d.Config.ResPackPath = &name
		applied = append(applied, MigrationResPackPath)
	}
	if d.ReadTosAndPolicy {
		terms := LegacyTermsModified
		d.TermsModified = &terms
		d.ReadTosAndPolicy = false
		applied = append(applied, MigrationTerms)
	}
	d.Config.Init()
	return applied
}

// FindChart returns the index of the chart with the given path, or -1.
func (d *Data) FindChart(path string) int {
	for i := range d.Charts {
		if d.Charts[i].Path.String() == path {
			return i
		}
	}
	return -1
}

// KnownPaths returns the set of local paths currently in the index.
func (d *Data) KnownPaths() map[string]struct{} {
	known := make(map[string]struct{}, len(d.Charts))
	for i := range d.Charts {
		known[d.Charts[i].Path.String()] = struct{}{}
	}
	return known
}
