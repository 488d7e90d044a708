package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Freesound contains credentials and fetch limits for the track source.
type Freesound struct {
	APIKey        string `toml:"api_key"`
	TracksPerMood int    `toml:"tracks_per_mood"`
	CacheTTLHours int    `toml:"cache_ttl_hours"`
}

// Playback contains reading-session behavior toggles.
type Playback struct {
	AutoPlay             bool `toml:"auto_play"`
	PageBasedMusicSwitch bool `toml:"page_based_music_switch"`
	InstrumentalOnly     bool `toml:"instrumental_only"`
	MaxShiftsPerChapter  int  `toml:"max_shifts_per_chapter"`
}

// Settings encapsulates all configuration for the reader.
type Settings struct {
	Freesound Freesound `toml:"freesound"`
	Playback  Playback  `toml:"playback"`
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	return Settings{
		Freesound: Freesound{
			TracksPerMood: 15,
			CacheTTLHours: 24,
		},
		Playback: Playback{
			AutoPlay:             false,
			PageBasedMusicSwitch: true,
			InstrumentalOnly:     true,
			MaxShiftsPerChapter:  5,
		},
	}
}

// Load reads settings from path, falling back to defaults when the file
// is missing. BWM_* environment variables override both.
func Load(path string) (Settings, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// defaults
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the settings to path in TOML form.
func Save(path string, cfg Settings) error {
	raw, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func (c *Settings) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("BWM_FREESOUND_API_KEY")); v != "" {
		c.Freesound.APIKey = v
	}
	c.Freesound.TracksPerMood = getenvInt("BWM_TRACKS_PER_MOOD", c.Freesound.TracksPerMood)
	c.Freesound.CacheTTLHours = getenvInt("BWM_CACHE_TTL_HOURS", c.Freesound.CacheTTLHours)
	c.Playback.AutoPlay = getenvBool("BWM_AUTO_PLAY", c.Playback.AutoPlay)
	c.Playback.PageBasedMusicSwitch = getenvBool("BWM_PAGE_MUSIC_SWITCH", c.Playback.PageBasedMusicSwitch)
	c.Playback.InstrumentalOnly = getenvBool("BWM_INSTRUMENTAL_ONLY", c.Playback.InstrumentalOnly)
	c.Playback.MaxShiftsPerChapter = getenvInt("BWM_MAX_SHIFTS", c.Playback.MaxShiftsPerChapter)
}

func (c *Settings) validate() error {
	if c.Freesound.TracksPerMood <= 0 {
		return fmt.Errorf("tracks_per_mood must be positive, got %d", c.Freesound.TracksPerMood)
	}
	if c.Freesound.CacheTTLHours < 0 {
		return fmt.Errorf("cache_ttl_hours must not be negative, got %d", c.Freesound.CacheTTLHours)
	}
	if c.Playback.MaxShiftsPerChapter < 0 {
		return fmt.Errorf("max_shifts_per_chapter must not be negative, got %d", c.Playback.MaxShiftsPerChapter)
	}
	return nil
}

func getenvInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getenvBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	return raw == "1" || raw == "true" || raw == "yes" || raw == "on"
}
