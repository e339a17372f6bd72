package state

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/danieljhkim/launchdeck/internal/launch"
)

const (
	// DefaultAccentColor is the accent colour of fresh installs.
	DefaultAccentColor = "#3b82f6"

	// DefaultZoomLevel is the UI zoom percentage of fresh installs.
	DefaultZoomLevel uint8 = 100

	// DefaultFontSize is the font size of fresh installs and the value an
	// out-of-range stored size is reset to.
	DefaultFontSize uint8 = 16

	MinFontSize uint8 = 10
	MaxFontSize uint8 = 28

	MinZoomLevel uint8 = 50
	MaxZoomLevel uint8 = 200
)

// AppConfig is the root of the workspace registry document.
type AppConfig struct {
	// Workspaces is the ordered list of registered workspaces
	Workspaces []WorkspaceRecord `json:"workspaces"`

	// ActiveWorkspaceID references an entry of Workspaces, or is nil
	ActiveWorkspaceID *uuid.UUID `json:"activeWorkspaceId"`

	// Settings holds user preferences
	Settings AppSettings `json:"settings"`
}

// Theme is the UI colour scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
	}
}

// UnmarshalText rejects unknown themes.
func (t *Theme) UnmarshalText(text []byte) error {
	parsed, err := ParseTheme(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// LaunchPreset is a reusable, named OpenConfig.
type LaunchPreset struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Config      launch.OpenConfig `json:"config"`
}

// AppSettings holds user preferences.
type AppSettings struct {
	Theme         Theme          `json:"theme"`
	AccentColor   string         `json:"accentColor"`
	ZoomLevel     uint8          `json:"zoomLevel"`
	FontFamily    *string        `json:"fontFamily"`
	FontSize      uint8          `json:"fontSize"`
	LaunchPresets []LaunchPreset `json:"launchPresets"`
}

// LaunchPresetInput is a preset as submitted by the user; a nil ID asks for
// a new one.
type LaunchPresetInput struct {
	ID          *uuid.UUID        `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Config      launch.OpenConfig `json:"config"`
}

// AppSettingsUpdate replaces the settings wholesale.
type AppSettingsUpdate struct {
	Theme         Theme               `json:"theme"`
	AccentColor   string              `json:"accentColor"`
	ZoomLevel     uint8               `json:"zoomLevel"`
	FontFamily    *string             `json:"fontFamily"`
	FontSize      uint8               `json:"fontSize"`
	LaunchPresets []LaunchPresetInput `json:"launchPresets"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() AppSettings {
	return AppSettings{
		Theme:         ThemeLight,
		AccentColor:   DefaultAccentColor,
		ZoomLevel:     DefaultZoomLevel,
		FontSize:      DefaultFontSize,
		LaunchPresets: []LaunchPreset{},
	}
}

// NewSettingsUpdate returns an update payload that reproduces s; useful for
// editing a few fields and submitting the rest unchanged.
func NewSettingsUpdate(s AppSettings) AppSettingsUpdate {
	presets := make([]LaunchPresetInput, 0, len(s.LaunchPresets))
	for _, p := range s.LaunchPresets {
		id := p.ID
		presets = append(presets, LaunchPresetInput{
			ID:          &id,
			Name:        p.Name,
			Description: cloneString(p.Description),
			Config:      p.Config.Clone(),
		})
	}
	return AppSettingsUpdate{
		Theme:         s.Theme,
		AccentColor:   s.AccentColor,
		ZoomLevel:     s.ZoomLevel,
		FontFamily:    cloneString(s.FontFamily),
		FontSize:      s.FontSize,
		LaunchPresets: presets,
	}
}

// Clone returns a deep copy of the settings.
func (s AppSettings) Clone() AppSettings {
	s.FontFamily = cloneString(s.FontFamily)
	presets := make([]LaunchPreset, len(s.LaunchPresets))
	for i, p := range s.LaunchPresets {
		p.Description = cloneString(p.Description)
		p.Config = p.Config.Clone()
		presets[i] = p
	}
	s.LaunchPresets = presets
	return s
}

// FindPreset returns the preset whose name matches case-insensitively.
func (s AppSettings) FindPreset(name string) (LaunchPreset, bool) {
	for _, p := range s.LaunchPresets {
		if equalFoldTrim(p.Name, name) {
			return p, true
		}
	}
	return LaunchPreset{}, false
}

// Clone returns a deep copy of the config.
func (c *AppConfig) Clone() *AppConfig {
	out := &AppConfig{
		Workspaces: make([]WorkspaceRecord, len(c.Workspaces)),
		Settings:   c.Settings.Clone(),
	}
	for i, ws := range c.Workspaces {
		out.Workspaces[i] = ws.Clone()
	}
	if c.ActiveWorkspaceID != nil {
		id := *c.ActiveWorkspaceID
		out.ActiveWorkspaceID = &id
	}
	return out
}
