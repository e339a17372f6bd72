package state

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/danieljhkim/launchdeck/internal/launch"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Theme != ThemeLight {
		t.Errorf("expected Theme=light, got %q", s.Theme)
	}
	if s.AccentColor != "#3b82f6" {
		t.Errorf("expected AccentColor=#3b82f6, got %q", s.AccentColor)
	}
	if s.ZoomLevel != 100 {
		t.Errorf("expected ZoomLevel=100, got %d", s.ZoomLevel)
	}
	if s.FontSize != 16 {
		t.Errorf("expected FontSize=16, got %d", s.FontSize)
	}
	if s.FontFamily != nil {
		t.Errorf("expected nil FontFamily, got %q", *s.FontFamily)
	}
	if s.LaunchPresets == nil || len(s.LaunchPresets) != 0 {
		t.Errorf("expected empty non-nil LaunchPresets, got %v", s.LaunchPresets)
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		input   string
		want    Theme
		wantErr bool
	}{
		{"light", ThemeLight, false},
		{"dark", ThemeDark, false},
		{"system", ThemeSystem, false},
		{"Dark", "", true},
		{"", "", true},
		{"solarized", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTheme(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTheme(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTheme(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAppConfig_JSONFieldNames(t *testing.T) {
	id := uuid.New()
	desc := "notes"
	cfg := &AppConfig{
		Workspaces: []WorkspaceRecord{{
			ID:           id,
			Name:         "Work",
			Description:  &desc,
			DatabasePath: "/tmp/work/projects.sqlite",
		}},
		ActiveWorkspaceID: &id,
		Settings:          DefaultSettings(),
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	out := string(data)

	for _, key := range []string{
		`"activeWorkspaceId":"` + id.String() + `"`,
		`"databasePath":"/tmp/work/projects.sqlite"`,
		`"createdAt"`,
		`"updatedAt"`,
		`"accentColor":"#3b82f6"`,
		`"zoomLevel":100`,
		`"fontSize":16`,
		`"fontFamily":null`,
		`"launchPresets":[]`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("expected %s in %s", key, out)
		}
	}
}

func TestAppConfig_Clone(t *testing.T) {
	id := uuid.New()
	desc := "original"
	family := "Inter"
	cfg := &AppConfig{
		Workspaces:        []WorkspaceRecord{{ID: id, Name: "A", Description: &desc}},
		ActiveWorkspaceID: &id,
		Settings:          DefaultSettings(),
	}
	cfg.Settings.FontFamily = &family
	cfg.Settings.LaunchPresets = []LaunchPreset{{
		ID:     uuid.New(),
		Name:   "Editor",
		Config: launch.CustomCommand("code", "--new-window"),
	}}

	clone := cfg.Clone()

	// Mutating the clone must not leak into the original
	*clone.Workspaces[0].Description = "changed"
	clone.Workspaces[0].Name = "B"
	*clone.ActiveWorkspaceID = uuid.New()
	*clone.Settings.FontFamily = "Mono"
	clone.Settings.LaunchPresets[0].Config.Args[0] = "--reuse-window"

	if *cfg.Workspaces[0].Description != "original" {
		t.Errorf("description leaked: %q", *cfg.Workspaces[0].Description)
	}
	if cfg.Workspaces[0].Name != "A" {
		t.Errorf("name leaked: %q", cfg.Workspaces[0].Name)
	}
	if *cfg.ActiveWorkspaceID != id {
		t.Errorf("active id leaked")
	}
	if *cfg.Settings.FontFamily != "Inter" {
		t.Errorf("font family leaked: %q", *cfg.Settings.FontFamily)
	}
	if cfg.Settings.LaunchPresets[0].Config.Args[0] != "--new-window" {
		t.Errorf("preset args leaked: %v", cfg.Settings.LaunchPresets[0].Config.Args)
	}
}

func TestAppConfig_NameTaken(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	cfg := &AppConfig{Workspaces: []WorkspaceRecord{
		{ID: a, Name: "Personal"},
		{ID: b, Name: "Work"},
	}}

	if !cfg.NameTaken("work", uuid.Nil) {
		t.Error("expected case-insensitive match on 'work'")
	}
	if cfg.NameTaken("work", b) {
		t.Error("a workspace must not collide with itself")
	}
	if cfg.NameTaken("Side Projects", uuid.Nil) {
		t.Error("unexpected collision")
	}
}

func TestSettings_FindPreset(t *testing.T) {
	s := DefaultSettings()
	s.LaunchPresets = []LaunchPreset{
		{ID: uuid.New(), Name: "VS Code", Config: launch.CustomCommand("code")},
	}

	if _, ok := s.FindPreset("  vs code "); !ok {
		t.Error("expected to find preset case-insensitively")
	}
	if _, ok := s.FindPreset("vim"); ok {
		t.Error("did not expect to find 'vim'")
	}
}

func TestNewSettingsUpdate_RoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.Theme = ThemeDark
	s.LaunchPresets = []LaunchPreset{
		{ID: uuid.New(), Name: "Term", Config: launch.CustomCommand("wezterm", "start")},
	}

	u := NewSettingsUpdate(s)

	if u.Theme != ThemeDark || u.FontSize != s.FontSize || u.ZoomLevel != s.ZoomLevel {
		t.Errorf("scalar fields not carried over: %+v", u)
	}
	if len(u.LaunchPresets) != 1 {
		t.Fatalf("expected 1 preset, got %d", len(u.LaunchPresets))
	}
	if u.LaunchPresets[0].ID == nil || *u.LaunchPresets[0].ID != s.LaunchPresets[0].ID {
		t.Error("expected preset id to be preserved")
	}
}
