package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/state"
)

// Settings returns the current settings.
func (e *Engine) Settings() state.AppSettings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.Settings.Clone()
}

// UpdateSettings replaces the settings wholesale. Font size and zoom level
// are clamped into range; presets are trimmed, sanitised and validated.
func (e *Engine) UpdateSettings(ctx context.Context, upd state.AppSettingsUpdate) (state.AppSettings, error) {
	settings, err := normalizeSettings(upd)
	if err != nil {
		return state.AppSettings{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.config.Clone()
	next.Settings = settings
	if err := e.commitLocked(ctx, next); err != nil {
		return state.AppSettings{}, err
	}

	e.logger.Info("updated settings", "theme", settings.Theme, "presets", len(settings.LaunchPresets))
	return settings.Clone(), nil
}

func normalizeSettings(upd state.AppSettingsUpdate) (state.AppSettings, error) {
	theme, err := state.ParseTheme(string(upd.Theme))
	if err != nil {
		return state.AppSettings{}, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	accent := strings.TrimSpace(upd.AccentColor)
	if accent == "" {
		accent = state.DefaultAccentColor
	}

	presets := make([]state.LaunchPreset, 0, len(upd.LaunchPresets))
	seen := make(map[uuid.UUID]bool, len(upd.LaunchPresets))
	for _, in := range upd.LaunchPresets {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return state.AppSettings{}, fmt.Errorf("%w: launch preset name cannot be empty", apperr.ErrValidation)
		}

		cfg := in.Config.Sanitized()
		if err := cfg.Validate(); err != nil {
			return state.AppSettings{}, fmt.Errorf("launch preset %q: %w", name, err)
		}

		id := uuid.New()
		if in.ID != nil {
			id = *in.ID
		}
		if seen[id] {
			return state.AppSettings{}, fmt.Errorf("%w: duplicate launch preset id %s", apperr.ErrValidation, id)
		}
		seen[id] = true

		presets = append(presets, state.LaunchPreset{
			ID:          id,
			Name:        name,
			Description: state.TrimOptional(in.Description),
			Config:      cfg,
		})
	}

	return state.AppSettings{
		Theme:         theme,
		AccentColor:   accent,
		ZoomLevel:     clamp(upd.ZoomLevel, state.MinZoomLevel, state.MaxZoomLevel),
		FontFamily:    state.TrimOptional(upd.FontFamily),
		FontSize:      clamp(upd.FontSize, state.MinFontSize, state.MaxFontSize),
		LaunchPresets: presets,
	}, nil
}

func clamp(v, lo, hi uint8) uint8 {
	return max(lo, min(v, hi))
}
