package state

import "strings"

// EnsureActiveID makes ActiveWorkspaceID reference an existing workspace
// whenever there is at least one. A missing or dangling id is replaced with
// the first workspace's id; with no workspaces the id is cleared.
// Reports whether anything changed.
func EnsureActiveID(c *AppConfig) bool {
	if c.ActiveWorkspaceID != nil {
		if _, ok := c.FindWorkspace(*c.ActiveWorkspaceID); ok {
			return false
		}
	}
	if len(c.Workspaces) == 0 {
		if c.ActiveWorkspaceID == nil {
			return false
		}
		c.ActiveWorkspaceID = nil
		return true
	}
	id := c.Workspaces[0].ID
	c.ActiveWorkspaceID = &id
	return true
}

// EnsureSettings restores the settings invariants: font size and zoom level
// in range, font family and preset strings trimmed, no nameless presets.
// wasMissing marks documents written before settings existed; they always
// count as changed. Reports whether anything changed.
func EnsureSettings(s *AppSettings, wasMissing bool) bool {
	changed := wasMissing

	if s.Theme == "" {
		s.Theme = ThemeLight
		changed = true
	}

	if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
		s.FontSize = DefaultFontSize
		changed = true
	}

	if s.ZoomLevel < MinZoomLevel || s.ZoomLevel > MaxZoomLevel {
		s.ZoomLevel = DefaultZoomLevel
		changed = true
	}

	if trimOptionalInPlace(&s.FontFamily) {
		changed = true
	}

	if s.LaunchPresets == nil {
		s.LaunchPresets = []LaunchPreset{}
	}
	kept := s.LaunchPresets[:0]
	for _, preset := range s.LaunchPresets {
		name := strings.TrimSpace(preset.Name)
		if name == "" {
			changed = true
			continue
		}
		if name != preset.Name {
			preset.Name = name
			changed = true
		}
		if trimOptionalInPlace(&preset.Description) {
			changed = true
		}
		kept = append(kept, preset)
	}
	s.LaunchPresets = kept

	return changed
}

// trimOptionalInPlace applies TrimOptional to *p and reports whether the
// value changed.
func trimOptionalInPlace(p **string) bool {
	if *p == nil {
		return false
	}
	trimmed := TrimOptional(*p)
	if trimmed == nil {
		*p = nil
		return true
	}
	if *trimmed != **p {
		*p = trimmed
		return true
	}
	return false
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
