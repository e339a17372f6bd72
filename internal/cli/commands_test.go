package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/config"
	"github.com/danieljhkim/launchdeck/internal/engine"
	"github.com/danieljhkim/launchdeck/internal/launch"
	"github.com/danieljhkim/launchdeck/internal/projects"
	"github.com/danieljhkim/launchdeck/internal/state"
)

// setupCLI points the data root at a temp dir and restores the global CLI
// state after the test.
func setupCLI(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv(config.RootEnv, root)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		jsonOutput = false
		workspaceFlag = ""
		logLevel = ""
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})
	return root
}

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	out := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		out <- buf.String()
	}()

	runErr := fn()
	_ = w.Close()
	os.Stdout = old
	captured := <-out
	_ = r.Close()
	return captured, runErr
}

// runCLI executes one command line and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return captureStdout(t, func() error {
		resetFlags(rootCmd)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(io.Discard)
		rootCmd.SetArgs(args)
		return rootCmd.Execute()
	})
}

// runJSON executes a command with --json and decodes its output into v.
func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := runCLI(t, append(args, "--json")...)
	require.NoError(t, err, "launchdeck %s", strings.Join(args, " "))
	require.NoError(t, json.Unmarshal([]byte(out), v), "output: %s", out)
}

func projectDir(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	return dir
}

func TestWorkspaceCommands(t *testing.T) {
	setupCLI(t)

	// Setup
	var created state.WorkspaceRecord
	runJSON(t, &created, "workspace", "create", "alpha", "-d", "first")
	assert.Equal(t, "alpha", created.Name)
	require.NotNil(t, created.Description)
	assert.Equal(t, "first", *created.Description)

	// Execute & Verify: the bootstrap workspace stays active
	var list []state.WorkspaceRecord
	runJSON(t, &list, "workspace", "ls")
	require.Len(t, list, 2)
	assert.Equal(t, state.BootstrapWorkspaceName, list[0].Name)
	assert.Equal(t, "alpha", list[1].Name)

	var current state.WorkspaceRecord
	runJSON(t, &current, "workspace", "current")
	assert.Equal(t, state.BootstrapWorkspaceName, current.Name)

	runJSON(t, &current, "workspace", "use", "ALPHA")
	assert.Equal(t, created.ID, current.ID)
	runJSON(t, &current, "workspace", "current")
	assert.Equal(t, created.ID, current.ID)

	var edited state.WorkspaceRecord
	runJSON(t, &edited, "workspace", "edit", "alpha", "--name", "beta", "-d", "")
	assert.Equal(t, "beta", edited.Name)
	assert.Nil(t, edited.Description)

	_, err := runCLI(t, "workspace", "use", "alpha")
	assert.ErrorIs(t, err, apperr.ErrWorkspaceNotFound)

	_, err = runCLI(t, "workspace", "create", "BETA")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = runCLI(t, "workspace", "edit", "beta")
	assert.Error(t, err)
}

func TestWorkspaceCreate_Use(t *testing.T) {
	setupCLI(t)

	var created state.WorkspaceRecord
	runJSON(t, &created, "workspace", "create", "gamma", "--use")

	var current state.WorkspaceRecord
	runJSON(t, &current, "workspace", "current")
	assert.Equal(t, created.ID, current.ID)
}

func TestProjectCommands(t *testing.T) {
	setupCLI(t)
	dir := projectDir(t, "api")

	// Add
	var added projects.Project
	runJSON(t, &added, "project", "add", "api", dir, "-d", "backend")
	assert.Equal(t, "api", added.Name)
	assert.Equal(t, dir, added.Path)
	assert.Equal(t, launch.ModeSystemDefault, added.OpenConfig.EffectiveMode())
	require.NotNil(t, added.Description)
	assert.Equal(t, "backend", *added.Description)

	var list []projects.Project
	runJSON(t, &list, "project", "ls")
	require.Len(t, list, 1)
	assert.Equal(t, added.ID, list[0].ID)

	// Edit keeps unspecified fields
	var edited projects.Project
	runJSON(t, &edited, "project", "edit", "api", "--name", "svc", "--cmd", "make", "--arg", "run", "--arg", "dev")
	assert.Equal(t, added.ID, edited.ID)
	assert.Equal(t, "svc", edited.Name)
	assert.Equal(t, dir, edited.Path)
	require.NotNil(t, edited.Description)
	assert.Equal(t, "backend", *edited.Description)
	assert.Equal(t, launch.CustomCommand("make", "run", "dev"), edited.OpenConfig)

	var shown projects.Project
	runJSON(t, &shown, "project", "show", added.ID.String())
	assert.Equal(t, "svc", shown.Name)

	// Remove
	var removed map[string]string
	runJSON(t, &removed, "project", "rm", "SVC")
	assert.Equal(t, added.ID.String(), removed["deleted"])

	runJSON(t, &list, "project", "ls")
	assert.Empty(t, list)

	_, err := runCLI(t, "project", "show", "svc")
	assert.ErrorIs(t, err, apperr.ErrProjectNotFound)
}

func TestProjectAdd_Validation(t *testing.T) {
	setupCLI(t)
	dir := projectDir(t, "web")

	tests := []struct {
		name string
		args []string
	}{
		{"missing path", []string{"project", "add", "web", filepath.Join(dir, "missing")}},
		{"blank name", []string{"project", "add", "  ", dir}},
		{"missing executable", []string{"project", "add", "web", dir, "--exec", filepath.Join(dir, "no-such-editor")}},
		{"blank command", []string{"project", "add", "web", dir, "--mode", "custom_command"}},
		{"exec and cmd", []string{"project", "add", "web", dir, "--exec", "/bin/sh", "--cmd", "make"}},
		{"system default with args", []string{"project", "add", "web", dir, "--arg", "x"}},
		{"unknown mode", []string{"project", "add", "web", dir, "--mode", "telepathy"}},
		{"unknown preset", []string{"project", "add", "web", dir, "--preset", "Editor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	var list []projects.Project
	runJSON(t, &list, "project", "ls")
	assert.Empty(t, list)
}

func TestProjectCommands_WorkspaceFlag(t *testing.T) {
	setupCLI(t)
	dir := projectDir(t, "api")

	var ws state.WorkspaceRecord
	runJSON(t, &ws, "workspace", "create", "side")

	var added projects.Project
	runJSON(t, &added, "project", "add", "api", dir, "-w", "side")

	var list []projects.Project
	runJSON(t, &list, "project", "ls")
	assert.Empty(t, list, "active workspace is untouched")

	runJSON(t, &list, "project", "ls", "--workspace", ws.ID.String())
	require.Len(t, list, 1)
	assert.Equal(t, added.ID, list[0].ID)

	_, err := runCLI(t, "project", "ls", "-w", "nowhere")
	assert.ErrorIs(t, err, apperr.ErrWorkspaceNotFound)
}

func TestSettingsCommands(t *testing.T) {
	setupCLI(t)

	var s state.AppSettings
	runJSON(t, &s, "settings", "get")
	assert.Equal(t, state.DefaultSettings(), s)

	// Out-of-range values are clamped
	runJSON(t, &s, "settings", "set", "--theme", "dark", "--font-size", "5", "--zoom", "250", "--font-family", " Iosevka ")
	assert.Equal(t, state.ThemeDark, s.Theme)
	assert.Equal(t, state.MinFontSize, s.FontSize)
	assert.Equal(t, state.MaxZoomLevel, s.ZoomLevel)
	require.NotNil(t, s.FontFamily)
	assert.Equal(t, "Iosevka", *s.FontFamily)

	// Unspecified settings keep their values
	runJSON(t, &s, "settings", "set", "--font-size", "40")
	assert.Equal(t, state.ThemeDark, s.Theme)
	assert.Equal(t, state.MaxFontSize, s.FontSize)
	assert.Equal(t, state.MaxZoomLevel, s.ZoomLevel)

	runJSON(t, &s, "settings", "set", "--font-family", "")
	assert.Nil(t, s.FontFamily)

	_, err := runCLI(t, "settings", "set", "--theme", "neon")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSettingsPresets(t *testing.T) {
	setupCLI(t)
	dir := projectDir(t, "notes")

	var s state.AppSettings
	runJSON(t, &s, "settings", "preset", "add", "Terminal", "--cmd", "wezterm", "--arg", "start", "-d", "shell here")
	require.Len(t, s.LaunchPresets, 1)
	assert.Equal(t, launch.CustomCommand("wezterm", "start"), s.LaunchPresets[0].Config)

	_, err := runCLI(t, "settings", "preset", "add", "terminal", "--cmd", "kitty")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// A preset supplies the project's OpenConfig
	var p projects.Project
	runJSON(t, &p, "project", "add", "notes", dir, "--preset", "TERMINAL")
	assert.Equal(t, launch.CustomCommand("wezterm", "start"), p.OpenConfig)

	_, err = runCLI(t, "project", "add", "other", dir, "--preset", "Terminal", "--cmd", "make")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var presets []state.LaunchPreset
	runJSON(t, &presets, "settings", "preset", "ls")
	require.Len(t, presets, 1)

	runJSON(t, &s, "settings", "preset", "rm", "terminal")
	assert.Empty(t, s.LaunchPresets)

	_, err = runCLI(t, "settings", "preset", "rm", "terminal")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSettingsImport(t *testing.T) {
	setupCLI(t)

	doc := `{
  "theme": "system",
  "accentColor": "#ff0000",
  "zoomLevel": 20,
  "fontFamily": null,
  "fontSize": 18,
  "launchPresets": [
    {"id": null, "name": "Build", "description": null, "config": {"mode": "custom_command", "command": "make", "args": []}}
  ]
}`
	rootCmd.SetIn(strings.NewReader(doc))

	var s state.AppSettings
	runJSON(t, &s, "settings", "import", "-")
	assert.Equal(t, state.ThemeSystem, s.Theme)
	assert.Equal(t, "#ff0000", s.AccentColor)
	assert.Equal(t, state.MinZoomLevel, s.ZoomLevel)
	assert.Equal(t, uint8(18), s.FontSize)
	require.Len(t, s.LaunchPresets, 1)
	assert.Equal(t, "Build", s.LaunchPresets[0].Name)

	bad := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"theme": 3`), 0644))
	_, err := runCLI(t, "settings", "import", bad)
	assert.ErrorIs(t, err, apperr.ErrSerialization)

	_, err = runCLI(t, "settings", "import", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, apperr.ErrIO)
}

func TestSettingsImport_MissingFieldsUseDefaults(t *testing.T) {
	setupCLI(t)
	rootCmd.SetIn(strings.NewReader(`{"theme": "dark", "accentColor": "#00ff00", "zoomLevel": 120}`))

	var s state.AppSettings
	runJSON(t, &s, "settings", "import", "-")
	assert.Equal(t, state.ThemeDark, s.Theme)
	assert.Equal(t, state.DefaultFontSize, s.FontSize)
	assert.Equal(t, uint8(120), s.ZoomLevel)
	assert.NotNil(t, s.LaunchPresets)
	assert.Empty(t, s.LaunchPresets)
}

func TestProjectNames_AllWorkspaces(t *testing.T) {
	setupCLI(t)
	ctx := context.Background()
	eng, err := newEngine(ctx)
	require.NoError(t, err)
	defer eng.Close()

	side, err := eng.CreateWorkspace(ctx, state.WorkspaceInput{Name: "Side"})
	require.NoError(t, err)
	home, err := eng.UpsertProject(ctx, nil, projects.ProjectInput{Name: "home-api", Path: projectDir(t, "home")})
	require.NoError(t, err)
	other, err := eng.UpsertProject(ctx, &side.ID, projects.ProjectInput{Name: "side-api", Path: projectDir(t, "side")})
	require.NoError(t, err)

	names := projectNames(ctx, eng)
	assert.Equal(t, "home-api", names[home.ID])
	assert.Equal(t, "side-api", names[other.ID])
}

func TestLaunchWaitAndStats(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses the true command")
	}
	setupCLI(t)
	dir := projectDir(t, "quick")

	var p projects.Project
	runJSON(t, &p, "project", "add", "quick", dir, "--cmd", "true")

	var result engine.LaunchResult
	runJSON(t, &result, "launch", "quick", "--wait")
	assert.True(t, result.Tracked)
	assert.False(t, result.AlreadyRunning)
	assert.Equal(t, p.ID, result.Project.ID)

	var stats projects.ActivityStats
	runJSON(t, &stats, "stats")
	assert.Equal(t, int64(1), stats.TotalLaunches)
	assert.Equal(t, int64(1), stats.TotalProjects)
	assert.Len(t, stats.WeeklyActivity, 7)
	require.Len(t, stats.ProjectCounts, 1)
	assert.Equal(t, "quick", stats.ProjectCounts[0].Name)

	// A fresh process has an empty process table
	var running []engine.RunningProcess
	runJSON(t, &running, "ps")
	assert.Empty(t, running)
}

func TestStop_NotRunning(t *testing.T) {
	setupCLI(t)
	dir := projectDir(t, "idle")

	var p projects.Project
	runJSON(t, &p, "project", "add", "idle", dir)

	var stopped map[string]string
	runJSON(t, &stopped, "stop", "idle")
	assert.Equal(t, p.ID.String(), stopped["stopped"])
}

func TestLogLevelFlag(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "workspace", "ls", "--log-level", "loud")
	assert.Error(t, err)

	_, err = runCLI(t, "workspace", "ls", "--log-level", "debug")
	assert.NoError(t, err)
}
