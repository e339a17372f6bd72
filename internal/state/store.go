package state

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/clock"
	"github.com/danieljhkim/launchdeck/internal/config"
	"github.com/danieljhkim/launchdeck/internal/fsops"
)

const (
	// BootstrapWorkspaceName names the workspace synthesised on first run.
	BootstrapWorkspaceName = "Default Workspace"

	bootstrapWorkspaceDescription = "Initial workspace"

	// lockTimeout bounds how long Load/Persist wait for another launchdeck
	// process holding the document lock.
	lockTimeout = 10 * time.Second

	lockPollInterval = 50 * time.Millisecond
)

// ConfigStore loads and persists the workspace registry document.
type ConfigStore interface {
	// Load reads the document, repairs it, and persists it again if the
	// repair changed anything or the document had to be bootstrapped.
	Load(ctx context.Context) (*AppConfig, error)

	// Persist atomically replaces the document with cfg.
	Persist(ctx context.Context, cfg *AppConfig) error
}

// FileConfigStore implements ConfigStore with a JSON file guarded by an
// advisory file lock, so two launchdeck processes never interleave writes.
type FileConfigStore struct {
	fs     fsops.FS
	paths  config.Paths
	clock  clock.Clock
	logger *slog.Logger
	lock   *flock.Flock
}

// NewFileConfigStore creates a new FileConfigStore.
func NewFileConfigStore(fs fsops.FS, paths config.Paths, clk clock.Clock, logger *slog.Logger) *FileConfigStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileConfigStore{
		fs:     fs,
		paths:  paths,
		clock:  clk,
		logger: logger,
		lock:   flock.New(paths.ConfigLock),
	}
}

// Load reads the document, bootstrapping a default workspace when none
// exists. A document that fails to parse is an error; shape problems found
// after parsing are repaired and written back.
func (s *FileConfigStore) Load(ctx context.Context) (*AppConfig, error) {
	if err := s.fs.MkdirAll(s.paths.Root, 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create data directory %s: %v", apperr.ErrIO, s.paths.Root, err)
	}

	unlock, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	exists, err := s.fs.Exists(s.paths.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check %s: %v", apperr.ErrIO, s.paths.Config, err)
	}

	var (
		cfg             *AppConfig
		dirty           bool
		settingsMissing bool
	)
	if !exists {
		cfg, err = s.bootstrap()
		if err != nil {
			return nil, err
		}
		dirty = true
		s.logger.Info("bootstrapped workspace registry", "path", s.paths.Config)
	} else {
		data, err := s.fs.ReadFile(s.paths.Config)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %v", apperr.ErrIO, s.paths.Config, err)
		}
		cfg, settingsMissing, err = DecodeConfig(data)
		if err != nil {
			return nil, err
		}
	}

	if EnsureActiveID(cfg) {
		s.logger.Info("repaired active workspace", "active", cfg.ActiveWorkspaceID)
		dirty = true
	}
	if EnsureSettings(&cfg.Settings, settingsMissing) {
		s.logger.Info("repaired settings", "settingsMissing", settingsMissing)
		dirty = true
	}

	if dirty {
		if err := s.write(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Persist atomically replaces the document with cfg.
func (s *FileConfigStore) Persist(ctx context.Context, cfg *AppConfig) error {
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return s.write(cfg)
}

// DecodeConfig parses a workspace registry document. It reports whether the
// settings section was absent, which marks a pre-settings document.
func DecodeConfig(data []byte) (*AppConfig, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, false, fmt.Errorf("%w: failed to parse workspace registry: %v", apperr.ErrSerialization, err)
	}
	raw, ok := fields["settings"]
	settingsMissing := !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))

	// Absent settings fields keep these defaults.
	cfg := &AppConfig{Settings: DefaultSettings()}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, false, fmt.Errorf("%w: failed to parse workspace registry: %v", apperr.ErrSerialization, err)
	}
	if cfg.Workspaces == nil {
		cfg.Workspaces = []WorkspaceRecord{}
	}
	return cfg, settingsMissing, nil
}

// EncodeConfig renders the document as indented JSON.
func EncodeConfig(cfg *AppConfig) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode workspace registry: %v", apperr.ErrSerialization, err)
	}
	return append(data, '\n'), nil
}

func (s *FileConfigStore) bootstrap() (*AppConfig, error) {
	id := uuid.New()
	now := s.clock.Now()

	dbPath := s.paths.WorkspaceDBPath(id.String())
	if err := s.fs.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create workspace directory: %v", apperr.ErrIO, err)
	}

	description := bootstrapWorkspaceDescription
	return &AppConfig{
		Workspaces: []WorkspaceRecord{{
			ID:           id,
			Name:         BootstrapWorkspaceName,
			Description:  &description,
			DatabasePath: dbPath,
			CreatedAt:    now,
			UpdatedAt:    now,
		}},
		ActiveWorkspaceID: &id,
		Settings:          DefaultSettings(),
	}, nil
}

func (s *FileConfigStore) write(cfg *AppConfig) error {
	data, err := EncodeConfig(cfg)
	if err != nil {
		return err
	}
	if err := s.fs.AtomicWrite(s.paths.Config, data, 0644); err != nil {
		return fmt.Errorf("%w: failed to write workspace registry: %v", apperr.ErrIO, err)
	}
	return nil
}

func (s *FileConfigStore) acquire(ctx context.Context) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(ctx, lockPollInterval)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to lock %s: %v", apperr.ErrIO, s.paths.ConfigLock, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: workspace registry is locked by another process", apperr.ErrIO)
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release registry lock", "err", err)
		}
	}, nil
}
