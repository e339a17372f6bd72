package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danieljhkim/launchdeck/internal/apperr"
	"github.com/danieljhkim/launchdeck/internal/launch"
	"github.com/danieljhkim/launchdeck/internal/state"
	"github.com/danieljhkim/launchdeck/internal/stores"
)

const projectSelect = `SELECT id, name, path, description, open_config, created_at, updated_at FROM projects`

// List returns the workspace's projects ordered by name, case-insensitively.
func List(ctx context.Context, h stores.Handle) ([]Project, error) {
	rows, err := h.DB.QueryContext(ctx, projectSelect+` ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list projects: %v", apperr.ErrDatabase, err)
	}
	defer func() { _ = rows.Close() }()

	projects := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to list projects: %v", apperr.ErrDatabase, err)
	}
	return projects, nil
}

// Get returns one project.
func Get(ctx context.Context, h stores.Handle, id uuid.UUID) (Project, error) {
	row := h.DB.QueryRowContext(ctx, projectSelect+` WHERE id = ?`, id.String())
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("%w: %s", apperr.ErrProjectNotFound, id)
	}
	return p, err
}

// Upsert validates in and inserts it (nil ID) or replaces the existing row.
// The path and a custom_app executable are sanitised first; the path must
// exist and must not belong to another project of the workspace.
func Upsert(ctx context.Context, h stores.Handle, in ProjectInput, now time.Time) (Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Project{}, fmt.Errorf("%w: project name cannot be empty", apperr.ErrValidation)
	}

	path := launch.SanitizePath(in.Path)
	if path == "" {
		return Project{}, fmt.Errorf("%w: project path cannot be empty", apperr.ErrValidation)
	}
	if _, err := os.Stat(path); err != nil {
		return Project{}, fmt.Errorf("%w: project path does not exist: %s", apperr.ErrValidation, path)
	}

	cfg := in.OpenConfig.Sanitized()
	if err := cfg.Validate(); err != nil {
		return Project{}, err
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return Project{}, fmt.Errorf("%w: failed to encode open config: %v", apperr.ErrSerialization, err)
	}

	description := state.TrimOptional(in.Description)
	stamp := formatTimestamp(now)

	var id uuid.UUID
	if in.ID != nil {
		id = *in.ID
		res, err := h.DB.ExecContext(ctx, `
			UPDATE projects
			SET name = ?, path = ?, description = ?, open_config = ?, updated_at = ?
			WHERE id = ?`,
			name, path, description, string(cfgJSON), stamp, id.String())
		if err != nil {
			return Project{}, writeError(err, path)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return Project{}, fmt.Errorf("%w: %v", apperr.ErrDatabase, err)
		}
		if affected == 0 {
			return Project{}, fmt.Errorf("%w: %s", apperr.ErrProjectNotFound, id)
		}
	} else {
		id = uuid.New()
		_, err := h.DB.ExecContext(ctx, `
			INSERT INTO projects (id, name, path, description, open_config, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id.String(), name, path, description, string(cfgJSON), stamp, stamp)
		if err != nil {
			return Project{}, writeError(err, path)
		}
	}

	return Get(ctx, h, id)
}

// Delete removes a project; its launch history goes with it.
func Delete(ctx context.Context, h stores.Handle, id uuid.UUID) (uuid.UUID, error) {
	res, err := h.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id.String())
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: failed to delete project: %v", apperr.ErrDatabase, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", apperr.ErrDatabase, err)
	}
	if affected == 0 {
		return uuid.Nil, fmt.Errorf("%w: %s", apperr.ErrProjectNotFound, id)
	}
	return id, nil
}

// RecordLaunch appends a launch event for the project.
func RecordLaunch(ctx context.Context, h stores.Handle, id uuid.UUID, at time.Time) error {
	_, err := h.DB.ExecContext(ctx,
		`INSERT INTO launch_history (project_id, launched_at) VALUES (?, ?)`,
		id.String(), at.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: failed to record launch: %v", apperr.ErrDatabase, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var (
		id, name, path, cfgJSON string
		createdAt, updatedAt    string
		description             sql.NullString
	)
	if err := row.Scan(&id, &name, &path, &description, &cfgJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, err
		}
		return Project{}, fmt.Errorf("%w: failed to read project: %v", apperr.ErrDatabase, err)
	}

	p := Project{Name: name, Path: path}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return Project{}, fmt.Errorf("%w: invalid project id %q: %v", apperr.ErrValidation, id, err)
	}
	p.ID = parsed

	if description.Valid {
		d := description.String
		p.Description = &d
	}
	if err := json.Unmarshal([]byte(cfgJSON), &p.OpenConfig); err != nil {
		return Project{}, fmt.Errorf("%w: invalid open config for project %s: %v", apperr.ErrSerialization, id, err)
	}
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return Project{}, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return Project{}, err
	}
	return p, nil
}

func writeError(err error, path string) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE") {
		return fmt.Errorf("%w: another project already uses path %s", apperr.ErrValidation, path)
	}
	return fmt.Errorf("%w: failed to save project: %v", apperr.ErrDatabase, err)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid timestamp %q: %v", apperr.ErrValidation, value, err)
	}
	return t.UTC(), nil
}
