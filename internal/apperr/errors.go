// Package apperr defines the error kinds surfaced by launchdeck operations.
//
// Every error returned from the engine wraps exactly one of these sentinels,
// so callers can classify failures with errors.Is while still showing the
// full wrapped message to the user.
package apperr

import "errors"

var (
	// ErrWorkspaceNotFound indicates the requested workspace id is unknown.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrProjectNotFound indicates the requested project id has no row in the workspace store.
	ErrProjectNotFound = errors.New("project not found")

	// ErrValidation indicates invalid user input (empty names, missing paths,
	// invalid open configs, duplicate names, no active workspace).
	ErrValidation = errors.New("validation error")

	// ErrIO indicates a filesystem failure.
	ErrIO = errors.New("io error")

	// ErrDatabase indicates a workspace store failure.
	ErrDatabase = errors.New("database error")

	// ErrSerialization indicates a config document or open config codec failure.
	ErrSerialization = errors.New("serialization error")

	// ErrPathUnavailable indicates a required directory could not be resolved.
	ErrPathUnavailable = errors.New("internal path not available")

	// ErrLaunch indicates a spawn, kill or system-open failure.
	ErrLaunch = errors.New("failed to launch application")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrWorkspaceNotFound, "workspace_not_found"},
	{ErrProjectNotFound, "project_not_found"},
	{ErrValidation, "validation"},
	{ErrIO, "io"},
	{ErrDatabase, "database"},
	{ErrSerialization, "serialization"},
	{ErrPathUnavailable, "path_unavailable"},
	{ErrLaunch, "launch"},
}

// Kind returns a stable label for the error kind wrapped by err,
// or "internal" when err wraps none of the sentinels.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}
