// Package state owns the durable workspace registry document.
//
// The document (workspaces.json) lists every registered workspace, records
// which one is active, and carries the user's settings. It is loaded once at
// startup through a load → repair → conditionally persist pipeline and then
// rewritten atomically after every mutation.
//
// Key concepts:
//   - AppConfig: the root document
//   - WorkspaceRecord: one registered workspace and the path of its SQLite store
//   - AppSettings: theme, typography and launch presets
//   - FileConfigStore: loads, repairs and persists AppConfig under a file lock
//   - EnsureActiveID / EnsureSettings: pure repair passes reporting whether they changed anything
package state
