package procs

import (
	"log/slog"
	"sort"
)

// Registry maps project ids to their live child process.
//
// Registry is not safe for concurrent use; the engine serialises every call
// under its write lock, which is what makes the "is it already running?"
// check and the subsequent Track atomic.
type Registry struct {
	handles map[string]*Handle
	logger  *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		handles: make(map[string]*Handle),
		logger:  logger,
	}
}

// IsRunning reports whether id has a live child. A tracked child that has
// exited is discarded as a side effect.
func (r *Registry) IsRunning(id string) bool {
	h, ok := r.handles[id]
	if !ok {
		return false
	}
	if h.Exited() {
		r.reap(id, h)
		return false
	}
	return true
}

// Track records h as the live child of id. Callers check IsRunning first;
// a previous handle for id is replaced.
func (r *Registry) Track(id string, h *Handle) {
	r.handles[id] = h
	r.logger.Info("tracking process", "project", id, "pid", h.PID(), "program", h.Label())
}

// Get returns the handle tracked for id, if any.
func (r *Registry) Get(id string) (*Handle, bool) {
	h, ok := r.handles[id]
	return h, ok
}

// Stop kills the child tracked for id and forgets it. Stopping an id with
// no entry is a no-op. If the kill fails the entry is kept.
func (r *Registry) Stop(id string) error {
	h, ok := r.handles[id]
	if !ok {
		return nil
	}
	if err := h.Kill(); err != nil {
		return err
	}
	delete(r.handles, id)
	r.logger.Info("stopped process", "project", id, "pid", h.PID())
	return nil
}

// Sweep discards every entry whose child has exited and returns the ids
// that are still running, sorted.
func (r *Registry) Sweep() []string {
	running := make([]string, 0, len(r.handles))
	for id, h := range r.handles {
		if h.Exited() {
			r.reap(id, h)
			continue
		}
		running = append(running, id)
	}
	sort.Strings(running)
	return running
}

// Len returns the number of tracked entries, live or not.
func (r *Registry) Len() int {
	return len(r.handles)
}

func (r *Registry) reap(id string, h *Handle) {
	delete(r.handles, id)
	r.logger.Info("process exited", "project", id, "pid", h.PID(), "err", h.ExitErr())
}
