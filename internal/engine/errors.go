package engine

import (
	"fmt"

	"github.com/danieljhkim/launchdeck/internal/apperr"
)

var (
	// ErrNoActiveWorkspace is returned when a command omits the workspace
	// and none is active.
	ErrNoActiveWorkspace = fmt.Errorf("%w: no active workspace selected", apperr.ErrValidation)
)
