package launch

import "strings"

const (
	leftToRightEmbedding     = "\u202a"
	popDirectionalFormatting = "\u202c"
)

var bidiStripper = strings.NewReplacer(leftToRightEmbedding, "", popDirectionalFormatting, "")

// SanitizePath removes the bidirectional formatting marks (U+202A, U+202C)
// that some file managers prepend when a path is copied, then trims
// surrounding whitespace. Paths without those marks are returned unchanged.
func SanitizePath(path string) string {
	if !strings.Contains(path, leftToRightEmbedding) && !strings.Contains(path, popDirectionalFormatting) {
		return path
	}
	return strings.TrimSpace(bidiStripper.Replace(path))
}
