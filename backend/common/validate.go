package common

import (
	"strings"
	"unicode/utf8"
)

// invalidFilenameChars are forbidden in file and folder names.
const invalidFilenameChars = `\/:*?"<>|`

// ValidateFilename checks a candidate file or folder name and returns an empty
// string when it is acceptable, or a human-readable reason when it is not.
// Rules are applied in order; the first violation wins. The same rules run in
// the browser client so invalid names never reach the server in practice.
func ValidateFilename(name string) string {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return "Filename cannot be empty"
	}
	if utf8.RuneCountInString(trimmed) > 255 {
		return "Filename is too long"
	}
	if strings.ContainsAny(trimmed, invalidFilenameChars) {
		return "Filename contains invalid characters"
	}

	return ""
}
