package filenamex

import (
	"path"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_\-]`) //nolint:gochecknoglobals

// Normalize keeps letters, digits, dashes and underscores of the base name,
// lowercased, with spaces turned into underscores. Directories are dropped.
// Names that normalize to nothing become "file".
func Normalize(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)

	base = strings.ReplaceAll(base, " ", "_")
	base = unsafeChars.ReplaceAllString(base, "")
	base = strings.ToLower(base)
	if base == "" {
		base = "file"
	}

	ext = unsafeChars.ReplaceAllString(strings.TrimPrefix(ext, "."), "")
	if ext == "" {
		return base
	}
	return base + "." + ext
}
