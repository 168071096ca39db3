package store

import "strings"

var (
	identityEscaper   = strings.NewReplacer("@", "%0040", "_", "%005f", "-", "%002d")
	identityUnescaper = strings.NewReplacer("%0040", "@", "%005f", "_", "%002d", "-")
)

// Escape makes an account or contact identity safe to use as a path segment.
func Escape(identity string) string {
	return identityEscaper.Replace(identity)
}

// Unescape reverses Escape.
func Unescape(segment string) string {
	return identityUnescaper.Replace(segment)
}
