package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Key returns the storage key for a card text: the SHA-256 of the exact
// text as a hex string. Two texts share a key only if they are identical,
// so the key can stand in for the text in played history and favorites.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", sum)
}

// Clean trims surrounding whitespace and normalizes line endings of a
// user-authored prompt. It reports false when nothing is left.
func Clean(text string) (string, bool) {
	t := strings.ReplaceAll(text, "\r\n", "\n")
	t = strings.TrimSpace(t)
	return t, t != ""
}
