package preplan

import (
	"strings"
)

// FallbackName is the identifier used when a non-empty name consists only of
// characters that sanitize away, e.g. "!!!".
const FallbackName = "pr"

// BranchPrefix is prepended to a sanitized name to form the git branch the
// orchestrator works on.
const BranchPrefix = "pr/"

// Sanitize converts a free-form PR name into an identifier that is safe as a
// path component and as part of a git ref name. The result contains only
// [A-Za-z0-9_/-], never starts or ends with '-' or '/', and never contains
// "//". Sanitize is idempotent.
//
// An empty or whitespace-only name is rejected with ErrEmptyName.
func Sanitize(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	prevSlash := false
	for _, r := range trimmed {
		c := byte('-')
		if isSafeRune(r) {
			c = byte(r)
		}
		if c == '/' && prevSlash {
			continue
		}
		prevSlash = c == '/'
		b.WriteByte(c)
	}

	out := strings.Trim(b.String(), "-/")
	if out == "" {
		return FallbackName, nil
	}
	return out, nil
}

// BranchName returns the branch name for an already sanitized identifier.
func BranchName(sanitized string) string {
	return BranchPrefix + sanitized
}

func isSafeRune(r rune) bool {
	switch {
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	case r == '-', r == '_', r == '/':
		return true
	}
	return false
}
