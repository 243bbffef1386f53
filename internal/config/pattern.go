package config

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// NegatePrefix marks a content pattern that excludes files.
const NegatePrefix = "!"

// ValidatePattern checks that p is a usable content glob. A leading "!"
// negates the pattern; the remainder must still be a valid glob.
func ValidatePattern(p string) error {
	body := strings.TrimPrefix(p, NegatePrefix)
	if strings.TrimSpace(body) == "" {
		return errEmptyPattern
	}
	if !doublestar.ValidatePattern(body) {
		return doublestar.ErrBadPattern
	}
	return nil
}

// SplitPattern returns the glob body of p and whether it is negated.
func SplitPattern(p string) (glob string, negated bool) {
	if strings.HasPrefix(p, NegatePrefix) {
		return p[len(NegatePrefix):], true
	}
	return p, false
}
