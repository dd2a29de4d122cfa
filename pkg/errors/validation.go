package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// profileNameRegex matches profile names usable as config keys and CLI values.
var profileNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateProfileName validates the name of a parse profile.
//
// Names are lowercase, start with a letter and contain only letters, digits,
// dashes and underscores. The maximum length is 64 characters.
func ValidateProfileName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidProfile, "profile name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidProfile, "profile name too long (max 64 characters)")
	}
	if !profileNameRegex.MatchString(name) {
		return New(ErrCodeInvalidProfile, "invalid profile name: %q", name)
	}
	return nil
}

// ValidatePattern checks that pattern compiles and exposes the requested groups.
// A dataGroup of 0 means "no data group" and is always accepted.
func ValidatePattern(pattern string, anchorGroup, dataGroup int) error {
	if pattern == "" {
		return New(ErrCodeInvalidPattern, "pattern cannot be empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Wrap(ErrCodeInvalidPattern, err, "compile %q", pattern)
	}
	if anchorGroup < 0 || dataGroup < 0 {
		return New(ErrCodeInvalidPattern, "capture group indexes must not be negative")
	}
	if n := re.NumSubexp(); anchorGroup > n || dataGroup > n {
		return New(ErrCodeInvalidPattern, "pattern %q has %d capture groups", pattern, n)
	}
	return nil
}

// ValidateMarker validates a duplicate-subtree marker suffix.
// Markers must be non-empty, single-line and free of control characters.
func ValidateMarker(marker string) error {
	if strings.TrimSpace(marker) == "" {
		return New(ErrCodeInvalidConfig, "duplicate marker cannot be blank")
	}
	for _, r := range marker {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "duplicate marker contains control characters")
		}
	}
	return nil
}

// ValidateTreeID validates a stored tree identifier.
// IDs are canonical lowercase UUID strings (36 characters, hex and dashes).
func ValidateTreeID(id string) error {
	if len(id) != 36 {
		return New(ErrCodeInvalidID, "invalid tree id: %q", id)
	}
	for i, r := range id {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return New(ErrCodeInvalidID, "invalid tree id: %q", id)
			}
		default:
			if !strings.ContainsRune("0123456789abcdef", r) {
				return New(ErrCodeInvalidID, "invalid tree id: %q", id)
			}
		}
	}
	return nil
}
