// Package gate implements the email allowlist check applied before a
// sign-in code is sent. The policy is availability over restriction: a
// disabled allowlist, an unreadable settings store or a broken pattern
// all allow the email through.
package gate

import (
	"regexp"
	"strings"
)

// DefaultRejectionMessage is shown when the allowlist blocks an email and
// no custom message is configured.
const DefaultRejectionMessage = "Access is currently limited. Please contact an administrator."

// Settings is the allowlist configuration, loaded from the settings store
// by the caller and passed in explicitly. The zero value (disabled) is the
// fail-open fallback when settings cannot be read.
type Settings struct {
	Enabled bool
	Pattern string
	Message string
}

// Result is the outcome of an allowlist check.
type Result struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}

// NormalizeEmail lowercases and trims an email so the gate and the account
// uniqueness key agree on the same string.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Check tests an email against the allowlist. The email is normalized
// before matching. The pattern is compiled case-insensitively; a pattern
// that fails to compile allows the email (fail open).
func Check(s Settings, email string) Result {
	if !s.Enabled {
		return Result{Allowed: true}
	}

	pattern := s.Pattern
	if pattern == "" {
		pattern = ".*"
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Result{Allowed: true}
	}

	if re.MatchString(NormalizeEmail(email)) {
		return Result{Allowed: true}
	}

	msg := s.Message
	if msg == "" {
		msg = DefaultRejectionMessage
	}
	return Result{Allowed: false, Message: msg}
}
