package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckDisabledAllowsEverything(t *testing.T) {
	s := Settings{Enabled: false, Pattern: `.*@uni\.edu$`}
	for _, email := range []string{"a@uni.edu", "a@gmail.com", "", "not-an-email"} {
		assert.True(t, Check(s, email).Allowed, "email %q", email)
	}
}

func TestCheckZeroValueFailsOpen(t *testing.T) {
	// Zero-value settings stand in for an unreadable settings store.
	assert.True(t, Check(Settings{}, "anyone@anywhere.org").Allowed)
}

func TestCheckEnabledPattern(t *testing.T) {
	s := Settings{Enabled: true, Pattern: `.*@uni\.edu$`, Message: "students only"}

	res := Check(s, "a@uni.edu")
	assert.True(t, res.Allowed)
	assert.Empty(t, res.Message)

	res = Check(s, "a@gmail.com")
	assert.False(t, res.Allowed)
	assert.Equal(t, "students only", res.Message)
}

func TestCheckCaseInsensitiveAndNormalized(t *testing.T) {
	s := Settings{Enabled: true, Pattern: `.*@uni\.edu$`}
	assert.True(t, Check(s, "A@UNI.EDU").Allowed)
	assert.True(t, Check(s, "  a@uni.edu  ").Allowed)
}

func TestCheckInvalidRegexFailsOpen(t *testing.T) {
	s := Settings{Enabled: true, Pattern: `([unclosed`}
	assert.True(t, Check(s, "a@gmail.com").Allowed)
}

func TestCheckEmptyPatternMatchesAll(t *testing.T) {
	s := Settings{Enabled: true}
	assert.True(t, Check(s, "whoever@wherever.io").Allowed)
}

func TestCheckDefaultRejectionMessage(t *testing.T) {
	s := Settings{Enabled: true, Pattern: `.*@uni\.edu$`}
	res := Check(s, "a@gmail.com")
	assert.False(t, res.Allowed)
	assert.Equal(t, DefaultRejectionMessage, res.Message)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@uni.edu", NormalizeEmail("  A@Uni.EDU "))
	assert.Equal(t, "", NormalizeEmail("   "))
}
