package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-awards/backend/config"
	"github.com/campus-awards/backend/internal/models"
)

func TestRoleForNewAccountNoDomainPolicy(t *testing.T) {
	cfg := config.AuthConfig{DefaultRole: "voter"}
	assert.Equal(t, models.RoleVoter, RoleForNewAccount(cfg, "anyone@example.com"))
	assert.Equal(t, models.RoleVoter, RoleForNewAccount(cfg, "student@uni.edu"))
}

func TestRoleForNewAccountUniversityDomain(t *testing.T) {
	cfg := config.AuthConfig{DefaultRole: "voter", UniversityDomain: "uni.edu"}

	assert.Equal(t, models.RoleVoter, RoleForNewAccount(cfg, "student@uni.edu"))
	assert.Equal(t, models.RoleVoter, RoleForNewAccount(cfg, "Student@UNI.EDU"))
	assert.Equal(t, models.RoleViewer, RoleForNewAccount(cfg, "outsider@gmail.com"))
	// Lookalike domains must not match.
	assert.Equal(t, models.RoleViewer, RoleForNewAccount(cfg, "evil@notuni.edu"))
}

func TestRoleForNewAccountInvalidDefaultFallsBackToVoter(t *testing.T) {
	cfg := config.AuthConfig{DefaultRole: "superuser"}
	assert.Equal(t, models.RoleVoter, RoleForNewAccount(cfg, "anyone@example.com"))
}
