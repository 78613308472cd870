package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIssueAPIKey(t *testing.T) {
	u := &User{ID: 1}

	key, err := u.IssueAPIKey()
	require.NoError(t, err)
	require.NotEmpty(t, key)

	assert.True(t, strings.HasPrefix(key, "unx_"))
	assert.NotEmpty(t, u.APIKeyHash)
	assert.Equal(t, key[:16], u.APIKeyPrefix)
	assert.NotNil(t, u.APIKeyCreatedAt)
	assert.Nil(t, u.APIKeyLastUsedAt)
	assert.True(t, u.HasActiveAPIKey())
	assert.Equal(t, HashAPIKey(key), u.APIKeyHash)
}

func TestUserIssueAPIKeyRotates(t *testing.T) {
	u := &User{ID: 1}

	first, err := u.IssueAPIKey()
	require.NoError(t, err)
	second, err := u.IssueAPIKey()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, HashAPIKey(second), u.APIKeyHash)
	assert.NotEqual(t, HashAPIKey(first), u.APIKeyHash)
}

func TestUserRevokeAPIKey(t *testing.T) {
	u := &User{ID: 99}
	_, err := u.IssueAPIKey()
	require.NoError(t, err)

	u.RevokeAPIKey()

	assert.False(t, u.HasActiveAPIKey())
	assert.Equal(t, "", u.APIKeyHash)
	assert.Equal(t, "", u.APIKeyPrefix)
	assert.NotNil(t, u.APIKeyRevokedAt)
}

func TestHashAPIKeyTrimsWhitespace(t *testing.T) {
	assert.Equal(t, HashAPIKey("unx_abc"), HashAPIKey("  unx_abc \n"))
}

func TestUserPasswordRoundtrip(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("correct horse"))

	assert.True(t, u.CheckPassword("correct horse"))
	assert.False(t, u.CheckPassword("wrong horse"))
}

func TestCreateUserValidation(t *testing.T) {
	u, err := CreateUser("alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, ROLE_USER, u.Role)
	assert.Equal(t, STATUS_INACTIVE, u.Status)
	assert.True(t, u.CheckPassword("secret123"))

	_, err = CreateUser("al", "not-an-email", "secret123")
	assert.Error(t, err)
}

func TestUserTrialEligibility(t *testing.T) {
	u := &User{}
	assert.True(t, u.IsTrialEligible())

	u.MarkTrialUsed(PlanCategoryBots)
	assert.False(t, u.IsTrialEligible())

	// any consumed trial blocks every category
	u.MarkTrialUsed(PlanCategoryBots)
	assert.Len(t, u.TrialUsedCategories, 1)

	u.MarkTrialUsed(PlanCategoryBundles)
	assert.Len(t, u.TrialUsedCategories, 2)
}

func TestUserEmailChangeToken(t *testing.T) {
	u := &User{}
	require.NoError(t, u.GenerateEmailChangeToken())
	u.PendingEmail = "new@example.com"

	assert.True(t, u.HasPendingEmailChange())
	assert.True(t, u.IsEmailChangeTokenValid(u.EmailChangeToken))
	assert.False(t, u.IsEmailChangeTokenValid("bogus"))

	u.ClearEmailChangeRequest()
	assert.False(t, u.HasPendingEmailChange())
	assert.False(t, u.IsEmailChangeTokenValid(""))
}
