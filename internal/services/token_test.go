package services

import (
	"testing"
	"time"

	"github.com/s20467/Forum-Backend/internal/db"
	"github.com/s20467/Forum-Backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice", models.RoleAdmin, models.RoleUser)

	token, err := IssueToken(user, time.Hour, "/login", true)
	require.NoError(t, err)

	resolved, err := ResolveAccessUser(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", resolved.Username)
	assert.ElementsMatch(t, []string{models.RoleAdmin, models.RoleUser}, resolved.AuthorityNames())
	assert.True(t, resolved.HasAuthority(models.RoleAdmin))
}

func TestRefreshTokenRejectedAsAccessToken(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	token, err := IssueToken(user, 24*time.Hour, "/login", false)
	require.NoError(t, err)

	_, err = ResolveAccessUser(token)
	assert.ErrorIs(t, err, models.ErrNotAccessToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	token, err := IssueToken(user, -time.Minute, "/login", true)
	require.NoError(t, err)

	_, err = ResolveAccessUser(token)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestTamperedTokenRejected(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	token, err := IssueToken(user, time.Hour, "/login", true)
	require.NoError(t, err)

	_, err = VerifyAndDecode(token + "x")
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestRefreshTokenReflectsCurrentAuthorities(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	token, err := IssueToken(user, 24*time.Hour, "/refresh-token", false)
	require.NoError(t, err)

	// Grant a role after the token was issued; the refresh lookup must see it.
	var admin models.Authority
	require.NoError(t, db.DB.Where("name = ?", models.RoleAdmin).First(&admin).Error)
	require.NoError(t, db.DB.Model(user).Association("Authorities").Append(&admin))

	resolved, err := ResolveRefreshUser(token)
	require.NoError(t, err)
	assert.True(t, resolved.HasAuthority(models.RoleAdmin))
}

func TestRefreshTokenForDeletedUserRejected(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	token, err := IssueToken(user, 24*time.Hour, "/refresh-token", false)
	require.NoError(t, err)

	require.NoError(t, DeleteUser("alice"))

	_, err = ResolveRefreshUser(token)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}
