package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/s20467/Forum-Backend/internal/config"
	"github.com/s20467/Forum-Backend/internal/db"
	"github.com/s20467/Forum-Backend/internal/middleware"
	"github.com/s20467/Forum-Backend/internal/models"
	"github.com/s20467/Forum-Backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	db.DB = gdb

	config.SetForTesting(&config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	})

	for _, role := range []string{models.RoleAdmin, models.RoleUser} {
		require.NoError(t, db.DB.Create(&models.Authority{Name: role}).Error)
	}
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.Authorize())
	h := NewAuthHandler()
	r.POST("/login", h.Login)
	r.GET("/refresh-token", h.RefreshToken)
	return r
}

func TestLoginIssuesTokenPair(t *testing.T) {
	setupTest(t)
	_, err := services.CreateUser("alice", "secret123")
	require.NoError(t, err)
	r := authRouter()

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"alice","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	user, err := services.ResolveAccessUser(body["access_token"])
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.HasAuthority(models.RoleUser))

	// The refresh token is not usable as an access token.
	_, err = services.ResolveAccessUser(body["refresh_token"])
	assert.ErrorIs(t, err, models.ErrNotAccessToken)
}

func TestLoginWithBadCredentials(t *testing.T) {
	setupTest(t)
	_, err := services.CreateUser("alice", "secret123")
	require.NoError(t, err)
	r := authRouter()

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"username":"alice","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshTokenEndpoint(t *testing.T) {
	setupTest(t)
	user, err := services.CreateUser("alice", "secret123")
	require.NoError(t, err)
	refresh, err := services.IssueToken(user, 24*time.Hour, "/login", false)
	require.NoError(t, err)
	r := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/refresh-token", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	resolved, err := services.ResolveAccessUser(body["access_token"])
	require.NoError(t, err)
	assert.Equal(t, "alice", resolved.Username)
}

func TestRefreshTokenEndpointWithoutHeader(t *testing.T) {
	setupTest(t)
	r := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/refresh-token", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrAlreadyClosed, http.StatusConflict},
		{models.ErrNotClosed, http.StatusConflict},
		{models.ErrAlreadyVoted, http.StatusConflict},
		{models.ErrNotVoted, http.StatusConflict},
		{models.ErrUsernameTaken, http.StatusConflict},
		{models.ErrInvalidPagination, http.StatusBadRequest},
		{models.ErrValidation, http.StatusBadRequest},
		{models.ErrBadCredentials, http.StatusUnauthorized},
		{models.ErrTokenExpired, http.StatusUnauthorized},
		{models.ErrTokenInvalid, http.StatusForbidden},
		{models.ErrNotAccessToken, http.StatusForbidden},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusForError(tc.err), tc.err.Error())
	}
}

func TestStatusForWrappedError(t *testing.T) {
	err := fmt.Errorf("%w: question with id 7", models.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, statusForError(err))
}
