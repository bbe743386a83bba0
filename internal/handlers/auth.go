package handlers

import (
	"net/http"
	"strings"

	"github.com/s20467/Forum-Backend/internal/config"
	"github.com/s20467/Forum-Backend/internal/middleware"
	"github.com/s20467/Forum-Backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for an access + refresh token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := services.Authenticate(creds.Username, creds.Password)
	if err != nil {
		JSONError(c, err)
		return
	}

	cfg := config.Get()
	issuer := c.Request.RequestURI

	accessToken, err := services.IssueToken(user, cfg.AccessTokenTTL, issuer, true)
	if err != nil {
		JSONError(c, err)
		return
	}
	refreshToken, err := services.IssueToken(user, cfg.RefreshTokenTTL, issuer, false)
	if err != nil {
		JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// RefreshToken exchanges a valid refresh token for a fresh access token
// carrying the user's current authorities.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no refresh token attached in authorization header"})
		return
	}

	user, err := services.ResolveRefreshUser(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		middleware.AbortWithTokenError(c, err)
		return
	}

	accessToken, err := services.IssueToken(user, config.Get().AccessTokenTTL, c.Request.RequestURI, true)
	if err != nil {
		JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}
