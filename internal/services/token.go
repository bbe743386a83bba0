package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/s20467/Forum-Backend/internal/config"
	"github.com/s20467/Forum-Backend/internal/db"
	"github.com/s20467/Forum-Backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// TokenClaims is the claim set carried by both token kinds. Authorities are
// embedded in access tokens only; refresh tokens force a fresh user lookup
// so that newly granted or revoked roles take effect on the next refresh.
type TokenClaims struct {
	Authorities   []string `json:"authorities,omitempty"`
	IsAccessToken bool     `json:"isAccessToken"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for the user with the process-wide HMAC secret.
func IssueToken(user *models.User, validity time.Duration, issuer string, isAccessToken bool) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		IsAccessToken: isAccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if isAccessToken {
		claims.Authorities = user.AuthorityNames()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Get().JWTSecret))
}

// VerifyAndDecode verifies the signature and validity window and returns the
// decoded claims. Expired tokens map to ErrTokenExpired, everything else to
// ErrTokenInvalid.
func VerifyAndDecode(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.Get().JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", models.ErrTokenInvalid, err)
	}
	return claims, nil
}

// ResolveAccessUser rebuilds a transient user from an access token without a
// database roundtrip. The returned user carries only the username and the
// authorities captured at issue time.
func ResolveAccessUser(tokenString string) (*models.User, error) {
	claims, err := VerifyAndDecode(tokenString)
	if err != nil {
		return nil, err
	}
	if !claims.IsAccessToken {
		return nil, models.ErrNotAccessToken
	}
	user := &models.User{Username: claims.Subject}
	for _, name := range claims.Authorities {
		user.Authorities = append(user.Authorities, models.Authority{Name: name})
	}
	return user, nil
}

// ResolveRefreshUser verifies a refresh token and loads the persisted user,
// so a freshly minted access token reflects the user's current authorities.
func ResolveRefreshUser(tokenString string) (*models.User, error) {
	claims, err := VerifyAndDecode(tokenString)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := db.DB.Preload("Authorities").Where("username = ?", claims.Subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: subject %q no longer exists", models.ErrTokenInvalid, claims.Subject)
		}
		return nil, err
	}
	return &user, nil
}
