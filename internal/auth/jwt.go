package auth

import (
	"errors"
	"time"

	"depot-backend/internal/config"
	"depot-backend/internal/models"
	"depot-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
)

const tempTokenType = "2fa_pending"

// Claims carries only the user identity. Role and active status are
// read from the database on every request, so stale tokens cannot keep
// revoked privileges alive.
type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TempClaims is the short-lived token issued between login step 1 and
// the 2FA code check.
type TempClaims struct {
	UserID int    `json:"user_id"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	cfg *config.Config
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{cfg: cfg}
}

func (j *JWTManager) registered(ttl time.Duration) jwt.RegisteredClaims {
	now := timeutil.Now()
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    j.cfg.JWT.Issuer,
	}
}

// keyFunc rejects any token not signed with HMAC before handing out the key.
func (j *JWTManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("invalid signing method")
	}
	return []byte(j.cfg.JWT.Secret), nil
}

// GenerateToken issues a full access token for an authenticated user.
func (j *JWTManager) GenerateToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID:           user.ID,
		Role:             user.Role,
		RegisteredClaims: j.registered(time.Duration(j.cfg.JWT.ExpirationHours) * time.Hour),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// ValidateToken parses and verifies an access token.
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GenerateTempToken issues a 5 minute token that is only good for the
// 2FA verification endpoint.
func (j *JWTManager) GenerateTempToken(user *models.User) (string, error) {
	claims := &TempClaims{
		UserID:           user.ID,
		Type:             tempTokenType,
		RegisteredClaims: j.registered(5 * time.Minute),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.JWT.Secret))
}

// ValidateTempToken parses a 2FA pending token and checks its type tag.
func (j *JWTManager) ValidateTempToken(tokenString string) (*TempClaims, error) {
	claims := &TempClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Type != tempTokenType {
		return nil, errors.New("invalid token type")
	}
	return claims, nil
}
