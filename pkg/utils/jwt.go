package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
)

// Claims is the payload carried by both access and refresh tokens. The two
// token kinds are told apart by their signing secret, not by a claim.
type Claims struct {
	UserID uuid.UUID `json:"userID"`
	jwt.RegisteredClaims
}

// ConfigureJWT installs the signing secrets and lifetimes. It must be called
// before tokens are issued or validated; defaults live in the config layer,
// not here.
func ConfigureJWT(access, refresh string, accessExpiry, refreshExpiry time.Duration) {
	accessSecret = []byte(access)
	refreshSecret = []byte(refresh)
	accessTTL = accessExpiry
	refreshTTL = refreshExpiry
}

func GenerateAccessToken(userID uuid.UUID) (string, error) {
	return generateToken(userID, accessSecret, accessTTL)
}

func GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return generateToken(userID, refreshSecret, refreshTTL)
}

func ValidateAccessToken(tokenString string) (*Claims, error) {
	return validateToken(tokenString, accessSecret)
}

func ValidateRefreshToken(tokenString string) (*Claims, error) {
	return validateToken(tokenString, refreshSecret)
}

func generateToken(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func validateToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
