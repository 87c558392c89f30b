package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// AccessTokenValidity is how long an access token stays valid
const AccessTokenValidity = time.Hour * 24

// RefreshTokenValidity is how long a refresh token stays valid
const RefreshTokenValidity = time.Hour * 24 * 7

// GenerateTokenPair returns an access token and a refresh token for the user
func GenerateTokenPair(email string, secret string, isAdmin bool, id uint, role string) (string, string, error) {
	accessClaims := jwt.MapClaims{
		"id":       id,
		"email":    email,
		"is_admin": isAdmin,
		"role":     role,
		"type":     "access",
		"exp":      time.Now().Add(AccessTokenValidity).Unix(),
		"iat":      time.Now().Unix(),
	}

	accessToken, err := generateToken(jwt.SigningMethodHS256, accessClaims, secret)
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"id":    id,
		"email": email,
		"type":  "refresh",
		"exp":   time.Now().Add(RefreshTokenValidity).Unix(),
		"iat":   time.Now().Unix(),
	}

	refreshToken, err := generateToken(jwt.SigningMethodHS256, refreshClaims, secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// GeneratePasswordResetToken returns a short-lived token used in reset links
func GeneratePasswordResetToken(userID uint, secret string) (string, error) {
	claims := jwt.MapClaims{
		"id":   userID,
		"type": "password_reset",
		"exp":  time.Now().Add(time.Minute * 20).Unix(),
		"iat":  time.Now().Unix(),
	}
	return generateToken(jwt.SigningMethodHS256, claims, secret)
}

func generateToken(signMethod *jwt.SigningMethodHMAC, claims jwt.MapClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(signMethod, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateAndGetClaims parses the token and returns its claims if valid
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
