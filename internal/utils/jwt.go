package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCookieName is the cookie carrying the session token.
const TokenCookieName = "token"

var parseJWT = func(tokenStr string, keyFunc jwt.Keyfunc) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, keyFunc)
}

var (
	ErrMissingToken  = errors.New("missing or malformed token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// SignToken issues an HS256 token carrying the user id and role.
func SignToken(secret, userID, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":   userID,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ExtractToken reads the bearer token from the Authorization header, falling
// back to the token cookie.
func ExtractToken(r *http.Request) (string, error) {
	if authz := r.Header.Get("Authorization"); authz != "" {
		if !strings.HasPrefix(authz, "Bearer ") {
			return "", ErrMissingToken
		}
		if tok := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer ")); tok != "" {
			return tok, nil
		}
		return "", ErrMissingToken
	}
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", ErrMissingToken
}

// VerifyToken extracts the token from the request, validates it,
// and returns the claims if everything is valid.
func VerifyToken(r *http.Request, secret string) (jwt.MapClaims, error) {
	tokenStr, err := ExtractToken(r)
	if err != nil {
		return nil, err
	}

	token, err := parseJWT(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// GetUserIDFromClaims extracts the "id" claim as a string.
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["id"]
	if !ok {
		return "", errors.New("missing id claim")
	}
	s, ok := id.(string)
	if !ok || s == "" {
		return "", errors.New("invalid id claim type")
	}
	return s, nil
}

// TokenCookie builds the session cookie. Secure is only set in production.
func TokenCookie(token string, days int, secure bool, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(time.Duration(days) * 24 * time.Hour),
		HttpOnly: true,
		Secure:   secure,
	}
}

// ClearTokenCookie expires the session cookie.
func ClearTokenCookie(now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     TokenCookieName,
		Value:    "none",
		Path:     "/",
		Expires:  now.Add(10 * time.Second),
		HttpOnly: true,
	}
}
