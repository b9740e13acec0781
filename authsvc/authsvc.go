package authsvc

import (
	"errors"
	"os"
)

var (
	AppEnv         = getEnv("APP_ENV", "")
	AccessSecret   = getEnv("ACCESS_SECRET", "access-secret")
	CookieHashKey  = getEnv("COOKIE_HASH_KEY", "very-secret")
	CookieBlockKey = getEnv("COOKIE_BLOCK_KEY", "a-lots-of-secret")
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}

type contextKey string

const (
	UserIDContextKey  contextKey = "UserID"
	JWTUUIDContextKey contextKey = "JWTUUID"
)

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserIDContextMissing = errors.New("user ID was not passed through the context")
	ErrClaimsMissing        = errors.New("JWT claims was not passed through the context")
	ErrClaimsInvalid        = errors.New("JWT claims was invalid")
	ErrUUIDMissing          = errors.New("token UUID was not found in the JWT claims")
)
