package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/harshaaa-5/aivy-1/internal/auth"
	"github.com/harshaaa-5/aivy-1/internal/contextkeys"
)

// JWTAuthMiddleware validates the bearer token and injects UserClaims into
// the request context.
func JWTAuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearerToken(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseUserToken(tokenStr, secret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if claims.UserID == "" {
				http.Error(w, "missing essential claims", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextkeys.UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserClaims retrieves the UserClaims previously set in context.
func GetUserClaims(ctx context.Context) *auth.UserClaims {
	if v := ctx.Value(contextkeys.UserClaimsKey); v != nil {
		if uc, ok := v.(*auth.UserClaims); ok {
			return uc
		}
	}
	return nil
}

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header required")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}
