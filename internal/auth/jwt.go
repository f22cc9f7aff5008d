package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/harshaaa-5/aivy-1/internal/models"
)

var (
	ErrNoToken      = errors.New("authentication error: no token")
	ErrInvalidToken = errors.New("authentication error: invalid token")
)

type UserClaims struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// Identity is the decoded result of a verified token, attached to a
// connection or request context at admission time.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// ========== Token Generators ==========

func GenerateUserToken(user models.User, secret []byte, ttl time.Duration) (string, error) {
	return generateUserTokenTyped(user, secret, ttl, "access")
}

func GenerateUserRefreshToken(user models.User, secret []byte, ttl time.Duration) (string, error) {
	return generateUserTokenTyped(user, secret, ttl, "refresh")
}

func generateUserTokenTyped(user models.User, secret []byte, ttl time.Duration, typ string) (string, error) {
	claims := &UserClaims{
		UserID:    user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ========== Token Parsers ==========

func ParseUserToken(tokenStr string, secret []byte) (*UserClaims, error) {
	return parseUserTokenTyped(tokenStr, secret, "access")
}

func ParseUserRefreshToken(tokenStr string, secret []byte) (*UserClaims, error) {
	return parseUserTokenTyped(tokenStr, secret, "refresh")
}

func parseUserTokenTyped(tokenStr string, secret []byte, wantType string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return nil, jwt.ErrTokenExpired
	}
	if claims.TokenType != wantType {
		return nil, errors.New("token type mismatch")
	}
	return claims, nil
}

// Verifier checks a bearer credential and yields the identity it carries.
// The realtime connection gate consumes this interface so tests can supply
// their own verifier without minting real tokens.
type Verifier interface {
	Verify(token string) (Identity, error)
}

type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret []byte) *HMACVerifier {
	return &HMACVerifier{secret: secret}
}

func (v *HMACVerifier) Verify(tokenStr string) (Identity, error) {
	claims, err := ParseUserToken(tokenStr, v.secret)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: userID, Email: claims.Email, Name: claims.Name}, nil
}
