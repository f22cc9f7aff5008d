package handlers

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/harshaaa-5/aivy-1/config"
	"github.com/harshaaa-5/aivy-1/internal/auth"
	"github.com/harshaaa-5/aivy-1/internal/dto"
	"github.com/harshaaa-5/aivy-1/internal/models"
	"github.com/harshaaa-5/aivy-1/internal/repository"
	"github.com/harshaaa-5/aivy-1/pkg/log"
)

// SignupHandler registers a new user and returns a token pair.
func SignupHandler(users *repository.UserRepository, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SignupRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid signup payload")
			return
		}

		if _, err := users.FindByEmail(req.Email); err == nil {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}

		user := models.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: string(hash),
		}
		if err := users.Create(&user); err != nil {
			log.Logger.Error().Err(err).Msg("user create failed")
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}

		pair, err := issueTokens(user, cfg)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"user":   userResponse(&user),
			"tokens": pair,
		})
	}
}

// LoginHandler verifies the password and returns a token pair.
func LoginHandler(users *repository.UserRepository, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid login payload")
			return
		}

		user, err := users.FindByEmail(req.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		pair, err := issueTokens(*user, cfg)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user":   userResponse(user),
			"tokens": pair,
		})
	}
}

// RefreshHandler exchanges a valid refresh token for a new pair.
func RefreshHandler(users *repository.UserRepository, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.RefreshRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid refresh payload")
			return
		}

		claims, err := auth.ParseUserRefreshToken(req.RefreshToken, []byte(cfg.JWTSecret))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}

		user, err := users.FindByEmail(claims.Email)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		pair, err := issueTokens(*user, cfg)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"tokens": pair})
	}
}

// MeHandler returns the authenticated user's profile.
func MeHandler(users *repository.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		user, err := users.FindByID(userID)
		if err != nil {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeJSON(w, http.StatusOK, userResponse(user))
	}
}

func issueTokens(user models.User, cfg config.Config) (dto.TokenPair, error) {
	secret := []byte(cfg.JWTSecret)
	access, err := auth.GenerateUserToken(user, secret, cfg.UserTokenTTL)
	if err != nil {
		return dto.TokenPair{}, err
	}
	refresh, err := auth.GenerateUserRefreshToken(user, secret, cfg.UserRefreshTokenTTL)
	if err != nil {
		return dto.TokenPair{}, err
	}
	return dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
