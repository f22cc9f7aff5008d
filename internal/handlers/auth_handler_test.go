package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/harshaaa-5/aivy-1/config"
	"github.com/harshaaa-5/aivy-1/internal/middlewares"
	"github.com/harshaaa-5/aivy-1/internal/models"
	"github.com/harshaaa-5/aivy-1/internal/repository"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:           "handler-test-secret",
		UserTokenTTL:        time.Hour,
		UserRefreshTokenTTL: 24 * time.Hour,
	}
}

func newAuthRouter(t *testing.T) *mux.Router {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	users := repository.NewUserRepository(db)
	cfg := testConfig()

	r := mux.NewRouter()
	r.HandleFunc("/auth/signup", SignupHandler(users, cfg)).Methods("POST")
	r.HandleFunc("/auth/login", LoginHandler(users, cfg)).Methods("POST")
	r.HandleFunc("/auth/refresh", RefreshHandler(users, cfg)).Methods("POST")

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(middlewares.JWTAuthMiddleware([]byte(cfg.JWTSecret)))
	authed.HandleFunc("/users/me", MeHandler(users)).Methods("GET")

	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestSignupIssuesTokens(t *testing.T) {
	r := newAuthRouter(t)

	w := doJSON(t, r, "POST", "/auth/signup",
		`{"name":"Asha","email":"asha@test.dev","password":"s3cret-pass"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	tokens := body["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["accessToken"])
	assert.NotEmpty(t, tokens["refreshToken"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "asha@test.dev", user["email"])
	assert.NotContains(t, user, "passwordHash")
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	r := newAuthRouter(t)

	payload := `{"name":"A","email":"dup@test.dev","password":"s3cret-pass"}`
	require.Equal(t, http.StatusCreated, doJSON(t, r, "POST", "/auth/signup", payload, "").Code)

	w := doJSON(t, r, "POST", "/auth/signup", payload, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignupRejectsInvalidPayload(t *testing.T) {
	r := newAuthRouter(t)

	// Password too short for the validation rule.
	w := doJSON(t, r, "POST", "/auth/signup",
		`{"name":"A","email":"a@test.dev","password":"x"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, "POST", "/auth/signup", `{"name":"A","password":"s3cret-pass"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "email is required")
}

func TestLoginRoundTrip(t *testing.T) {
	r := newAuthRouter(t)

	require.Equal(t, http.StatusCreated, doJSON(t, r, "POST", "/auth/signup",
		`{"name":"Asha","email":"asha@test.dev","password":"s3cret-pass"}`, "").Code)

	w := doJSON(t, r, "POST", "/auth/login",
		`{"email":"asha@test.dev","password":"s3cret-pass"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	tokens := decodeBody(t, w)["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["accessToken"])
}

func TestLoginWrongPassword(t *testing.T) {
	r := newAuthRouter(t)

	require.Equal(t, http.StatusCreated, doJSON(t, r, "POST", "/auth/signup",
		`{"name":"Asha","email":"asha@test.dev","password":"s3cret-pass"}`, "").Code)

	w := doJSON(t, r, "POST", "/auth/login",
		`{"email":"asha@test.dev","password":"wrong-password"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	r := newAuthRouter(t)

	w := doJSON(t, r, "POST", "/auth/login",
		`{"email":"ghost@test.dev","password":"s3cret-pass"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRotatesTokens(t *testing.T) {
	r := newAuthRouter(t)

	w := doJSON(t, r, "POST", "/auth/signup",
		`{"name":"Asha","email":"asha@test.dev","password":"s3cret-pass"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	tokens := decodeBody(t, w)["tokens"].(map[string]interface{})
	refresh := tokens["refreshToken"].(string)

	w = doJSON(t, r, "POST", "/auth/refresh", `{"refreshToken":"`+refresh+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	fresh := decodeBody(t, w)["tokens"].(map[string]interface{})
	assert.NotEmpty(t, fresh["accessToken"])
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	r := newAuthRouter(t)

	w := doJSON(t, r, "POST", "/auth/signup",
		`{"name":"Asha","email":"asha@test.dev","password":"s3cret-pass"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	tokens := decodeBody(t, w)["tokens"].(map[string]interface{})
	access := tokens["accessToken"].(string)

	w = doJSON(t, r, "POST", "/auth/refresh", `{"refreshToken":"`+access+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code, "access tokens must not pass the refresh path")
}

func TestMeRequiresAuth(t *testing.T) {
	r := newAuthRouter(t)

	w := doJSON(t, r, "GET", "/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, "GET", "/users/me", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeReturnsProfile(t *testing.T) {
	r := newAuthRouter(t)

	w := doJSON(t, r, "POST", "/auth/signup",
		`{"name":"Asha","email":"asha@test.dev","password":"s3cret-pass"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	tokens := decodeBody(t, w)["tokens"].(map[string]interface{})
	access := tokens["accessToken"].(string)

	w = doJSON(t, r, "GET", "/users/me", "", access)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "asha@test.dev", body["email"])
	assert.Equal(t, "Asha", body["name"])
}
