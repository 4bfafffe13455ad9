package handlers_test

import (
	"CaseNotes/internal/model"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func strptr(s string) *string { return &s }

func TestHandlers_Register(t *testing.T) {
	env := newHandlersTestEnv(t)
	env.Users.On("GetByEmail", mock.Anything, "amina@example.org").Return(nil, gorm.ErrRecordNotFound)
	env.Users.On("Upsert", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil, nil)

	body := bytes.NewBufferString(`{"email":"amina@example.org","password":"secret1","firstName":"Amina","lastName":"Hassan"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var u map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&u))
	assert.Equal(t, "amina@example.org", u["email"])
	assert.Equal(t, "caseworker", u["role"])
	// хэш пароля не попадает в ответ
	_, leaked := u["passwordHash"]
	assert.False(t, leaked)

	// сессия открывается сразу после регистрации
	var gotCookie bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == "auth_token" && c.Value != "" {
			gotCookie = true
		}
	}
	assert.True(t, gotCookie)
}

func TestHandlers_Register_DuplicateEmail(t *testing.T) {
	env := newHandlersTestEnv(t)
	env.Users.On("GetByEmail", mock.Anything, "taken@example.org").
		Return(&model.User{ID: "cw-1"}, nil)

	body := bytes.NewBufferString(`{"email":"taken@example.org","password":"secret1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestHandlers_Register_Validation(t *testing.T) {
	env := newHandlersTestEnv(t)

	body := bytes.NewBufferString(`{"email":"","password":"123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "invalid data", resp.Message)
	assert.Len(t, resp.Errors, 2)
}

func TestHandlers_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{ID: "cw-1", Email: strptr("amina@example.org"), PasswordHash: hash}

	t.Run("success sets cookie", func(t *testing.T) {
		env := newHandlersTestEnv(t)
		env.Users.On("GetByEmail", mock.Anything, "amina@example.org").Return(stored, nil)
		env.Users.On("Upsert", mock.Anything, stored).Return(stored, nil)

		body := bytes.NewBufferString(`{"email":"amina@example.org","password":"secret1"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
		rr := httptest.NewRecorder()
		env.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var gotCookie bool
		for _, c := range rr.Result().Cookies() {
			if c.Name == "auth_token" && c.Value != "" {
				gotCookie = true
			}
		}
		assert.True(t, gotCookie)
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newHandlersTestEnv(t)
		env.Users.On("GetByEmail", mock.Anything, "amina@example.org").Return(stored, nil)

		body := bytes.NewBufferString(`{"email":"amina@example.org","password":"wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
		rr := httptest.NewRecorder()
		env.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestHandlers_Logout_ClearsCookie(t *testing.T) {
	env := newHandlersTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	addAuth(t, req, "cw-1", env.Cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	var cleared bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == "auth_token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestHandlers_CurrentUser(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		env := newHandlersTestEnv(t)
		env.Users.On("GetByID", mock.Anything, "cw-1").
			Return(&model.User{ID: "cw-1", FirstName: "Amina", LastName: "Hassan"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		addAuth(t, req, "cw-1", env.Cfg.AuthSecret)
		rr := httptest.NewRecorder()
		env.Router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var u map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&u))
		assert.Equal(t, "Amina", u["firstName"])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		env := newHandlersTestEnv(t)
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		rr := httptest.NewRecorder()
		env.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
