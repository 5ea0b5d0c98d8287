package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/storeapi/backend/internal/db"
	"github.com/storeapi/backend/internal/logger"
	"github.com/storeapi/backend/internal/model"
	"github.com/storeapi/backend/internal/password"
	"github.com/storeapi/backend/internal/service"
	"github.com/storeapi/backend/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func (m *memUsers) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) CreateUser(ctx context.Context, username, email, passwordHash string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return nil, db.ErrDuplicateEmail
	}
	u := &model.User{ID: int64(len(m.users) + 1), Username: username, Email: email, PasswordHash: passwordHash}
	m.users[email] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) ConfirmUser(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return db.ErrNotFound
	}
	u.Confirmed = true
	return nil
}

type testServer struct {
	router *gin.Engine
	tokens *token.Manager
}

func newTestServer(t *testing.T, publicBaseURL string) *testServer {
	t.Helper()
	tokens := token.NewManager("test-secret", 30*time.Minute, 24*time.Hour)
	auth := service.NewAuthService(
		&memUsers{users: map[string]*model.User{}},
		password.NewHasher(bcrypt.MinCost),
		tokens,
		logger.NewNop(),
	)
	router := NewRouter(RouterConfig{
		Auth:          auth,
		Posts:         &fakePostService{},
		Logger:        logger.NewNop(),
		PublicBaseURL: publicBaseURL,
	})
	return &testServer{router: router, tokens: tokens}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, username, email, pass string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": username, "email": email, "password": pass})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *testServer) login(email, pass string) *httptest.ResponseRecorder {
	form := url.Values{"username": {email}, "password": {pass}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *testServer) get(path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return s.do(req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestRegisterConfirmLoginFlow(t *testing.T) {
	s := newTestServer(t, "")

	w := s.register(t, "mark", "test@example.net", "1234")
	require.Equal(t, http.StatusCreated, w.Code)
	reg := decode[model.RegisterResponse](t, w)
	assert.True(t, strings.HasPrefix(reg.ConfirmationURL, "http://example.com/confirm/"), reg.ConfirmationURL)

	w = s.login("test@example.net", "1234")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "User is not confirmed", decode[model.ErrorResponse](t, w).Detail)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	confirmPath := strings.TrimPrefix(reg.ConfirmationURL, "http://example.com")
	w = s.get(confirmPath, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User confirmed successfully", decode[model.DetailResponse](t, w).Detail)

	w = s.login("test@example.net", "1234")
	require.Equal(t, http.StatusOK, w.Code)
	tok := decode[model.TokenResponse](t, w)
	assert.Equal(t, "bearer", tok.TokenType)

	w = s.get("/me", tok.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[model.UserResponse](t, w)
	assert.Equal(t, "mark", me.Username)
	assert.True(t, me.Confirmed)
}

func TestRegister_PublicBaseURL(t *testing.T) {
	s := newTestServer(t, "https://api.example.org")

	w := s.register(t, "mark", "test@example.net", "1234")
	require.Equal(t, http.StatusCreated, w.Code)
	reg := decode[model.RegisterResponse](t, w)
	assert.True(t, strings.HasPrefix(reg.ConfirmationURL, "https://api.example.org/confirm/"))
}

func TestRegister_Errors(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusCreated, s.register(t, "mark", "test@example.net", "1234").Code)

	w := s.register(t, "other", "test@example.net", "1234")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", decode[model.ErrorResponse](t, w).Detail)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"username":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w = s.do(req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestToken_SameDetailForWrongPasswordAndUnknownEmail(t *testing.T) {
	s := newTestServer(t, "")
	w := s.register(t, "mark", "test@example.net", "1234")
	require.Equal(t, http.StatusCreated, w.Code)

	wrong := s.login("test@example.net", "nope")
	unknown := s.login("nonexist@example.net", "1234")

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, "Incorrect email or password", decode[model.ErrorResponse](t, wrong).Detail)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestConfirm_TokenErrors(t *testing.T) {
	s := newTestServer(t, "")
	require.Equal(t, http.StatusCreated, s.register(t, "mark", "test@example.net", "1234").Code)

	access, err := s.tokens.Issue("test@example.net", token.KindAccess)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		detail string
	}{
		{name: "garbage", token: "abc", detail: "Invalid token"},
		{name: "access token", token: access, detail: "Token has incorrect type, expected 'confirmation'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.get("/confirm/"+tt.token, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.detail, decode[model.ErrorResponse](t, w).Detail)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestMe_BearerErrors(t *testing.T) {
	s := newTestServer(t, "")
	w := s.register(t, "mark", "test@example.net", "1234")
	require.Equal(t, http.StatusCreated, w.Code)
	reg := decode[model.RegisterResponse](t, w)
	confirmation := reg.ConfirmationURL[strings.LastIndex(reg.ConfirmationURL, "/")+1:]

	expired := token.NewManager("test-secret", time.Minute, time.Minute,
		token.WithClock(func() time.Time { return time.Now().Add(-time.Hour) }))
	old, err := expired.Issue("test@example.net", token.KindAccess)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		detail string
	}{
		{name: "missing header", header: "", detail: "Not authenticated"},
		{name: "wrong scheme", header: "Basic abc", detail: "Not authenticated"},
		{name: "garbage", header: "Bearer abc", detail: "Invalid token"},
		{name: "confirmation token", header: "Bearer " + confirmation, detail: "Token has incorrect type, expected 'access'"},
		{name: "expired", header: "Bearer " + old, detail: "Token has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := s.do(req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.detail, decode[model.ErrorResponse](t, w).Detail)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		})
	}
}

type failingAuth struct{ err error }

func (f failingAuth) Register(ctx context.Context, username, email, password string) (string, error) {
	return "", f.err
}

func (f failingAuth) Login(ctx context.Context, email, password string) (string, error) {
	return "", f.err
}

func (f failingAuth) Confirm(ctx context.Context, confirmationToken string) error {
	return f.err
}

func (f failingAuth) ResolveCurrentUser(ctx context.Context, bearer string) (*model.User, error) {
	return nil, f.err
}

func TestInternalErrorsAreHidden(t *testing.T) {
	router := NewRouter(RouterConfig{
		Auth:   failingAuth{err: errors.New("pq: connection refused to 10.0.0.1")},
		Posts:  &fakePostService{},
		Logger: logger.NewNop(),
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/confirm/abc", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Internal server error"}`, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer abc")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestRegister_ForwardedProtoIsWhitelisted(t *testing.T) {
	tests := []struct {
		proto string
		want  string
	}{
		{proto: "https", want: "https://example.com/confirm/"},
		{proto: "HTTPS, http", want: "https://example.com/confirm/"},
		{proto: "javascript", want: "http://example.com/confirm/"},
		{proto: "ftp", want: "http://example.com/confirm/"},
	}

	for _, tt := range tests {
		t.Run(tt.proto, func(t *testing.T) {
			s := newTestServer(t, "")
			req := httptest.NewRequest(http.MethodPost, "/register",
				strings.NewReader(`{"username":"mark","email":"test@example.net","password":"1234"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Forwarded-Proto", tt.proto)

			w := s.do(req)
			require.Equal(t, http.StatusCreated, w.Code)
			reg := decode[model.RegisterResponse](t, w)
			assert.True(t, strings.HasPrefix(reg.ConfirmationURL, tt.want), reg.ConfirmationURL)
		})
	}
}
