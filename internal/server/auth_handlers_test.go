package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	_, app := newTestServer(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "testuser",
				"email":    "test@example.com",
				"password": "SecurePass12!@",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate Username",
			body: map[string]string{
				"username": "testuser",
				"email":    "other@example.com",
				"password": "SecurePass12!@",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Weak Password",
			body: map[string]string{
				"username": "another",
				"email":    "another@example.com",
				"password": "short",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Bad Email",
			body: map[string]string{
				"username": "another",
				"email":    "not-an-email",
				"password": "SecurePass12!@",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing Fields",
			body:           map[string]string{"username": "x"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", tt.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestRegister_ResponseShape(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "shopper",
		"email":    "shopper@example.com",
		"password": "SecurePass12!@",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.NotZero(t, body["userId"])
}

func TestLogin_ByUsernameOrEmail(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "alice", "alice@example.com")

	for _, identifier := range []string{"alice", "alice@example.com"} {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"identifier": identifier,
			"password":   "SecurePass12!@",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, identifier)

		body := decodeBody[map[string]any](t, resp)
		assert.NotEmpty(t, body["token"])
		assert.Equal(t, "alice", body["username"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "alice", user["username"])
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "alice", "alice@example.com")

	tests := []struct {
		name string
		body map[string]string
	}{
		{"Wrong Password", map[string]string{"identifier": "alice", "password": "WrongPass12!@"}},
		{"Unknown User", map[string]string{"identifier": "nobody", "password": "SecurePass12!@"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", tt.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestAuthRequired(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createTestUser(t, s, "alice", "alice@example.com")

	t.Run("No Token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", "garbage", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Valid Token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Wrong Secret Rejected", func(t *testing.T) {
		otherCfg := *s.config
		otherCfg.JWTSecret = "different_secret"
		other := &Server{config: &otherCfg}
		bad, err := other.generateToken(1, "alice")
		require.NoError(t, err)

		resp := doJSON(t, app, http.MethodGet, "/api/users/me", bad, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
