package server

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"bazaar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMyProfile(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createTestUser(t, s, "alice", "alice@example.com")

	resp := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "alice", body["username"])
	// Password hash must never leak.
	_, leaked := body["password"]
	assert.False(t, leaked)
}

func TestUpdateMyProfile(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createTestUser(t, s, "alice", "alice@example.com")

	t.Run("Change Email", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/users/me", token, map[string]string{
			"email": "new@example.com",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		assert.Equal(t, "new@example.com", body["email"])
	})

	t.Run("Password Change Needs Current Password", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/users/me", token, map[string]string{
			"current_password": "WrongPass12!@",
			"new_password":     "AnotherPass12!@",
		})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Password Change", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/users/me", token, map[string]string{
			"current_password": "SecurePass12!@",
			"new_password":     "AnotherPass12!@",
		})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		// Old password no longer works.
		login := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"identifier": "alice",
			"password":   "SecurePass12!@",
		})
		defer func() { _ = login.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, login.StatusCode)

		login = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"identifier": "alice",
			"password":   "AnotherPass12!@",
		})
		defer func() { _ = login.Body.Close() }()
		assert.Equal(t, http.StatusOK, login.StatusCode)
	})
}

func TestGetUserProfile_Public(t *testing.T) {
	s, app := newTestServer(t)
	alice, _ := createTestUser(t, s, "alice", "alice@example.com")
	_, token := createTestUser(t, s, "bob", "bob@example.com")

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	profile := decodeBody[models.PublicProfile](t, resp)
	assert.Equal(t, "alice", profile.Username)
}

func TestSearchUsers(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "alice", "alice@example.com")
	createTestUser(t, s, "alicia", "alicia@example.com")
	createTestUser(t, s, "bob", "bob@example.com")

	t.Run("Case Insensitive Prefix", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/search?q=ALI", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		profiles := decodeBody[[]models.PublicProfile](t, resp)
		assert.Len(t, profiles, 2)
	})

	t.Run("Empty Query Rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/search", "", nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetUserAvatars(t *testing.T) {
	s, app := newTestServer(t)
	alice, token := createTestUser(t, s, "alice", "alice@example.com")
	bob, _ := createTestUser(t, s, "bob", "bob@example.com")

	alice.AvatarURL = "/uploads/avatars/a.png"
	require.NoError(t, s.db.Save(alice).Error)

	resp := doJSON(t, app, http.MethodPost, "/api/users/avatars", token, map[string]any{
		"user_ids": []uint{alice.ID, bob.ID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	avatars := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "/uploads/avatars/a.png", avatars[fmt.Sprint(alice.ID)])
	assert.Contains(t, avatars, fmt.Sprint(bob.ID))
}

func TestUploadAvatar(t *testing.T) {
	s, app := newTestServer(t)
	_, token := createTestUser(t, s, "alice", "alice@example.com")

	buildUpload := func(field, filename string, payload []byte) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(payload)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		return &buf, w.FormDataContentType()
	}

	t.Run("Success", func(t *testing.T) {
		body, contentType := buildUpload("avatar", "me.png", []byte("not-really-a-png"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload/avatar", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		result := decodeBody[map[string]string](t, resp)
		assert.Contains(t, result["avatar_url"], "/uploads/avatars/")

		// The avatar is persisted on the profile.
		me := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
		profile := decodeBody[map[string]any](t, me)
		assert.Equal(t, result["avatar_url"], profile["avatar_url"])
	})

	t.Run("Unsupported Extension", func(t *testing.T) {
		body, contentType := buildUpload("avatar", "script.exe", []byte("nope"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload/avatar", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing File", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/upload/avatar", token, nil)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
