package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenValidator struct {
	userID   string
	email    string
	username string
	err      error
}

func (s *stubTokenValidator) ValidateBearer(string) (string, string, string, error) {
	if s.err != nil {
		return "", "", "", s.err
	}
	return s.userID, s.email, s.username, nil
}

func authRouter(tokens TokenValidator) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	var captured uuid.UUID
	r := gin.New()
	r.GET("/me", RequireAuth(tokens), func(c *gin.Context) {
		id, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		captured = id
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()

	t.Run("valid token reaches the handler with the user id set", func(t *testing.T) {
		r, captured := authRouter(&stubTokenValidator{userID: userID.String(), email: "amelia@example.com", username: "amelia"})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer sometoken")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID, *captured)
	})

	t.Run("missing header", func(t *testing.T) {
		r, _ := authRouter(&stubTokenValidator{userID: userID.String()})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		r, _ := authRouter(&stubTokenValidator{userID: userID.String()})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		r, _ := authRouter(&stubTokenValidator{err: errors.New("token expired")})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer expired")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed subject", func(t *testing.T) {
		r, _ := authRouter(&stubTokenValidator{userID: "not-a-uuid"})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer sometoken")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetUserIDWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id, ok := GetUserID(c)
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)
}
