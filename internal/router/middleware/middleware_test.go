package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	maker := NewJWTMaker(secret)
	token, issued, err := maker.CreateToken("desk-1", time.Minute)
	require.NoError(t, err)

	claims, err := maker.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "desk-1", claims.Client)
	assert.Equal(t, issued.ID, claims.ID)
	_, err = uuid.Parse(claims.ID)
	assert.NoError(t, err)
}

func TestVerifyTokenRejects(t *testing.T) {
	maker := NewJWTMaker(secret)

	expired, _, err := maker.CreateToken("desk-1", -time.Minute)
	require.NoError(t, err)
	_, err = maker.VerifyToken(expired)
	assert.Error(t, err)

	foreign, _, err := NewJWTMaker("another-secret-another-secret-xx").CreateToken("desk-1", time.Minute)
	require.NoError(t, err)
	_, err = maker.VerifyToken(foreign)
	assert.Error(t, err)

	_, err = maker.VerifyToken("not.a.token")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	maker := NewJWTMaker(secret)
	var seen *ClientClaims
	handler := AuthMiddleware(maker)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
	assert.Nil(t, seen)

	token, _, err := maker.CreateToken("desk-2", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "desk-2", seen.Client)
}
