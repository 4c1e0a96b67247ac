package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daydash-app/daydash/internal/common"
)

func signTestToken(t *testing.T, userID string) string {
	t.Helper()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: userID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newAuthServer(t *testing.T, userID string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/auth/register", "/v1/auth/login":
			var creds credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			if creds.Password != "good" {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(tokenResponse{AccessToken: signTestToken(t, userID)})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestSession_Login(t *testing.T) {
	srv := newAuthServer(t, "u-42")
	defer srv.Close()

	store := NewMemoryTokenStore()
	s := NewSession(srv.URL, store)
	ctx := context.Background()

	_, err := s.UserID(ctx)
	assert.ErrorIs(t, err, common.ErrAuthRequired)

	require.NoError(t, s.Login(ctx, "alice", "good"))

	userID, err := s.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-42", userID)

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// the token is persisted for the next run
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, token, saved)
}

func TestSession_LoginBadCredentials(t *testing.T) {
	srv := newAuthServer(t, "u-42")
	defer srv.Close()

	s := NewSession(srv.URL, NewMemoryTokenStore())
	err := s.Login(context.Background(), "alice", "bad")
	assert.ErrorIs(t, err, common.ErrAuthRequired)

	_, err = s.Token(context.Background())
	assert.ErrorIs(t, err, common.ErrAuthRequired)
}

func TestSession_RegisterDoesNotLogIn(t *testing.T) {
	srv := newAuthServer(t, "u-42")
	defer srv.Close()

	s := NewSession(srv.URL, NewMemoryTokenStore())
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "alice", "good"))
	_, err := s.UserID(ctx)
	assert.ErrorIs(t, err, common.ErrAuthRequired)
}

func TestSession_Logout(t *testing.T) {
	srv := newAuthServer(t, "u-42")
	defer srv.Close()

	store := NewMemoryTokenStore()
	s := NewSession(srv.URL, store)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "alice", "good"))
	require.NoError(t, s.Logout())

	_, err := s.UserID(ctx)
	assert.ErrorIs(t, err, common.ErrAuthRequired)
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestSession_AdoptsPersistedToken(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.Save(signTestToken(t, "u-7")))

	s := NewSession("http://unused", store)
	userID, err := s.UserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u-7", userID)
}

func TestSession_IgnoresGarbagePersistedToken(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.Save("not-a-jwt"))

	s := NewSession("http://unused", store)
	_, err := s.UserID(context.Background())
	assert.ErrorIs(t, err, common.ErrAuthRequired)
}

func TestMemoryTokenStore(t *testing.T) {
	s := NewMemoryTokenStore()

	v, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.Save("tok"))
	v, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", v)

	require.NoError(t, s.Clear())
	v, _ = s.Load()
	assert.Empty(t, v)
}
