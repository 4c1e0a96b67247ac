package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/daydash-app/daydash/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Session authenticates against the row service and resolves the current
// user id from the access token. It implements UserResolver and provides the
// TokenSource for the table client. Safe for concurrent use.
type Session struct {
	baseURL string
	http    *http.Client
	store   TokenStore

	mu     sync.RWMutex
	token  string
	userID string
}

// tokenClaims mirrors the claims the server signs into access tokens. The
// client only reads them (unverified); the server is the source of truth.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string
}

func NewSession(baseURL string, store TokenStore) *Session {
	s := &Session{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		store:   store,
	}
	// pick up a token persisted by a previous run, if any
	if token, err := store.Load(); err == nil && token != "" {
		s.adopt(token)
	}
	return s
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Register creates an account on the server. It does not log in.
func (s *Session) Register(ctx context.Context, username, password string) error {
	_, err := s.postAuth(ctx, "/v1/auth/register", credentials{Username: username, Password: password})
	return err
}

// Login authenticates, stores the access token, and resolves the user id
// from its claims.
func (s *Session) Login(ctx context.Context, username, password string) error {
	resp, err := s.postAuth(ctx, "/v1/auth/login", credentials{Username: username, Password: password})
	if err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return fmt.Errorf("login: empty token in response")
	}
	if !s.adopt(resp.AccessToken) {
		return common.ErrInvalidToken
	}
	return s.store.Save(resp.AccessToken)
}

// Logout drops the in-memory session and the persisted token.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.userID = ""
	s.mu.Unlock()
	return s.store.Clear()
}

// Token implements TokenSource.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", common.ErrAuthRequired
	}
	return s.token, nil
}

// UserID implements UserResolver. Returns ErrAuthRequired when no session is
// established.
func (s *Session) UserID(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userID == "" {
		return "", common.ErrAuthRequired
	}
	return s.userID, nil
}

// adopt installs a token after extracting the user id from its claims.
// The signature is not verified here: the server rejects tampered tokens,
// the client only needs the identity for request shaping.
func (s *Session) adopt(token string) bool {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.UserID == "" {
		return false
	}
	s.mu.Lock()
	s.token = token
	s.userID = claims.UserID
	s.mu.Unlock()
	return true
}

func (s *Session) postAuth(ctx context.Context, endpoint string, creds credentials) (*tokenResponse, error) {
	payload, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	return &tr, nil
}
