// Package auth resolves bearer tokens to user identities. Token issuance is
// external; this package only verifies.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrInvalidToken indicates the token did not resolve to a user.
var ErrInvalidToken = errors.New("invalid token")

// Resolver resolves a bearer token to a user ID.
type Resolver interface {
	ResolveUser(ctx context.Context, token string) (string, error)
}

// Static resolves tokens from a fixed token-to-user map. Used in tests and
// single-user deployments.
type Static struct {
	tokens map[string]string
}

// NewStatic creates a static resolver over the given token→user map.
func NewStatic(tokens map[string]string) *Static {
	return &Static{tokens: tokens}
}

func (s *Static) ResolveUser(_ context.Context, token string) (string, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// HTTP verifies tokens against an external identity provider endpoint. The
// provider answers `{"userId": "..."}` for a valid token and a non-2xx
// status otherwise.
type HTTP struct {
	verifyURL string
	client    *http.Client
}

// NewHTTP creates an identity-provider resolver.
func NewHTTP(verifyURL string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTP{verifyURL: verifyURL, client: &http.Client{Timeout: timeout}}
}

func (h *HTTP) ResolveUser(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.verifyURL, nil)
	if err != nil {
		return "", fmt.Errorf("building verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("verifying token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrInvalidToken
	}

	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding verify response: %w", err)
	}
	if body.UserID == "" {
		return "", ErrInvalidToken
	}
	return body.UserID, nil
}
