package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticResolver(t *testing.T) {
	r := NewStatic(map[string]string{"token-1": "u1"})

	userID, err := r.ResolveUser(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = r.ResolveUser(context.Background(), "wrong")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHTTPResolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"userId":"u42"}`))
	}))
	defer srv.Close()

	r := NewHTTP(srv.URL, time.Second)

	userID, err := r.ResolveUser(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u42", userID)

	_, err = r.ResolveUser(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHTTPResolverEmptyUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	r := NewHTTP(srv.URL, time.Second)
	_, err := r.ResolveUser(context.Background(), "whatever")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHTTPResolverNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	r := NewHTTP(srv.URL, time.Second)
	_, err := r.ResolveUser(context.Background(), "token")
	assert.Error(t, err)
}
