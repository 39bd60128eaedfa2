package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/medicity-console/internal/domain"
)

func TestAuthenticateSendsBackendPayload(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"access_token":"a.b.c"}`))
	}))
	defer srv.Close()

	token, err := NewAuthClient(srv.URL+"/auth/login", time.Second).Authenticate(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, "a.b.c", token)
	assert.Equal(t, map[string]string{"correo": "a@b.com", "password": "pw"}, got)
}

func TestAuthenticateNonSuccessIsInvalidCredentials(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := NewAuthClient(srv.URL, time.Second).Authenticate(context.Background(), "a@b.com", "pw")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "status %d", status)
		srv.Close()
	}
}

func TestAuthenticateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewAuthClient(url, time.Second).Authenticate(context.Background(), "a@b.com", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticateBadBodies(t *testing.T) {
	tests := map[string]string{
		"not json":    `<html>`,
		"no token":    `{"message":"ok"}`,
		"empty token": `{"access_token":""}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewAuthClient(srv.URL, time.Second).Authenticate(context.Background(), "a@b.com", "pw")
			require.Error(t, err)
			assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}
