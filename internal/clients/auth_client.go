package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spec-kit/medicity-console/internal/domain"
)

// ErrEmptyToken is returned when the backend accepts the credentials but sends
// no access token.
var ErrEmptyToken = errors.New("authentication response carried no access_token")

type loginRequest struct {
	Correo   string `json:"correo"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// AuthClient talks to the hospital backend's authentication endpoint.
type AuthClient struct {
	loginURL   string
	httpClient *http.Client
}

// NewAuthClient builds a client posting credentials to loginURL.
func NewAuthClient(loginURL string, timeout time.Duration) *AuthClient {
	return &AuthClient{
		loginURL:   loginURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Authenticate exchanges credentials for a bearer token. Every non-2xx answer
// is reported as domain.ErrInvalidCredentials; transport problems come back
// wrapped as they are.
func (c *AuthClient) Authenticate(ctx context.Context, identifier, secret string) (string, error) {
	body, err := json.Marshal(loginRequest{Correo: identifier, Password: secret})
	if err != nil {
		return "", fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", domain.ErrInvalidCredentials
	}

	var decoded loginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if decoded.AccessToken == "" {
		return "", ErrEmptyToken
	}
	return decoded.AccessToken, nil
}
