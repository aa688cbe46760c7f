// Package auth exchanges username/password credentials for a session token.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/plmtools/centric-cli/internal/cli/config"
	"github.com/plmtools/centric-cli/internal/cli/connection"
	"github.com/plmtools/centric-cli/internal/telemetry/logger"
)

// Error is a login call rejected by the server. It is fatal for the
// invocation: authentication itself is never retried.
type Error struct {
	StatusCode int
	Body       []byte
	Reason     string
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("authentication failed: %s", e.Reason)
	}
	return fmt.Sprintf("authentication failed with status %d: %s", e.StatusCode, e.Body)
}

// Service performs the single login call against the session endpoint.
type Service struct {
	client     *connection.HTTPClient
	creds      config.Credentials
	loginPath  string
	tokenField string
	log        logger.Logger
}

// New creates an authenticator. tokenField names the login response key
// carrying the token (the Centric contract uses "token").
func New(client *connection.HTTPClient, creds config.Credentials, loginPath, tokenField string) *Service {
	if tokenField == "" {
		tokenField = "token"
	}
	return &Service{
		client:     client,
		creds:      creds,
		loginPath:  loginPath,
		tokenField: tokenField,
		log:        logger.Default(),
	}
}

// Authenticate issues the login call and returns the extracted token.
func (s *Service) Authenticate(ctx context.Context) (string, error) {
	loginURL := connection.JoinURL(s.creds.BaseURL, s.loginPath)

	body, err := json.Marshal(map[string]string{
		"username": s.creds.Username,
		"password": s.creds.Password,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal login body")
	}

	s.log.Debug("authenticating", "url", loginURL, "username", s.creds.Username)

	env, err := s.client.Do(ctx, http.MethodPost, loginURL, body, "")
	if err != nil {
		return "", err
	}

	if env.StatusCode < 200 || env.StatusCode >= 300 {
		return "", &Error{StatusCode: env.StatusCode, Body: env.Body}
	}

	var payload map[string]any
	if err := json.Unmarshal(env.Body, &payload); err != nil {
		return "", &Error{StatusCode: env.StatusCode, Reason: "login response was not JSON"}
	}

	raw, _ := payload[s.tokenField].(string)
	token := NormalizeToken(raw)
	if token == "" {
		return "", &Error{StatusCode: env.StatusCode, Reason: fmt.Sprintf("login response is missing the %q field", s.tokenField)}
	}

	s.log.Debug("authentication succeeded")
	return token, nil
}

// NormalizeToken trims the token and, for cookie-style "key=value"
// responses, keeps only the part after the first "=".
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if _, value, found := strings.Cut(token, "="); found {
		token = value
	}
	return token
}
