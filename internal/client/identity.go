package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/competa-arena/contest-service/internal/config"
)

// Identity is the authenticated user returned by the identity service.
// It lives for the duration of a single request and is never persisted.
type Identity struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// ErrTokenRejected is returned when the identity service answers with a
// non-success status for the presented token.
var ErrTokenRejected = errors.New("identity service rejected token")

// TokenValidator validates a bearer token against the identity service.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*Identity, error)
}

// IdentityClient calls the remote identity service's validate-token
// endpoint. Every call is bounded by the configured upstream timeout;
// there are no retries.
type IdentityClient struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewIdentityClient creates an IdentityClient from configuration.
func NewIdentityClient(cfg *config.Config, log zerolog.Logger) *IdentityClient {
	return &IdentityClient{
		baseURL: cfg.UserServiceURL,
		httpc:   &http.Client{Timeout: cfg.UpstreamTimeout},
		log:     log.With().Str("component", "identity_client").Logger(),
	}
}

// Validate forwards the token as a bearer credential and decodes the
// {userId, role} response body.
func (c *IdentityClient) Validate(ctx context.Context, token string) (*Identity, error) {
	url := c.baseURL + "/api/token/validate-token"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build validate request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call identity service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		c.log.Warn().Int("status", res.StatusCode).Msg("Token rejected by identity service")
		return nil, fmt.Errorf("%w: status %d", ErrTokenRejected, res.StatusCode)
	}

	var identity Identity
	if err := json.NewDecoder(res.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	if identity.UserID == "" {
		return nil, fmt.Errorf("%w: empty response body", ErrTokenRejected)
	}

	return &identity, nil
}
