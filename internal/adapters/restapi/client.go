package restapi

// Package restapi implements the backend REST contract: login, token
// validation, logout, and the bulk notice fetch. All requests go through the
// single configured base address.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/campuskit/campus-client/internal/errors"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	domainnotice "github.com/campuskit/campus-client/internal/domain/notice"
	"github.com/campuskit/campus-client/internal/ports"
)

const maxResponseBodyBytes = 1 << 20 // cap decoded bodies at 1MB

// Options configures the REST client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration // defaults to 15s
	HTTPClient *http.Client  // optional, overrides Timeout when set
	Logger     *slog.Logger
}

// Client talks to the campus backend over HTTPS.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient constructs a REST client for the configured backend.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, apperrors.ValidationField("base_url", "backend base URL is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		logger:  logger.With("component", "restapi"),
	}, nil
}

type loginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type userPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

// Login exchanges credentials for a bearer token. Classification:
// transport failure -> network_unavailable, 401/403 -> invalid_credentials
// (uniform message), 5xx or undecodable body -> server_error.
func (c *Client) Login(ctx context.Context, userID, password string) (ports.Credentials, error) {
	body, err := json.Marshal(loginRequest{UserID: userID, Password: password})
	if err != nil {
		return ports.Credentials{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal login request")
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", bytes.NewReader(body))
	if err != nil {
		return ports.Credentials{}, err
	}
	defer closeBody(resp, c.logger)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ports.Credentials{}, apperrors.InvalidCredentials()
	case resp.StatusCode != http.StatusOK:
		return ports.Credentials{}, apperrors.Serverf("login failed with status %d", resp.StatusCode)
	}

	var decoded loginResponse
	if err := decodeJSON(resp.Body, &decoded); err != nil {
		return ports.Credentials{}, apperrors.Wrap(err, apperrors.ErrCodeServer, "malformed login response")
	}
	if decoded.Token == "" {
		return ports.Credentials{}, apperrors.Server("login response missing token")
	}
	user, err := decodeUser(decoded.User)
	if err != nil {
		return ports.Credentials{}, apperrors.Wrap(err, apperrors.ErrCodeServer, "malformed login response")
	}
	return ports.Credentials{Token: decoded.Token, User: user}, nil
}

// Validate checks a stored token against the backend session endpoint.
// A definitive rejection maps to session_validation; transport failures keep
// their network_unavailable classification so callers can distinguish
// "revoked" from "unreachable".
func (c *Client) Validate(ctx context.Context, token string) (domainauth.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/auth/session", token, nil)
	if err != nil {
		return domainauth.User{}, err
	}
	defer closeBody(resp, c.logger)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domainauth.User{}, apperrors.SessionValidation("stored session is no longer valid")
	case resp.StatusCode != http.StatusOK:
		return domainauth.User{}, apperrors.Serverf("session validation failed with status %d", resp.StatusCode)
	}

	var decoded userPayload
	if err := decodeJSON(resp.Body, &decoded); err != nil {
		return domainauth.User{}, apperrors.Wrap(err, apperrors.ErrCodeServer, "malformed session response")
	}
	return decodeUser(decoded)
}

// Logout asks the backend to invalidate the token. Best effort; errors are
// returned for logging but never block the local sign-out.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil)
	if err != nil {
		return err
	}
	defer closeBody(resp, c.logger)
	if resp.StatusCode >= http.StatusInternalServerError {
		return apperrors.Serverf("logout failed with status %d", resp.StatusCode)
	}
	return nil
}

type noticePayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Target      string    `json:"target"`
	SpecificIDs []string  `json:"specificIds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FetchNotices retrieves the notice backlog for the session. Entries with an
// unknown target are dropped with a log line; ids and timestamps the server
// omitted are derived so the dedup invariant holds across fetch and push.
func (c *Client) FetchNotices(ctx context.Context, token string) ([]domainnotice.Notice, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/notices", token, nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp, c.logger)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, apperrors.SessionValidation("stored session is no longer valid")
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.Serverf("fetch notices failed with status %d", resp.StatusCode)
	}

	var decoded []noticePayload
	if err := decodeJSON(resp.Body, &decoded); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeServer, "malformed notices response")
	}

	receivedAt := time.Now()
	notices := make([]domainnotice.Notice, 0, len(decoded))
	for _, p := range decoded {
		n, err := DecodeNotice(p.ID, p.Title, p.Message, p.Target, p.SpecificIDs, p.CreatedAt, receivedAt)
		if err != nil {
			c.logger.Warn("dropping notice with invalid payload", "id", p.ID, "error", err)
			continue
		}
		notices = append(notices, n)
	}
	return notices, nil
}

// DecodeNotice converts wire fields into a normalized domain notice. Shared
// with the push adapters so both sources produce identical entries.
func DecodeNotice(id, title, message, target string, specificIDs []string, createdAt, receivedAt time.Time) (domainnotice.Notice, error) {
	tgt, err := domainnotice.ParseTarget(target)
	if err != nil {
		return domainnotice.Notice{}, err
	}
	n := domainnotice.Notice{
		ID:          id,
		Title:       title,
		Message:     message,
		Target:      tgt,
		SpecificIDs: specificIDs,
		CreatedAt:   createdAt,
	}
	return n.Normalize(receivedAt), nil
}

func decodeUser(p userPayload) (domainauth.User, error) {
	if p.ID == "" {
		return domainauth.User{}, fmt.Errorf("user payload missing id")
	}
	role, err := domainauth.ParseRole(p.Role)
	if err != nil {
		return domainauth.User{}, err
	}
	return domainauth.User{ID: p.ID, Name: p.Name, Role: role}, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNetworkUnavailable, "backend unreachable")
	}
	return resp, nil
}

func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(io.LimitReader(r, maxResponseBodyBytes)).Decode(v)
}

func closeBody(resp *http.Response, logger *slog.Logger) {
	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodyBytes)); err != nil {
		logger.Debug("drain response body", "error", err)
	}
	if err := resp.Body.Close(); err != nil {
		logger.Debug("close response body", "error", err)
	}
}

var (
	_ ports.AuthAPI       = (*Client)(nil)
	_ ports.NoticeFetcher = (*Client)(nil)
)
