// Package authclient is the client side of the account API: an HTTP client,
// a persisted session store, a session manager and a role guard for views.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-esg-platform/pkg/role"
)

// Profile is the public projection of an account as returned by the server.
type Profile struct {
	ID               string    `json:"id"`
	Name             string    `json:"name,omitempty"`
	Email            string    `json:"email"`
	Role             role.Role `json:"role"`
	OrganizationName string    `json:"organizationName,omitempty"`
	CompanyName      string    `json:"companyName,omitempty"`
	ContactPerson    string    `json:"contactPerson,omitempty"`
	Status           string    `json:"status,omitempty"`
}

// AuthPayload is the data of a login or signup response. Token is empty for
// accounts that wait for approval.
type AuthPayload struct {
	Token string  `json:"token,omitempty"`
	User  Profile `json:"user"`
}

type SignupInput struct {
	Name             string `json:"name,omitempty"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organizationName,omitempty"`
	CompanyName      string `json:"companyName,omitempty"`
	ContactPerson    string `json:"contactPerson,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a response with success=false.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     []FieldError
	Diagnostic string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Message)
		}
		return strings.Join(parts, ", ")
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Errors  []FieldError    `json:"errors"`
	Error   string          `json:"error"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ API = (*Client)(nil)

func (c *Client) Login(ctx context.Context, r role.Role, email string, password string) (AuthPayload, error) {
	var out AuthPayload
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/"+string(r)+"/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Signup(ctx context.Context, r role.Role, input SignupInput) (AuthPayload, error) {
	var out AuthPayload
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/"+string(r)+"/signup", "", input, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context, token string) (Profile, error) {
	var out Profile
	err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", token, nil, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout", token, nil, nil)
}

func (c *Client) ChangePassword(ctx context.Context, token string, current string, next string, confirm string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/change-password", token, map[string]string{
		"currentPassword":    current,
		"newPassword":        next,
		"confirmNewPassword": confirm,
	}, nil)
}

func (c *Client) DeleteAccount(ctx context.Context, token string, password string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/auth/delete-account", token, map[string]string{
		"password": password,
	}, nil)
}

func (c *Client) do(ctx context.Context, method string, path string, token string, body any, out any) error {
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected response (status %d)", resp.StatusCode)}
	}

	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       env.Code,
			Message:    env.Message,
			Fields:     env.Errors,
			Diagnostic: env.Error,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

// IsAPIError reports whether err came from the server rather than the network.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
