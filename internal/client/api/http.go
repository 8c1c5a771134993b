package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/securevault/vaultctl/internal/common"
	"github.com/securevault/vaultctl/internal/logging"
)

// APIError carries the backend's error payload for non-2xx responses that
// are not authorization failures. Detail holds the server-supplied message
// when one was present.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Message extracts a user-presentable message from an error returned by this
// package, preferring the server-supplied detail.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if err != nil {
		return err.Error()
	}
	return "request failed"
}

// HTTPClient implements Client against the backend's REST endpoints.
//
// The token source and unauthorized hook are injected after construction:
// the session manager both supplies the bearer token and reacts to 401s,
// and it is built on top of this client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger

	tokenSource    func() string
	onUnauthorized func()
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// UseTokenSource registers the function that supplies the current bearer
// token for authenticated calls.
func (c *HTTPClient) UseTokenSource(fn func() string) {
	c.tokenSource = fn
}

// OnUnauthorized registers the hook fired whenever any request comes back
// with HTTP 401.
func (c *HTTPClient) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

type errorBody struct {
	Detail string `json:"detail"`
}

// do performs one request and decodes a JSON response into out (when out is
// non-nil). extraHeader may be nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, contentType string, body io.Reader, authenticated bool, extraHeader http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	for k, vs := range extraHeader {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if authenticated && c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// Forced logout is tied to bearer-token calls only. A 401 from an auth
	// endpoint means bad credentials, not an expired session, and carries a
	// detail message for the user.
	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		c.logger.Warn(ctx, "request unauthorized", "method", method, "path", path)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%s %s: %w", method, path, common.ErrorUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(resp.Body)
		if resp.StatusCode == http.StatusNotFound && detail == "" {
			return fmt.Errorf("%s %s: %w", method, path, common.ErrorNotFound)
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeDetail(r io.Reader) string {
	var eb errorBody
	if err := json.NewDecoder(r).Decode(&eb); err != nil {
		return ""
	}
	return eb.Detail
}

func (c *HTTPClient) postForm(ctx context.Context, path string, form url.Values, header http.Header, out any) error {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", body, false, header, out)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(buf), true, nil, out)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password, captchaToken string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	header := http.Header{}
	if captchaToken != "" {
		header.Set("X-Recaptcha-Token", captchaToken)
	}

	var resp tokenResponse
	if err := c.postForm(ctx, "/auth/login", form, header, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password, captchaToken string) error {
	form := url.Values{}
	form.Set("name", name)
	form.Set("email", email)
	form.Set("password", password)
	form.Set("recaptcha_token", captchaToken)
	return c.postForm(ctx, "/auth/register", form, nil, nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	form := url.Values{}
	form.Set("email", email)
	return c.postForm(ctx, "/auth/forgot-password", form, nil, nil)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, otp string) error {
	form := url.Values{}
	form.Set("email", email)
	form.Set("otp", otp)
	return c.postForm(ctx, "/auth/verify-otp", form, nil, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	form := url.Values{}
	form.Set("email", email)
	form.Set("otp", otp)
	form.Set("new_password", newPassword)
	return c.postForm(ctx, "/auth/reset-password", form, nil, nil)
}

func (c *HTTPClient) ListVault(ctx context.Context) ([]CategoryRecord, error) {
	var records []CategoryRecord
	if err := c.do(ctx, http.MethodGet, "/api/vault", "", nil, true, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

type fieldRequest struct {
	Category  string `json:"category"`
	FieldName string `json:"field_name"`
	Value     string `json:"value,omitempty"`
	NewValue  string `json:"new_value,omitempty"`
}

func (c *HTTPClient) DecryptField(ctx context.Context, category, fieldName string) (string, error) {
	var resp struct {
		Plaintext string `json:"plaintext"`
	}
	req := fieldRequest{Category: category, FieldName: fieldName}
	if err := c.doJSON(ctx, http.MethodPost, "/api/vault/decrypt", req, &resp); err != nil {
		return "", err
	}
	return resp.Plaintext, nil
}

func (c *HTTPClient) EncryptField(ctx context.Context, category, fieldName, value string) error {
	req := fieldRequest{Category: category, FieldName: fieldName, Value: value}
	return c.doJSON(ctx, http.MethodPost, "/api/vault/encrypt", req, nil)
}

func (c *HTTPClient) UpdateField(ctx context.Context, category, fieldName, newValue string) error {
	req := fieldRequest{Category: category, FieldName: fieldName, NewValue: newValue}
	return c.doJSON(ctx, http.MethodPut, "/api/vault/field", req, nil)
}

func (c *HTTPClient) DeleteField(ctx context.Context, category, fieldName string) error {
	req := fieldRequest{Category: category, FieldName: fieldName}
	return c.doJSON(ctx, http.MethodDelete, "/api/vault/field", req, nil)
}

func (c *HTTPClient) DeleteCategory(ctx context.Context, category string) error {
	return c.do(ctx, http.MethodDelete, "/api/vault/category/"+url.PathEscape(category), "", nil, true, nil, nil)
}

func (c *HTTPClient) ListUsersData(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/api/admin/users-data", "", nil, true, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", id), "", nil, true, nil, nil)
}
