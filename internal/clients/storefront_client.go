package clients

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

	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/models"
)

// ErrUnauthorized is wrapped by every 401 from the storefront backend
var ErrUnauthorized = errors.New("session expired")

// APIError is a non-2xx response from the storefront backend. Message is
// taken from the response body when the backend provides one.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// StorefrontClient handles communication with the storefront REST backend
type StorefrontClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewStorefrontClient creates a new storefront backend client
func NewStorefrontClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *StorefrontClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &StorefrontClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.WithField("component", "storefront_client"),
	}
}

// envelope is the optional {success, data, pagination} wrapper
type envelope struct {
	Success    *bool                  `json:"success"`
	Data       json.RawMessage        `json:"data"`
	Pagination *models.PaginationInfo `json:"pagination"`
}

func (c *StorefrontClient) do(ctx context.Context, token, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) (*models.PaginationInfo, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{"method": method, "path": path}).Warn("Storefront request failed")
		return nil, fmt.Errorf("storefront request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read storefront response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Message:    errorMessage(resp.StatusCode, respBody),
		}
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn(apiErr.Message)
		return nil, apiErr
	}

	return decodeBody(respBody, out)
}

// decodeBody unwraps the envelope when present and decodes data into out
func decodeBody(body []byte, out interface{}) (*models.PaginationInfo, error) {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && (env.Success != nil || env.Data != nil) {
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return env.Pagination, nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode storefront response: %w", err)
		}
		return env.Pagination, nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("failed to decode storefront response: %w", err)
	}
	return nil, nil
}

// errorMessage extracts the backend's message from an error body
func errorMessage(status int, body []byte) string {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(body, &parsed); err == nil {
		var msg string
		if raw, ok := parsed["message"]; ok && json.Unmarshal(raw, &msg) == nil && msg != "" {
			return msg
		}
		if raw, ok := parsed["error"]; ok {
			if json.Unmarshal(raw, &msg) == nil && msg != "" {
				return msg
			}
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(raw, &nested) == nil && nested.Message != "" {
				return nested.Message
			}
		}
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

func (c *StorefrontClient) get(ctx context.Context, token, path string, query url.Values, out interface{}) (*models.PaginationInfo, error) {
	return c.do(ctx, token, http.MethodGet, path, query, nil, "", out)
}

func (c *StorefrontClient) sendJSON(ctx context.Context, token, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	_, err := c.do(ctx, token, method, path, nil, body, contentType, out)
	return err
}

func (c *StorefrontClient) sendPayload(ctx context.Context, token, method, path string, payload *composer.Payload, out interface{}) error {
	body, contentType, err := payload.Encode()
	if err != nil {
		return err
	}
	_, err = c.do(ctx, token, method, path, nil, body, contentType, out)
	return err
}

// IsNotFound reports whether err is a 404 from the backend
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func pathID(id string) string {
	return url.PathEscape(id)
}
