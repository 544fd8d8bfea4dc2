// Package api implements the client for the remote analysis service.
// It covers the three calls a test run needs: settings retrieval, the
// analysis request, and the report upload. Authentication uses a static
// bearer token through an oauth2 HTTP client.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

type Client struct {
	// BaseURL is the service root without a trailing slash.
	BaseURL string
	// DefaultOrg is used when a request doesn't carry an organization.
	DefaultOrg string
	httpClient *http.Client
}

// New creates a client for the service at baseURL. An empty token means
// unauthenticated access, which the service rejects for most calls.
func New(ctx context.Context, baseURL, token, defaultOrg string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		DefaultOrg: defaultOrg,
		httpClient: newHTTPClient(ctx, token),
	}
}

func newHTTPClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return http.DefaultClient
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	))
}

// ServiceError is the failure shape for service calls. It is constructed
// where the HTTP response is read, never reconstructed downstream.
type ServiceError struct {
	APIName    string
	StatusCode int
	StatusText string
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (%d %s)", e.APIName, e.Message, e.StatusCode, e.StatusText)
	}
	return fmt.Sprintf("%s: %d %s", e.APIName, e.StatusCode, e.StatusText)
}

// Unauthorized reports whether the service rejected the credentials.
func (e *ServiceError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func newServiceError(apiName string, resp *http.Response, message string) *ServiceError {
	return &ServiceError{
		APIName:    apiName,
		StatusCode: resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Message:    message,
	}
}
