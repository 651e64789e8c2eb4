// Package azure holds REST clients for the Azure translator and text-to-speech services.
package azure

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotConfigured is returned when the client has no credentials
var ErrNotConfigured = errors.New("azure: credentials not configured")

// StatusError reports a non-success response from an Azure endpoint
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("azure %s: unexpected status %d: %s", e.Service, e.StatusCode, e.Body)
}

func statusError(service string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Service: service, StatusCode: resp.StatusCode, Body: string(body)}
}
