package akhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error type identifiers carried by APIError.
const (
	ErrorTypeConfiguration   = "Configuration"
	ErrorTypeServiceNotFound = "ServiceNotFound"
	ErrorTypeAuthentication  = "Authentication"
	ErrorTypeAPI             = "API"
)

// CodeAuthenticationError is the fixed code carried by authentication
// failures.
const CodeAuthenticationError = "AUTHENTICATION_ERROR"

// ConfigurationError reports an invalid client configuration at
// construction time.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("akhttp: invalid configuration: %s", e.Message)
}

// ServiceNotFoundError is returned when a request names a service that is
// not registered. It never reaches the transport, the retry machinery or
// the request error handler.
type ServiceNotFoundError struct {
	Service string
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("Service '%s' not found", e.Service)
}

// APIError is the normalized error shape exposed to callers for every
// terminal request failure that carried usable response context.
type APIError struct {
	Type    string
	Message string
	Status  int
	Code    string
	Context string
	Cause   error
}

// Error implements error interface.
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *APIError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*APIError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// AuthenticationError is the distinguished failure produced by a 401
// response after the sign-out handler has run. Status is always 401 and
// Code is always CodeAuthenticationError.
type AuthenticationError struct {
	APIError
}

// NewAuthenticationError builds an AuthenticationError with the fixed
// status and code.
func NewAuthenticationError(message string, cause error) *AuthenticationError {
	if message == "" {
		message = "authentication required"
	}
	return &AuthenticationError{APIError{
		Type:    ErrorTypeAuthentication,
		Message: message,
		Status:  401,
		Code:    CodeAuthenticationError,
		Cause:   cause,
	}}
}

// AsAPIError extracts an *APIError from an error chain. Authentication
// errors match too, since they embed APIError.
func AsAPIError(err error) (*APIError, bool) {
	var ae *AuthenticationError
	if errors.As(err, &ae) {
		return &ae.APIError, true
	}
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsAuthenticationError reports whether err is (or wraps) an
// AuthenticationError.
func IsAuthenticationError(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}

// IsServiceNotFound reports whether err is a ServiceNotFoundError.
func IsServiceNotFound(err error) bool {
	var se *ServiceNotFoundError
	return errors.As(err, &se)
}

// serverErrorBody matches the error payload shape most backends return.
// Both "message" and "error" spellings are accepted for the message field.
type serverErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// errorContext is the diagnostic bundle serialized into APIError.Context.
type errorContext struct {
	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`
	Service  string `json:"service"`
	URL      string `json:"url,omitempty"`
	Body     string `json:"body,omitempty"`
}

const maxContextBodyBytes = 2048

// normalizeError converts a transport failure into an APIError. The server
// body's message/code fields win over the transport's own message when
// present.
func normalizeError(terr *TransportError, endpoint, method, service string) *APIError {
	out := &APIError{
		Type:    ErrorTypeAPI,
		Message: "request failed",
		Cause:   terr,
	}

	if terr != nil {
		out.Status = terr.Status
		if terr.Cause != nil {
			out.Message = terr.Cause.Error()
		} else if terr.Status > 0 {
			out.Message = fmt.Sprintf("server responded with status %d", terr.Status)
		}
		out.Code = terr.Code
	}

	var bodyExcerpt string
	if terr != nil && len(terr.Body) > 0 {
		var sb serverErrorBody
		if err := json.Unmarshal(terr.Body, &sb); err == nil {
			if m := strings.TrimSpace(sb.Message); m != "" {
				out.Message = m
			} else if m := strings.TrimSpace(sb.Error); m != "" {
				out.Message = m
			}
			if c := strings.TrimSpace(sb.Code); c != "" {
				out.Code = c
			}
		}
		bodyExcerpt = string(terr.Body)
		if len(bodyExcerpt) > maxContextBodyBytes {
			bodyExcerpt = bodyExcerpt[:maxContextBodyBytes]
		}
	}

	cctx := errorContext{
		Endpoint: endpoint,
		Method:   method,
		Service:  service,
		Body:     bodyExcerpt,
	}
	if terr != nil && terr.Request != nil {
		cctx.URL = terr.Request.URL
	}
	if raw, err := json.Marshal(cctx); err == nil {
		out.Context = string(raw)
	}

	return out
}
