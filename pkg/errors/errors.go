// Package errors defines the error taxonomy of devicemap.
//
// Remote failures (IP Fabric, NetBox, the library remote) are APIError or
// ConnectivityError. Bad input is ValidationError, ConfigError or ParseError.
// Local failures are IOError, ProcessError and ResourceError. Callers classify
// with errors.Is against the sentinels, never by message text.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Aliases so callers need a single errors import.
var (
	New = errors.New
	As  = errors.As
	Is  = errors.Is
)

// Sentinels matched by the typed errors' Is methods.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnreachable        = errors.New("unreachable")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrRateLimited        = errors.New("rate limited")
)

// IsNotFound reports whether err is a missing vendor directory, file or record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAlreadyExists reports whether NetBox refused a create because the record exists.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// IsValidationError reports whether err is rejected input.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsUnreachable reports whether a remote system could not be contacted.
func IsUnreachable(err error) bool { return errors.Is(err, ErrUnreachable) }

// IsRateLimited reports whether a remote API throttled the request.
func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }

// APIError is a non-2xx answer from IP Fabric or NetBox. Message is the
// response body text, which NetBox uses for field validation details.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// NewAPIError returns an APIError for a response.
func NewAPIError(provider string, status int, message string) *APIError {
	return &APIError{Provider: provider, StatusCode: status, Message: message}
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Provider, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Is maps status codes onto sentinels.
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return target == ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return target == ErrServiceUnavailable
	}
	return false
}

// ConnectivityError is a startup probe failure against IP Fabric, NetBox or
// the library remote.
type ConnectivityError struct {
	System   string
	Endpoint string
	Err      error
}

// NewConnectivityError wraps err as a ConnectivityError.
func NewConnectivityError(system, endpoint string, err error) *ConnectivityError {
	return &ConnectivityError{System: system, Endpoint: endpoint, Err: err}
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach %s at %s: %v", e.System, e.Endpoint, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

func (e *ConnectivityError) Is(target error) bool { return target == ErrUnreachable }

// ValidationError rejects a value such as a threshold outside [0,1].
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid: " + e.Message
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// ConfigError reports configuration that cannot be loaded or is incomplete.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// NewConfigError returns a ConfigError for component.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ParseError reports a template or response that could not be decoded.
type ParseError struct {
	Format  string
	File    string
	Message string
	Err     error
}

// NewParseError returns a ParseError for file.
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("parsing %s: %s", e.Format, e.Message)
	}
	return fmt.Sprintf("parsing %s %s: %s", e.Format, e.File, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError names a missing library directory, template or record.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError returns a NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IOError is a local filesystem failure (library mirror, reports, metrics).
type IOError struct {
	Operation string
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ProcessError is a failed external command, such as git, with its output.
type ProcessError struct {
	Operation string
	Command   string
	Output    string
	Err       error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s (%s): %v", e.Operation, e.Command, e.Err)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

// ResourceError is a failed operation on a named resource, for example
// listing NetBox manufacturers.
type ResourceError struct {
	Operation string
	Resource  string
	ID        string
	Err       error
}

func (e *ResourceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s: %v", e.Operation, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Operation, e.Resource, e.ID, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// WrapIO returns nil for a nil err, otherwise an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapParse returns nil for a nil err, otherwise a ParseError.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapResource returns nil for a nil err, otherwise a ResourceError.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}
