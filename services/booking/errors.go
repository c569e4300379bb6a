package booking

import (
	"errors"
	"fmt"
)

// Error codes for lifecycle operations.
const (
	CodeNotFound        = "notFound"
	CodeUnauthorized    = "unauthorized"
	CodeConflict        = "conflict"
	CodeGatewayRejected = "gatewayRejected"
	CodeTransientIO     = "transientIO"
)

// ServiceError carries a machine-readable code alongside the message.
type ServiceError struct {
	Code    string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewNotFound(msg string) error {
	return &ServiceError{Code: CodeNotFound, Message: msg}
}

func NewUnauthorized(msg string) error {
	return &ServiceError{Code: CodeUnauthorized, Message: msg}
}

func NewConflict(msg string) error {
	return &ServiceError{Code: CodeConflict, Message: msg}
}

func NewGatewayRejected(msg string) error {
	return &ServiceError{Code: CodeGatewayRejected, Message: msg}
}

func NewTransient(msg string, err error) error {
	return &ServiceError{Code: CodeTransientIO, Message: msg, Err: err}
}

// CodeOf returns the service error code, or "" for plain errors.
func CodeOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func IsNotFound(err error) bool     { return CodeOf(err) == CodeNotFound }
func IsUnauthorized(err error) bool { return CodeOf(err) == CodeUnauthorized }
func IsConflict(err error) bool     { return CodeOf(err) == CodeConflict }
