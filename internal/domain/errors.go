package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrTemplateNotFound      = errors.New("council template not found")
	ErrSecretNotFound        = errors.New("secret not found")
	ErrProviderNotFound      = errors.New("provider not found")
	ErrProviderNotConfigured = errors.New("provider not configured")
	ErrSessionTerminal       = errors.New("session is terminal")
	ErrSessionActive         = errors.New("session is already running")
	ErrPauseRequested        = errors.New("pause requested")
	ErrSessionCancelled      = errors.New("session cancelled")
	ErrNoResponses           = errors.New("no council member responded")
	ErrResumeMismatch        = errors.New("resume state mismatch")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid session config: " + e.Reason
	}
	return fmt.Sprintf("invalid session config: %s: %s", e.Field, e.Reason)
}

func invalid(field string, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

type ResumeMismatchError struct {
	Reason string
}

func (e *ResumeMismatchError) Error() string {
	return "resume state mismatch: " + e.Reason
}

func (e *ResumeMismatchError) Is(target error) bool {
	return target == ErrResumeMismatch
}

func mismatch(format string, args ...any) error {
	return &ResumeMismatchError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err should be surfaced as a rejected request.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr) || errors.Is(err, ErrResumeMismatch)
}

type ProviderErrorKind string

const (
	ProviderErrorTransient ProviderErrorKind = "transient"
	ProviderErrorPermanent ProviderErrorKind = "permanent"
)

type ProviderError struct {
	Kind       ProviderErrorKind
	Provider   Provider
	StatusCode int
	Detail     string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s provider error (%s)", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" status %d", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Transient() bool {
	return e.Kind == ProviderErrorTransient
}

func IsTransient(err error) bool {
	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		return false
	}
	return providerErr.Transient()
}
