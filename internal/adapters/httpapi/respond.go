package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bnema/llm-council/internal/adapters/files"
	"github.com/bnema/llm-council/internal/domain"
)

var errEmptyBody = errors.New("empty body")

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	resp := errorResponse{Error: err.Error()}
	var validation *domain.ValidationError
	var reqErr *requestError
	switch {
	case errors.As(err, &validation):
		resp.Field = validation.Field
	case errors.As(err, &reqErr):
		resp.Field = reqErr.Field
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, files.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, files.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case domain.IsValidation(err),
		isRequestError(err),
		errors.Is(err, errEmptyBody),
		isDecodeError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrProviderNotFound),
		errors.Is(err, domain.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionTerminal),
		errors.Is(err, domain.ErrSessionActive),
		errors.Is(err, domain.ErrProviderNotConfigured):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type requestError struct {
	Field  string
	Reason string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

func isRequestError(err error) bool {
	var target *requestError
	return errors.As(err, &target)
}

type decodeError struct {
	err error
}

func (e decodeError) Error() string {
	return "invalid JSON: " + e.err.Error()
}

func (e decodeError) Unwrap() error {
	return e.err
}

func isDecodeError(err error) bool {
	var target decodeError
	return errors.As(err, &target)
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	defer func() { _ = body.Close() }()

	decoder := json.NewDecoder(body)
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return decodeError{err: err}
	}
	if decoder.More() {
		return decodeError{err: fmt.Errorf("unexpected data after JSON object")}
	}
	return nil
}
