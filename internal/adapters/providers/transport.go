package providers

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

	"github.com/bnema/llm-council/internal/domain"
)

const (
	maxResponseBytes      = 8 << 20
	maxErrorBodyBytes     = 64 << 10
	defaultRequestTimeout = 120 * time.Second
)

// HTTPTransport is shared by every backend client.
type HTTPTransport struct {
	Client         *http.Client
	RequestTimeout time.Duration
}

func (t HTTPTransport) httpClient() *http.Client {
	if t.Client != nil {
		return t.Client
	}
	return http.DefaultClient
}

func (t HTTPTransport) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := t.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func (t HTTPTransport) postJSON(ctx context.Context, provider domain.Provider, endpoint string, headers map[string]string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", provider, err)
	}

	requestCtx, cancel := t.requestContext(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := t.httpClient().Do(req)
	if err != nil {
		return transportError(ctx, provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return statusError(provider, resp)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &domain.ProviderError{Kind: domain.ProviderErrorTransient, Provider: provider, Detail: "decode response", Err: err}
	}
	return nil
}

// transportError passes caller cancellation through and treats every other
// network failure, including the per-request timeout, as transient.
func transportError(ctx context.Context, provider domain.Provider, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	detail := "request failed"
	if errors.Is(err, context.DeadlineExceeded) {
		detail = "request timed out"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// url.Error repeats the endpoint, which may carry credentials.
		err = urlErr.Err
	}
	return &domain.ProviderError{Kind: domain.ProviderErrorTransient, Provider: provider, Detail: detail, Err: err}
}

type apiErrorBody struct {
	Error json.RawMessage `json:"error"`
}

type apiErrorObject struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Status  string `json:"status"`
}

func statusError(provider domain.Provider, resp *http.Response) error {
	return &domain.ProviderError{
		Kind:       classifyStatus(resp.StatusCode),
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Detail:     errorDetail(resp),
	}
}

func classifyStatus(status int) domain.ProviderErrorKind {
	switch {
	case status == http.StatusRequestTimeout,
		status == http.StatusTooEarly,
		status == http.StatusTooManyRequests,
		status >= http.StatusInternalServerError:
		return domain.ProviderErrorTransient
	default:
		return domain.ProviderErrorPermanent
	}
}

func errorDetail(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return http.StatusText(resp.StatusCode)
	}

	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Error) > 0 {
		var object apiErrorObject
		if err := json.Unmarshal(body.Error, &object); err == nil && object.Message != "" {
			return object.Message
		}
		var message string
		if err := json.Unmarshal(body.Error, &message); err == nil && message != "" {
			return message
		}
	}

	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return parsed.String(), nil
}
