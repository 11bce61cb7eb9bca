package recordstore

//go:generate go run go.uber.org/mock/mockgen -source=./recordstore.go -destination=./mocks/recordstore_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fleetops/config"
	"fleetops/infras/otel"
	"fleetops/shared/constant"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

var ErrNotConfigured = errors.New("record store base url is not configured")

// Error is a non-2xx answer from the record store. Reason carries the
// "error" field of the response envelope when the store supplied one.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Reason     string
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("record store %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Reason)
	}

	return fmt.Sprintf("record store %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// StatusCode returns the HTTP status of a record store error, or 0 when err
// did not come from a store response.
func StatusCode(err error) int {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.StatusCode
	}

	return 0
}

// Reason returns the store supplied reason of err, if any.
func Reason(err error) string {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Reason
	}

	return constant.Empty
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

type Client interface {
	Get(ctx context.Context, path string, out any) error
	Put(ctx context.Context, path string, body any, out any) error
}

type clientImpl struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	otel       otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Client {
	timeout := defaultTimeout
	if cfg.RecordStore.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.RecordStore.TimeoutSeconds) * time.Second
	}

	return NewWithHTTPClient(cfg.RecordStore.BaseURL, cfg.RecordStore.APIKey, &http.Client{Timeout: timeout}, otl)
}

func NewWithHTTPClient(baseURL, apiKey string, httpClient *http.Client, otl otel.Otel) Client {
	return &clientImpl{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		otel:       otl,
	}
}

func (c *clientImpl) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *clientImpl) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *clientImpl) do(ctx context.Context, method, path string, reqBody any, out any) (err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".RecordStore."+method)
	defer scope.End()
	defer scope.TraceIfError(&err)

	if c.baseURL == constant.Empty {
		return ErrNotConfigured
	}

	var buf bytes.Buffer
	if reqBody != nil {
		if err = json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return fmt.Errorf("failed to encode record store request: %w", err)
		}
	}

	requestID := uuid.NewString()
	scope.SetAttributes(map[string]any{
		"record_store.method":     method,
		"record_store.path":       path,
		"record_store.request_id": requestID,
	})

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build record store request: %w", err)
	}

	req.Header.Set(constant.RequestHeaderAccept, constant.ContentTypeJSON)
	req.Header.Set(constant.RequestHeaderRequestID, requestID)

	if reqBody != nil {
		req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	}

	if c.apiKey != constant.Empty {
		req.Header.Set(constant.RequestHeaderAPIKey, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("record store request failed")

		return fmt.Errorf("record store %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read record store response: %w", err)
	}

	scope.SetAttribute("record_store.status", resp.StatusCode)

	var env envelope
	if len(body) > 0 {
		if decodeErr := json.Unmarshal(body, &env); decodeErr != nil && resp.StatusCode < http.StatusBadRequest {
			return fmt.Errorf("failed to decode record store response: %w", decodeErr)
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = &Error{Method: method, Path: path, StatusCode: resp.StatusCode, Reason: env.Error}

		log.Warn().Int("status", resp.StatusCode).Str("reason", env.Error).Str("request_id", requestID).Msg("record store answered with an error")

		return err
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}

	if err = json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode record store data: %w", err)
	}

	return nil
}
