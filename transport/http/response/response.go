package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"fleetops/shared/constant"
	"fleetops/shared/failure"
	"fleetops/shared/logger"
)

var ErrStreamingUnsupported = errors.New("response writer does not support streaming")

// Data, Error and Message are the three response envelopes.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError answers with the status carried by err, or 500.
func WithError(writer http.ResponseWriter, err error) {
	msg := err.Error()

	write(writer, failure.GetCode(err), Error{Error: &msg})
}

func WithMessage(writer http.ResponseWriter, code int, msg string) {
	write(writer, code, Message{Message: &msg})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, envelope any) {
	body, err := json.Marshal(envelope)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}

// Stream writes server-sent events. It is not safe for concurrent use.
type Stream struct {
	writer  http.ResponseWriter
	flusher http.Flusher
}

// WithEventStream commits a 200 text/event-stream response and returns the
// stream to send events on.
func WithEventStream(writer http.ResponseWriter) (*Stream, error) {
	flusher, ok := writer.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	header := writer.Header()
	header.Set(constant.RequestHeaderContentType, constant.ContentTypeEventStream)
	header.Set(constant.RequestHeaderCacheControl, "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Stream{writer: writer, flusher: flusher}, nil
}

// Send writes one named event carrying payload as JSON.
func (s *Stream) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event payload: %w", err)
	}

	if _, err = fmt.Fprintf(s.writer, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	s.flusher.Flush()

	return nil
}
