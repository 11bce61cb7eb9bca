package response_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleetops/shared/failure"
	"fleetops/transport/http/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusOK, map[string]string{"id": "b-1"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":"b-1"}}`, recorder.Body.String())
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{name: "failure", err: failure.Conflict("this booking was already responded to"), wantCode: http.StatusConflict, wantBody: `{"error":"this booking was already responded to"}`},
		{name: "plain error", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantBody: `{"error":"boom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
		})
	}
}

func TestWithMessage(t *testing.T) {
	tests := []struct {
		name     string
		respond  func(http.ResponseWriter)
		wantCode int
	}{
		{name: "rate limited", respond: response.WithRequestLimitExceeded, wantCode: http.StatusTooManyRequests},
		{name: "shutting down", respond: response.WithPreparingShutdown, wantCode: http.StatusServiceUnavailable},
		{name: "unhealthy", respond: response.WithUnhealthy, wantCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			tt.respond(recorder)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"message":`)
		})
	}
}

func TestWithEventStream(t *testing.T) {
	recorder := httptest.NewRecorder()

	stream, err := response.WithEventStream(recorder)
	require.NoError(t, err)

	require.NoError(t, stream.Send("countdown", map[string]string{"label": "1m 0s"}))
	require.NoError(t, stream.Send("countdown", map[string]string{"label": "59s"}))

	assert.Equal(t, "text/event-stream", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", recorder.Header().Get("Cache-Control"))
	assert.Equal(t,
		"event: countdown\ndata: {\"label\":\"1m 0s\"}\n\nevent: countdown\ndata: {\"label\":\"59s\"}\n\n",
		recorder.Body.String())
	assert.True(t, recorder.Flushed)
}

type plainWriter struct {
	http.ResponseWriter
}

func TestWithEventStream_Unsupported(t *testing.T) {
	_, err := response.WithEventStream(plainWriter{httptest.NewRecorder()})

	assert.ErrorIs(t, err, response.ErrStreamingUnsupported)
}
