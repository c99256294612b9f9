package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/focusboard/internal/quotes"
	sharedDomain "github.com/felixgeelhaar/focusboard/internal/shared/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation maps to 400",
			err:        sharedDomain.Validationf("title is required"),
			wantStatus: 400,
			wantBody:   "title is required",
		},
		{
			name:       "not found maps to 404",
			err:        sharedDomain.NotFoundf("task abc"),
			wantStatus: 404,
			wantBody:   "task abc",
		},
		{
			name:       "conflict maps to 409",
			err:        sharedDomain.Conflictf("priority 3 is already taken"),
			wantStatus: 409,
			wantBody:   "priority 3 is already taken",
		},
		{
			name:       "quote outage maps to 503",
			err:        quotes.ErrUnavailable,
			wantStatus: 503,
			wantBody:   "quote service unavailable",
		},
		{
			name:       "unexpected errors are hidden behind 500",
			err:        errors.New("pq: connection reset"),
			wantStatus: 500,
			wantBody:   "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			writeDomainError(rec, testLogger(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Contains(t, body.Error, tt.wantBody)
		})
	}
}

func TestWriteList(t *testing.T) {
	rec := httptest.NewRecorder()

	writeList(rec, 200, []string{"a", "b"}, 2)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	require.NotNil(t, body.Count)
	assert.Equal(t, 2, *body.Count)
}

func TestWriteMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	writeMessage(rec, 200, "Task deleted", map[string]string{"id": "1"})

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, "Task deleted", body.Message)
	assert.NotNil(t, body.Data)
}
