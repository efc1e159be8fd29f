package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapTypedError(t *testing.T) {
	h := Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return NewError(http.StatusBadRequest, "VALIDATION_ERROR_INVALID_SORT",
			"Validation failed.", "The sort field is invalid. [likes]")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts?sort=likes", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Equal(t, "Bad Request", env.ErrorText)
	assert.Equal(t, "VALIDATION_ERROR_INVALID_SORT", env.ErrorCode)
	assert.Equal(t, "/posts", env.Path, "path excludes the query string")
	require.Len(t, env.Details, 1)
}

func TestWrapUnknownErrorBecomes500(t *testing.T) {
	h := Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("boom")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", env.ErrorCode)
}

func TestWrapNilErrorWritesNothing(t *testing.T) {
	h := Wrap(func(w http.ResponseWriter, r *http.Request) error {
		WriteJSON(w, map[string]string{"ok": "yes"}, http.StatusOK)
		return nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":"yes"}`, rec.Body.String())
}

func TestEnvelopeDetailsNeverNull(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/posts", nil),
		NewError(http.StatusNotFound, "RESOURCE_NOT_FOUND", "The requested resource could not be found."))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	details, ok := raw["details"].([]any)
	require.True(t, ok, "details must serialize as a list, got %T", raw["details"])
	assert.Empty(t, details)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/posts", nil)
	r.RemoteAddr = "10.1.2.3:5123"
	assert.Equal(t, "10.1.2.3", ClientIP(r))

	r.RemoteAddr = "10.1.2.3"
	assert.Equal(t, "10.1.2.3", ClientIP(r))
}
