package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("abc")
	assert.Error(t, err)
	_, err = parseID("")
	assert.Error(t, err)
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","bogus":1}`))
	var dst struct {
		Name string `json:"name"`
	}
	assert.Error(t, readJSON(w, r, &dst))
}

func TestReadJSONCapsBody(t *testing.T) {
	big := `{"name":"` + strings.Repeat("a", 1<<20) + `"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(big))
	var dst struct {
		Name string `json:"name"`
	}
	assert.Error(t, readJSON(w, r, &dst))
}

func TestReadJSONOK(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"board"}`))
	var dst struct {
		Name string `json:"name"`
	}
	require.NoError(t, readJSON(w, r, &dst))
	assert.Equal(t, "board", dst.Name)
}

func TestWriteErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, 404, "not found")

	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "not found", body["error"])
}

func TestFailMapsTaxonomy(t *testing.T) {
	a := newAPI(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	a.fail(w, "op", ErrNotFound)
	assert.Equal(t, 404, w.Code)

	w = httptest.NewRecorder()
	a.fail(w, "op", ErrConflict)
	assert.Equal(t, 409, w.Code)

	w = httptest.NewRecorder()
	a.fail(w, "op", validationf("name required"))
	assert.Equal(t, 400, w.Code)
}

func TestRateLimiter(t *testing.T) {
	a := newAPI(nil, slog.Default())
	for i := 0; i < 3; i++ {
		assert.True(t, a.allow("1.2.3.4", "auth", 3, time.Minute))
	}
	assert.False(t, a.allow("1.2.3.4", "auth", 3, time.Minute))
	// other clients and other keys have their own buckets
	assert.True(t, a.allow("5.6.7.8", "auth", 3, time.Minute))
	assert.True(t, a.allow("1.2.3.4", "other", 3, time.Minute))
}
